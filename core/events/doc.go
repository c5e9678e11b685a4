// Package events defines the typed lifecycle events a conversation emits
// next to its responses.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - request.*
//   - response.*
//   - identity.*
//   - audio_stream.*
//
// request events
//
//   - RequestStarted (request.started): a call was handed to the transport.
//     Calls that fail locally never start.
//   - RequestFailed (request.failed): a call produced a failed status, either
//     locally or from the service.
//
// response events
//
//   - ResponseReceived (response.received): a response is about to be
//     delivered to the listener. Emitted for failures too.
//
// identity events
//
//   - IdentityUpdated (identity.updated): a response changed the conversation
//     or participant id. Emitted before the listener sees that response.
//
// audio_stream events
//
//   - AudioStreamOpened (audio_stream.opened): a streamed upload became
//     writable and queued samples are being sent.
//   - AudioStreamClosed (audio_stream.closed): the caller ended a streamed
//     upload; includes the number of samples accepted.
package events
