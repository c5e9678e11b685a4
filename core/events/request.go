package events

import "github.com/koscakluka/pullstring-core/core/responses"

// KindRequestStarted identifies a call handed to the transport.
const KindRequestStarted Kind = "request.started"

// KindRequestFailed identifies a call that produced a failed status, local
// or remote.
const KindRequestFailed Kind = "request.failed"

// KindResponseReceived identifies a decoded response about to be delivered
// to the listener.
const KindResponseReceived Kind = "response.received"

// RequestStarted carries the operation name and the endpoint it targets.
type RequestStarted struct {
	Base
	Operation string
	Endpoint  string
}

// NewRequestStarted creates a request started event.
func NewRequestStarted(operation, endpoint string) RequestStarted {
	return RequestStarted{Base: NewBase(KindRequestStarted), Operation: operation, Endpoint: endpoint}
}

// RequestFailed carries the failed status of an operation.
type RequestFailed struct {
	Base
	Operation string
	Status    responses.Status
}

// NewRequestFailed creates a request failed event.
func NewRequestFailed(operation string, status responses.Status) RequestFailed {
	return RequestFailed{Base: NewBase(KindRequestFailed), Operation: operation, Status: status}
}

// ResponseReceived carries the decoded response of an operation.
type ResponseReceived struct {
	Base
	Operation string
	Response  *responses.Response
}

// NewResponseReceived creates a response received event.
func NewResponseReceived(operation string, response *responses.Response) ResponseReceived {
	return ResponseReceived{Base: NewBase(KindResponseReceived), Operation: operation, Response: response}
}
