// Package conversation drives a conversation with the PullString Web API.
//
// A Conversation turns each operation into a POST against the service and
// delivers the decoded result to a single ResponseListener. Operations
// return immediately; responses arrive on other goroutines. Failures,
// including ones detected before any network traffic, are delivered to the
// same listener as a Response with a failed Status.
//
// The conversation and participant ids returned by the service are stored
// on every successful response, before the listener runs, so a call made
// from inside the listener already uses them. A response that omits an id,
// or any failed response, leaves the stored id unchanged. Calls issued concurrently
// each use the ids known when they were issued, and the response that
// arrives last decides the ids used afterwards.
package conversation

import (
	"context"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/koscakluka/pullstring-core/core/events"
	"github.com/koscakluka/pullstring-core/core/responses"
	"github.com/koscakluka/pullstring-core/core/transport"
)

type ResponseListener func(*responses.Response)

type Conversation struct {
	mu sync.Mutex
	// request holds the session identity in its ConversationID and
	// ParticipantID fields.
	request *Request
	audio   *audioUpload

	listener     ResponseListener
	transport    *transport.Client
	transportErr error

	baseURL    string
	httpClient *http.Client
	callbacks  callbacks
	emitEvent  eventEmitter
}

func New(listener ResponseListener, opts ...Option) *Conversation {
	c := &Conversation{
		listener: listener,
		baseURL:  APIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.emitEvent = newCallbackEventEmitter(c.callbacks)
	var transportOpts []transport.ClientOption
	if c.httpClient != nil {
		transportOpts = append(transportOpts, transport.WithHTTPClient(c.httpClient))
	}
	c.transport, c.transportErr = transport.NewClient(c.baseURL, transportOpts...)

	return c
}

// ConversationID is the id of the current conversation, or "" before the
// first successful response.
func (c *Conversation) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.request == nil {
		return ""
	}
	return c.request.ConversationID
}

// ParticipantID is the id the service uses to resume this participant.
func (c *Conversation) ParticipantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.request == nil {
		return ""
	}
	return c.request.ParticipantID
}

// snapshot installs req, if given, and returns a copy of the request to use
// for one call. It reports a failure to the listener when there is no
// request at all.
func (c *Conversation) snapshot(ctx context.Context, operation string, req *Request) (*Request, bool) {
	c.mu.Lock()
	if req != nil {
		c.request = req.clone()
	}
	var snapshot *Request
	if c.request != nil {
		snapshot = c.request.clone()
	}
	c.mu.Unlock()

	if snapshot == nil {
		c.fail(ctx, operation, responses.CodeBadRequest, "Valid Request object missing")
		return nil, false
	}
	return snapshot, true
}

// fail delivers a locally produced failure on the calling goroutine.
func (c *Conversation) fail(ctx context.Context, operation string, code int, message string) {
	logger.DebugContext(ctx, "conversation call failed locally", "operation", operation, "code", code, "message", message)
	c.deliver(operation, responses.NewFailure(code, message))
}

func (c *Conversation) postJSON(ctx context.Context, operation string, req *Request, payload map[string]any) {
	body, err := encodeBody(req, payload)
	if err != nil {
		c.fail(ctx, operation, responses.CodeEncoding, err.Error())
		return
	}

	c.post(ctx, operation, transport.Request{
		Endpoint: endpointFor(req),
		Query:    queryFor(req),
		Header:   headersFor(req, false),
		Body:     body,
	})
}

func (c *Conversation) post(ctx context.Context, operation string, req transport.Request) {
	if c.transportErr != nil {
		c.fail(ctx, operation, responses.CodeTransportFailure, c.transportErr.Error())
		return
	}

	c.emitEvent(events.NewRequestStarted(operation, req.Endpoint))
	c.transport.Post(ctx, req, func(response *responses.Response) {
		c.complete(operation, response)
	})
}

// complete is the single place where the session identity changes.
func (c *Conversation) complete(operation string, response *responses.Response) {
	if response.Status.Success {
		c.applyIdentity(response)
	}
	c.deliver(operation, response)
}

func (c *Conversation) applyIdentity(response *responses.Response) {
	c.mu.Lock()
	if c.request == nil {
		c.mu.Unlock()
		return
	}

	changed := false
	if response.ConversationID != "" && response.ConversationID != c.request.ConversationID {
		c.request.ConversationID = response.ConversationID
		changed = true
	}
	if response.ParticipantID != "" && response.ParticipantID != c.request.ParticipantID {
		c.request.ParticipantID = response.ParticipantID
		changed = true
	}
	conversationID, participantID := c.request.ConversationID, c.request.ParticipantID
	c.mu.Unlock()

	if changed {
		logger.Debug("conversation identity updated", "conversation", conversationID, "participant", participantID)
		c.emitEvent(events.NewIdentityUpdated(conversationID, participantID))
	}
}

func (c *Conversation) deliver(operation string, response *responses.Response) {
	if !response.Status.Success {
		c.emitEvent(events.NewRequestFailed(operation, response.Status))
	}
	c.emitEvent(events.NewResponseReceived(operation, response))

	if c.listener != nil {
		c.listener(response)
	}
}

func spanAttributes(operation string, req *Request) []attribute.KeyValue {
	if req == nil {
		return []attribute.KeyValue{attribute.String("conversation.operation", operation)}
	}
	return []attribute.KeyValue{
		attribute.String("conversation.operation", operation),
		attribute.String("conversation.id", req.ConversationID),
		attribute.String("conversation.build_type", string(req.BuildType)),
		attribute.String("conversation.language", req.Language),
	}
}
