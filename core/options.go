package conversation

import (
	"net/http"
	"time"

	"github.com/koscakluka/pullstring-core/core/events"
)

type Option func(*Conversation)

// WithBaseURL points the conversation at a different deployment of the
// service. Defaults to APIBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Conversation) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Conversation) {
		c.httpClient = client
	}
}

// WithEventHandler receives every lifecycle event. Handlers run on the
// goroutine that produced the event and must not block.
func WithEventHandler(handler func(events.Event)) Option {
	return func(c *Conversation) {
		c.callbacks.onEvent = handler
	}
}

// WithIdentityCallback is called whenever a response changes the
// conversation or participant id, before the response listener runs.
func WithIdentityCallback(callback func(conversationID, participantID string)) Option {
	return func(c *Conversation) {
		c.callbacks.onIdentityUpdated = callback
	}
}

// WithTimedResponseCallback is called for responses announcing a timed
// response. after is the time left to speak the response's dialog plus the
// announced interval, which is when CheckForTimedResponse should be called.
func WithTimedResponseCallback(callback func(after time.Duration)) Option {
	return func(c *Conversation) {
		c.callbacks.onTimedResponse = callback
	}
}

type CallOption func(*callOptions)

type callOptions struct {
	request *Request
}

// WithRequest replaces the request the conversation holds before the call
// is made. The conversation keeps a copy: ids returned by the service are
// stored in that copy, never in req. Passing the same req to every call
// therefore resets the ids to the ones in req each time; pass it once and
// read ConversationID and ParticipantID afterwards.
func WithRequest(req *Request) CallOption {
	return func(o *callOptions) {
		o.request = req
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
