// Package responses holds the decoded result of a conversation call and the
// decoder that builds it from the wire JSON.
package responses

import "time"

// Response is the decoded result of one call. Every call, including ones
// that failed before reaching the network, produces a Response.
type Response struct {
	Status Status

	ConversationID string
	ParticipantID  string
	ETag           string
	// LastModified is nil when the server omitted it or sent an unparsable
	// date.
	LastModified *time.Time
	// TimedResponseInterval is the number of seconds after which a timed
	// response should be polled for, or 0 if none is pending.
	TimedResponseInterval float64
	ASRHypothesis         string
	Endpoint              string

	Outputs  []Output
	Entities []Entity
}

func NewFailure(code int, message string) *Response {
	return &Response{Status: Failure(code, message)}
}

func (r *Response) Dialogs() []Dialog {
	var dialogs []Dialog
	for _, output := range r.Outputs {
		if dialog, ok := output.(Dialog); ok {
			dialogs = append(dialogs, dialog)
		}
	}
	return dialogs
}

func (r *Response) Behaviors() []Behavior {
	var behaviors []Behavior
	for _, output := range r.Outputs {
		if behavior, ok := output.(Behavior); ok {
			behaviors = append(behaviors, behavior)
		}
	}
	return behaviors
}

// Entity returns the entity with the given name.
func (r *Response) Entity(name string) (Entity, bool) {
	for _, entity := range r.Entities {
		if EntityName(entity) == name {
			return entity, true
		}
	}
	return nil, false
}

// DialogDuration is the total spoken duration of all dialog outputs, in
// seconds.
func (r *Response) DialogDuration() float64 {
	var total float64
	for _, dialog := range r.Dialogs() {
		total += dialog.Duration
	}
	return total
}
