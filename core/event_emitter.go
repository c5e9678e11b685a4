package conversation

import (
	"time"

	"github.com/koscakluka/pullstring-core/core/events"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

type callbacks struct {
	onEvent           func(events.Event)
	onIdentityUpdated func(conversationID, participantID string)
	onTimedResponse   func(after time.Duration)
}

func (c callbacks) isZero() bool {
	return c.onEvent == nil && c.onIdentityUpdated == nil && c.onTimedResponse == nil
}

func newCallbackEventEmitter(opts callbacks) eventEmitter {
	if opts.isZero() {
		return noopEventEmitter
	}

	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.IdentityUpdated:
			if opts.onIdentityUpdated != nil {
				opts.onIdentityUpdated(typedEvent.ConversationID, typedEvent.ParticipantID)
			}
		case events.ResponseReceived:
			if opts.onTimedResponse != nil && typedEvent.Response.Status.Success && typedEvent.Response.TimedResponseInterval > 0 {
				opts.onTimedResponse(timedResponseDelay(typedEvent.Response.DialogDuration(), typedEvent.Response.TimedResponseInterval))
			}
		}
	}
}

func timedResponseDelay(dialogSeconds, intervalSeconds float64) time.Duration {
	return time.Duration((dialogSeconds + intervalSeconds) * float64(time.Second))
}
