package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	conversation "github.com/koscakluka/pullstring-core/core"
	"github.com/koscakluka/pullstring-core/core/events"
	"github.com/koscakluka/pullstring-core/core/responses"
	"github.com/koscakluka/pullstring-core/internal/config"
	"github.com/koscakluka/pullstring-core/internal/sessions"
)

const responseTimeout = 30 * time.Second

var errNoResponse = errors.New("no response from the service")

// runner drives a conversation one call at a time, waiting for each
// response before returning it.
type runner struct {
	conv      *conversation.Conversation
	store     *sessions.Store
	responses chan *responses.Response

	forward atomic.Pointer[func(*responses.Response)]
}

// newRunner opens the session store and starts, or resumes, the
// conversation with the configured project.
func newRunner(ctx context.Context, cfg *config.Config, opts ...conversation.Option) (*runner, *responses.Response, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := sessions.Open(cfg.SessionDB)
	if err != nil {
		return nil, nil, err
	}

	r := &runner{
		store:     store,
		responses: make(chan *responses.Response, 1),
	}

	opts = append([]conversation.Option{
		conversation.WithBaseURL(cfg.BaseURL),
		conversation.WithIdentityCallback(r.remember(cfg.Project)),
		conversation.WithEventHandler(logEvent),
	}, opts...)
	r.conv = conversation.New(r.receive, opts...)

	request, err := r.resumeRequest(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	response, err := r.call(ctx, func() { r.conv.Start(ctx, cfg.Project, request) })
	if err != nil {
		store.Close()
		return nil, response, err
	}
	return r, response, nil
}

func (r *runner) resumeRequest(ctx context.Context, cfg *config.Config) (*conversation.Request, error) {
	request := cfg.Request()
	if fresh {
		return request, r.store.Forget(ctx, cfg.Project)
	}

	session, err := r.store.Load(ctx, cfg.Project)
	if err != nil {
		return nil, err
	}
	if session != nil {
		slog.Debug("resuming conversation", "project", cfg.Project, "participant_id", session.ParticipantID)
		request.ParticipantID = session.ParticipantID
	}
	return request, nil
}

func (r *runner) remember(project string) func(conversationID, participantID string) {
	return func(conversationID, participantID string) {
		err := r.store.Save(context.Background(), sessions.Session{
			Project:        project,
			ConversationID: conversationID,
			ParticipantID:  participantID,
		})
		if err != nil {
			slog.Warn("failed to remember session", "error", err)
		}
	}
}

// forwardTo hands every later response to forward instead of call.
func (r *runner) forwardTo(forward func(*responses.Response)) {
	r.forward.Store(&forward)
}

func logEvent(event events.Event) {
	slog.Debug("conversation event", "namespace", event.Kind().Namespace(), "kind", event.Kind())
}

func (r *runner) receive(response *responses.Response) {
	if forward := r.forward.Load(); forward != nil {
		(*forward)(response)
		return
	}

	select {
	case r.responses <- response:
	default:
		slog.Warn("dropping unexpected response", "endpoint", response.Endpoint)
	}
}

// call runs one conversation operation and waits for its response.
func (r *runner) call(ctx context.Context, operation func()) (*responses.Response, error) {
	operation()

	timeout := time.NewTimer(responseTimeout)
	defer timeout.Stop()

	select {
	case response := <-r.responses:
		if !response.Status.Success {
			return response, response.Status.Err()
		}
		return response, nil
	case <-timeout.C:
		return nil, errNoResponse
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for response: %w", ctx.Err())
	}
}

func (r *runner) Close() error {
	return r.store.Close()
}
