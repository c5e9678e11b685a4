package conversation

import (
	"bytes"
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/koscakluka/pullstring-core/core/audio"
	"github.com/koscakluka/pullstring-core/core/responses"
	"github.com/koscakluka/pullstring-core/core/transport"
)

const (
	operationStart                 = "start"
	operationSendText              = "send_text"
	operationSendActivity          = "send_activity"
	operationSendEvent             = "send_event"
	operationGoTo                  = "goto"
	operationCheckForTimedResponse = "check_for_timed_response"
	operationGetEntities           = "get_entities"
	operationSetEntities           = "set_entities"
	operationSendAudio             = "send_audio"
	operationStreamAudio           = "stream_audio"
)

// Start begins a conversation with project. req may be nil when a request
// was supplied earlier.
func (c *Conversation) Start(ctx context.Context, project string, req *Request) {
	ctx, span := tracer.Start(ctx, "start conversation")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.project", project))

	if project == "" {
		c.fail(ctx, operationStart, responses.CodeBadRequest, "Project name not set")
		return
	}

	snapshot, ok := c.snapshot(ctx, operationStart, req)
	if !ok {
		return
	}
	span.SetAttributes(spanAttributes(operationStart, snapshot)...)

	c.postJSON(ctx, operationStart, snapshot, map[string]any{
		"project":          project,
		"time_zone_offset": snapshot.TimezoneOffset,
	})
}

// SendText sends user input text.
func (c *Conversation) SendText(ctx context.Context, text string, opts ...CallOption) {
	c.send(ctx, operationSendText, opts, map[string]any{"text": text})
}

// SendActivity triggers an activity by its id or name.
func (c *Conversation) SendActivity(ctx context.Context, activity string, opts ...CallOption) {
	c.send(ctx, operationSendActivity, opts, map[string]any{"activity": activity})
}

// SendEvent reports a named event. parameters may be nil and may hold any
// JSON-encodable values, including params.Value.
func (c *Conversation) SendEvent(ctx context.Context, name string, parameters map[string]any, opts ...CallOption) {
	event := map[string]any{"name": name}
	if parameters != nil {
		event["parameters"] = parameters
	}
	c.send(ctx, operationSendEvent, opts, map[string]any{"event": event})
}

// GoTo jumps the conversation to the response with the given id.
func (c *Conversation) GoTo(ctx context.Context, responseID string, opts ...CallOption) {
	c.send(ctx, operationGoTo, opts, map[string]any{"goto": responseID})
}

// CheckForTimedResponse polls for output the service scheduled after a
// previous response set TimedResponseInterval.
func (c *Conversation) CheckForTimedResponse(ctx context.Context, opts ...CallOption) {
	c.send(ctx, operationCheckForTimedResponse, opts, nil)
}

// GetEntities asks for the current value of the named entities.
func (c *Conversation) GetEntities(ctx context.Context, names []string, opts ...CallOption) {
	if names == nil {
		names = []string{}
	}
	c.send(ctx, operationGetEntities, opts, map[string]any{"get_entities": names})
}

// SetEntities overwrites the value of each entity.
func (c *Conversation) SetEntities(ctx context.Context, entities []responses.Entity, opts ...CallOption) {
	values := make(map[string]any, len(entities))
	for _, entity := range entities {
		values[responses.EntityName(entity)] = responses.EntityValue(entity)
	}
	c.send(ctx, operationSetEntities, opts, map[string]any{"set_entities": values})
}

func (c *Conversation) send(ctx context.Context, operation string, opts []CallOption, payload map[string]any) {
	ctx, span := tracer.Start(ctx, operation)
	defer span.End()

	snapshot, ok := c.snapshot(ctx, operation, applyCallOptions(opts).request)
	if !ok {
		return
	}
	span.SetAttributes(spanAttributes(operation, snapshot)...)

	c.postJSON(ctx, operation, snapshot, payload)
}

// SendAudio uploads a complete clip of the user speaking. Only
// audio.AsrFormatWAV16K is accepted; raw PCM has to be streamed with
// StartAudio. An empty format means the default, WAV.
func (c *Conversation) SendAudio(ctx context.Context, data []byte, format audio.AsrFormat, opts ...CallOption) {
	ctx, span := tracer.Start(ctx, operationSendAudio)
	defer span.End()
	span.SetAttributes(attribute.Int("audio.size", len(data)), attribute.String("audio.format", string(format)))

	if format == "" {
		format = audio.DefaultAsrFormat
	}
	if format != audio.AsrFormatWAV16K {
		c.fail(ctx, operationSendAudio, responses.CodeBadRequest, "Unsupported format sent to sendAudio.")
		return
	}

	snapshot, ok := c.snapshot(ctx, operationSendAudio, applyCallOptions(opts).request)
	if !ok {
		return
	}
	span.SetAttributes(spanAttributes(operationSendAudio, snapshot)...)

	pcm, err := audio.ValidateWAV(data)
	if err != nil {
		span.RecordError(err)
		c.fail(ctx, operationSendAudio, responses.CodeParsing, err.Error())
		return
	}

	c.post(ctx, operationSendAudio, transport.Request{
		Endpoint: endpointFor(snapshot),
		Query:    queryFor(snapshot),
		Header:   headersFor(snapshot, true),
		Body:     bytes.Clone(pcm),
	})
}
