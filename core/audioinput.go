package conversation

import (
	"context"

	"github.com/koscakluka/pullstring-core/core/audio"
	"github.com/koscakluka/pullstring-core/core/events"
	"github.com/koscakluka/pullstring-core/core/responses"
	"github.com/koscakluka/pullstring-core/core/transport"
)

// audioUpload is one streamed utterance. Chunks added before the stream
// opens are kept in pending and flushed in order when it does.
type audioUpload struct {
	stream  *transport.Stream
	pending [][]byte
	ended   bool
	samples int
}

// StartAudio opens a streamed upload of mono 16-bit PCM at 16kHz. Feed it
// with AddAudio and finish it with EndAudio; the response is delivered to
// the listener after EndAudio. Starting a new upload ends the previous one.
func (c *Conversation) StartAudio(ctx context.Context, opts ...CallOption) {
	ctx, span := tracer.Start(ctx, "start audio")
	defer span.End()

	snapshot, ok := c.snapshot(ctx, operationStreamAudio, applyCallOptions(opts).request)
	if !ok {
		return
	}
	span.SetAttributes(spanAttributes(operationStreamAudio, snapshot)...)

	if c.transportErr != nil {
		c.fail(ctx, operationStreamAudio, responses.CodeTransportFailure, c.transportErr.Error())
		return
	}

	c.EndAudio()

	upload := &audioUpload{}
	c.mu.Lock()
	c.audio = upload
	c.mu.Unlock()

	req := transport.Request{
		Endpoint: endpointFor(snapshot),
		Query:    queryFor(snapshot),
		Header:   headersFor(snapshot, true),
	}
	c.emitEvent(events.NewRequestStarted(operationStreamAudio, req.Endpoint))
	c.transport.Open(ctx, req,
		func(stream *transport.Stream) {
			c.audioOpened(upload, stream)
		},
		func(response *responses.Response) {
			c.audioFinished(upload)
			c.complete(operationStreamAudio, response)
		},
	)
}

// AddAudio queues samples for the open upload. It does nothing when no
// upload was started or the upload already ended.
func (c *Conversation) AddAudio(samples []int16) {
	if len(samples) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	upload := c.audio
	if upload == nil || upload.ended {
		return
	}

	chunk := audio.EncodePCM16LE(samples)
	upload.samples += len(samples)
	if upload.stream == nil {
		upload.pending = append(upload.pending, chunk)
		return
	}
	upload.stream.Write(chunk)
}

// EndAudio finishes the current upload. Without one it does nothing.
func (c *Conversation) EndAudio() {
	c.mu.Lock()
	upload := c.audio
	if upload == nil || upload.ended {
		c.mu.Unlock()
		return
	}
	upload.ended = true
	c.audio = nil
	if upload.stream != nil {
		upload.stream.Close()
	}
	samples := upload.samples
	c.mu.Unlock()

	c.emitEvent(events.NewAudioStreamClosed(samples))
}

func (c *Conversation) audioOpened(upload *audioUpload, stream *transport.Stream) {
	c.emitEvent(events.NewAudioStreamOpened())

	c.mu.Lock()
	upload.stream = stream
	for _, chunk := range upload.pending {
		stream.Write(chunk)
	}
	upload.pending = nil
	if upload.ended {
		stream.Close()
	}
	c.mu.Unlock()
}

func (c *Conversation) audioFinished(upload *audioUpload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	upload.ended = true
	upload.pending = nil
	if c.audio == upload {
		c.audio = nil
	}
}
