package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/koscakluka/pullstring-core/core/responses"
)

var errStreamFinished = errors.New("stream exchange finished")

// Stream is the write side of a chunked upload. Chunks are queued and
// written to the connection in order by a dedicated goroutine, so Write
// never blocks on the network. Writes after Close are dropped.
type Stream struct {
	mu      sync.Mutex
	pending [][]byte
	closed  bool
	queued  int

	wake chan struct{}
	pipe *io.PipeWriter
}

func newStream(pipe *io.PipeWriter) *Stream {
	return &Stream{
		wake: make(chan struct{}, 1),
		pipe: pipe,
	}
}

// Write queues a copy of chunk and reports whether it was accepted.
func (s *Stream) Write(chunk []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if len(chunk) == 0 {
		return true
	}

	s.pending = append(s.pending, append([]byte(nil), chunk...))
	s.queued += len(chunk)
	s.signal()
	return true
}

// Close finishes the upload once every queued chunk is written. The
// response is delivered to the handler given to Open.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.signal()
}

func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) queuedBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queued
}

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// abandon drops queued chunks and stops the writer.
func (s *Stream) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
	s.signal()
}

func (s *Stream) pump() {
	for range s.wake {
		s.mu.Lock()
		chunks, closing := s.pending, s.closed
		s.pending = nil
		s.mu.Unlock()

		for _, chunk := range chunks {
			if _, err := s.pipe.Write(chunk); err != nil {
				logger.Debug("dropping stream chunks", "error", err)
				s.abandon()
				s.pipe.CloseWithError(err)
				return
			}
		}
		if closing {
			s.pipe.Close()
			return
		}
	}
}

// Open starts a chunked POST. onOpen receives the stream on a new goroutine
// once the request headers are on the wire. onResponse receives the decoded
// response after the stream is closed, or the failure if the exchange could
// not be started. A stream that never opened reports CodeBadRequest.
func (c *Client) Open(ctx context.Context, req Request, onOpen func(*Stream), onResponse ResponseHandler) {
	ctx = context.WithoutCancel(ctx)
	body, pipe := io.Pipe()
	stream := newStream(pipe)
	go stream.pump()

	go func() {
		response := c.streamRecovered(ctx, req, stream, body, onOpen)
		body.CloseWithError(errStreamFinished)
		stream.abandon()
		if onResponse != nil {
			onResponse(response)
		}
	}()
}

func (c *Client) streamRecovered(
	ctx context.Context,
	req Request,
	stream *Stream,
	body io.Reader,
	onOpen func(*Stream),
) (response *responses.Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			response = responses.NewFailure(responses.CodeTransportFailure, fmt.Sprintf("stream worker panicked: %v", recovered))
		}
	}()

	ctx, span := tracer.Start(ctx, "stream conversation")
	defer span.End()
	started := time.Now()
	callID := uuid.NewString()
	span.SetAttributes(
		attribute.String("call.id", callID),
		attribute.String("request.endpoint", req.Endpoint),
	)

	var opened atomic.Bool
	var notifyOnce sync.Once
	traceCtx := httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		WroteHeaders: func() {
			notifyOnce.Do(func() {
				opened.Store(true)
				span.AddEvent("stream opened")
				if onOpen != nil {
					go onOpen(stream)
				}
			})
		},
	})

	response = c.exchange(traceCtx, span, req, func(target string) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(traceCtx, http.MethodPost, target, body)
		if err != nil {
			return nil, err
		}
		httpReq.ContentLength = -1
		return httpReq, nil
	})
	if !opened.Load() && response.Status.Code == responses.CodeTransportFailure {
		response.Status.Code = responses.CodeBadRequest
	}

	span.SetAttributes(attribute.Int("request.body_size", stream.queuedBytes()))
	record(ctx, span, modeStreamed, callID, started, response)
	return response
}
