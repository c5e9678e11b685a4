// Package portaudio captures microphone input through PortAudio.
package portaudio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/koscakluka/pullstring-core/core/audio"
)

// DefaultBufferSize is the number of samples handed over per read.
const DefaultBufferSize = 512

var _ audio.Capture = (*Client)(nil)

type Client struct {
	stream *portaudio.Stream
	in     []int16

	mu      sync.Mutex
	stop    context.CancelFunc
	stopped chan struct{}
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, bufferSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &Client{stream: stream, in: in}, nil
}

// StartCapture reads from the microphone on a new goroutine until
// StopCapture is called or ctx is done. Each buffer is copied before it is
// handed to onSamples.
func (c *Client) StartCapture(ctx context.Context, onSamples func(samples []int16)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}

	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	c.stop, c.stopped = cancel, stopped

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := c.stream.Read(); err != nil {
				slog.Warn("failed to read from PortAudio stream", "error", err)
				continue
			}
			onSamples(append([]int16(nil), c.in...))
		}
	}()

	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	stop, stopped := c.stop, c.stopped
	c.stop, c.stopped = nil, nil
	c.mu.Unlock()
	if stop == nil {
		return nil
	}

	stop()
	<-stopped
	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop PortAudio stream: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.StopCapture(); err != nil {
		return err
	}
	if err := c.stream.Close(); err != nil {
		return fmt.Errorf("failed to close PortAudio stream: %w", err)
	}
	return portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
