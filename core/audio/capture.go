package audio

import "context"

// Capture produces mono 16-bit samples at DefaultSampleRate from an input
// device.
type Capture interface {
	StartCapture(ctx context.Context, onSamples func(samples []int16)) error
	StopCapture() error
	Close() error
}
