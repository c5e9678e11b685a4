package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/koscakluka/pullstring-core/core/audio"
	"github.com/koscakluka/pullstring-core/core/audio/miniaudio"
	"github.com/koscakluka/pullstring-core/core/audio/portaudio"
	"github.com/koscakluka/pullstring-core/core/responses"
	"github.com/koscakluka/pullstring-core/internal/config"
)

// streamChunkSamples is the number of samples sent per chunk when a file is
// streamed, 100ms at 16kHz.
const streamChunkSamples = 1600

var (
	streamWAV     bool
	recordSeconds float64
)

var sendWAVCmd = &cobra.Command{
	Use:   "send-wav <file>",
	Short: "Send a 16kHz mono 16-bit WAV file as speech",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		if !streamWAV {
			return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
				return r.call(ctx, func() { r.conv.SendAudio(ctx, data, audio.AsrFormatWAV16K) })
			})
		}

		samples, err := wavSamples(data)
		if err != nil {
			return err
		}
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { streamSamples(ctx, r, samples) })
		})
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <file>",
	Short: "Record the microphone into a WAV file send-wav accepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capture, err := newCapture(cfg)
		if err != nil {
			return fmt.Errorf("failed to open microphone: %w", err)
		}
		defer capture.Close()

		var (
			mu      sync.Mutex
			samples []int16
		)
		err = capture.StartCapture(cmd.Context(), func(chunk []int16) {
			mu.Lock()
			samples = append(samples, chunk...)
			mu.Unlock()
		})
		if err != nil {
			return fmt.Errorf("failed to start recording: %w", err)
		}

		fmt.Println(hintStyle.Render(fmt.Sprintf("Recording for %.1fs...", recordSeconds)))
		select {
		case <-time.After(time.Duration(recordSeconds * float64(time.Second))):
		case <-cmd.Context().Done():
		}
		if err := capture.StopCapture(); err != nil {
			return fmt.Errorf("failed to stop recording: %w", err)
		}

		mu.Lock()
		data, err := audio.EncodeWAV(samples, audio.DefaultSampleRate)
		mu.Unlock()
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], data, 0o644)
	},
}

func wavSamples(data []byte) ([]int16, error) {
	pcm, err := audio.ValidateWAV(data)
	if err != nil {
		return nil, err
	}
	return audio.DecodePCM16LE(pcm)
}

func streamSamples(ctx context.Context, r *runner, samples []int16) {
	r.conv.StartAudio(ctx)
	for len(samples) > 0 {
		n := min(streamChunkSamples, len(samples))
		r.conv.AddAudio(samples[:n])
		samples = samples[n:]
	}
	r.conv.EndAudio()
}

// newCapture opens the microphone with the configured backend.
func newCapture(cfg *config.Config) (audio.Capture, error) {
	if cfg.AudioBackend == config.AudioBackendPortaudio {
		client, err := portaudio.NewClient(portaudio.DefaultBufferSize)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := miniaudio.NewClient()
	if err != nil {
		return nil, err
	}
	return client, nil
}

func init() {
	sendWAVCmd.Flags().BoolVar(&streamWAV, "stream", false, "Stream the samples in chunks instead of one request")
	recordCmd.Flags().Float64Var(&recordSeconds, "seconds", 5, "Recording length in seconds")
	rootCmd.AddCommand(sendWAVCmd, recordCmd)
}
