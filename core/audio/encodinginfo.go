package audio

import "fmt"

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: EncodingLinear16}
}

// EncodingInfo describes the PCM stream accepted by the speech endpoint.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// ContentType is the value of the Content-Type header for audio uploads in
// this encoding.
func (e EncodingInfo) ContentType() string {
	switch e.Format {
	case EncodingLinear16:
		return fmt.Sprintf("audio/l16; rate=%d", e.SampleRate)
	}
	return "application/octet-stream"
}

// BytesPerSecond of mono audio in this encoding.
func (e EncodingInfo) BytesPerSecond() int {
	if e.Format.ByteSize() < 0 {
		return 0
	}
	return e.SampleRate * e.Format.ByteSize()
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingLinear16:
		return 2
	}
	return -1
}

const EncodingLinear16 encodingFormat = "linear16"

// AsrFormat is the container of an audio clip handed to the conversation.
type AsrFormat string

const (
	// AsrFormatRawPCM16K is headerless mono 16-bit PCM at 16kHz. It is only
	// accepted for streamed uploads.
	AsrFormatRawPCM16K AsrFormat = "raw_pcm_16k"
	// AsrFormatWAV16K is a RIFF/WAVE container holding mono 16-bit PCM at
	// 16kHz.
	AsrFormatWAV16K AsrFormat = "wav_16k"
)

const DefaultAsrFormat = AsrFormatWAV16K
