package events

// KindAudioStreamOpened identifies a streamed audio upload becoming
// writable.
const KindAudioStreamOpened Kind = "audio_stream.opened"

// KindAudioStreamClosed identifies the end of a streamed audio upload.
const KindAudioStreamClosed Kind = "audio_stream.closed"

// AudioStreamOpened marks that queued samples are being sent.
type AudioStreamOpened struct{ Base }

// NewAudioStreamOpened creates an audio stream opened event.
func NewAudioStreamOpened() AudioStreamOpened {
	return AudioStreamOpened{Base: NewBase(KindAudioStreamOpened)}
}

// AudioStreamClosed carries the number of samples accepted for upload.
type AudioStreamClosed struct {
	Base
	Samples int
}

// NewAudioStreamClosed creates an audio stream closed event.
func NewAudioStreamClosed(samples int) AudioStreamClosed {
	return AudioStreamClosed{Base: NewBase(KindAudioStreamClosed), Samples: samples}
}
