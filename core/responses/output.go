package responses

import "github.com/koscakluka/pullstring-core/core/params"

type OutputType string

const (
	OutputTypeDialog   OutputType = "dialog"
	OutputTypeBehavior OutputType = "behavior"
)

// Output is either a Dialog or a Behavior.
type Output interface {
	isOutput()
}

// Dialog is a line the character speaks.
type Dialog struct {
	ID        string
	Text      string
	AudioURI  string
	VideoURI  string
	Character string
	// Duration of the audio in seconds.
	Duration float64
	UserData string
	Phonemes []Phoneme
}

// Phoneme is a mouth shape timed against the start of the dialog audio.
type Phoneme struct {
	Name          string
	OffsetSeconds float64
}

// Behavior is a named signal for the client to act on.
type Behavior struct {
	ID         string
	Name       string
	Parameters map[string]params.Value
}

func (Dialog) isOutput()   {}
func (Behavior) isOutput() {}

func OutputTypeOf(output Output) OutputType {
	switch output.(type) {
	case Dialog:
		return OutputTypeDialog
	case Behavior:
		return OutputTypeBehavior
	}
	return ""
}

func OutputID(output Output) string {
	switch typed := output.(type) {
	case Dialog:
		return typed.ID
	case Behavior:
		return typed.ID
	}
	return ""
}
