package conversation

import (
	"time"

	"github.com/jinzhu/copier"
)

type BuildType string

const (
	BuildTypeProduction BuildType = "production"
	BuildTypeStaging    BuildType = "staging"
	BuildTypeSandbox    BuildType = "sandbox"
)

const (
	DefaultLanguage = "en-US"
	DefaultLocale   = "en-US"
)

// Request describes who is calling and how. A Request passed to an
// operation replaces the one the conversation holds, including its
// ConversationID and ParticipantID, which makes it the way to resume a
// stored session.
//
// Use NewRequest to get the defaults; the zero value disables
// RestartIfModified.
type Request struct {
	APIKey    string
	BuildType BuildType
	// Language is the ASR language, sent as the asr_language query parameter.
	Language string
	Locale   string
	// TimezoneOffset from UTC, in seconds.
	TimezoneOffset    int
	RestartIfModified bool
	AccountID         string

	ConversationID string
	ParticipantID  string
}

func NewRequest(apiKey string) *Request {
	_, offset := time.Now().Zone()
	return &Request{
		APIKey:            apiKey,
		BuildType:         BuildTypeProduction,
		Language:          DefaultLanguage,
		Locale:            DefaultLocale,
		TimezoneOffset:    offset,
		RestartIfModified: true,
	}
}

func (r *Request) clone() *Request {
	var cloned Request
	copier.Copy(&cloned, r)
	return &cloned
}
