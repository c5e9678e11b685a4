package responses

import "fmt"

const (
	CodeOK = 200

	// CodeUnknownServerError is used when the server reports an error without
	// a status.
	CodeUnknownServerError = 500
	// CodeTransportFailure is used when the exchange failed before a status
	// could be read.
	CodeTransportFailure = 501

	// Codes reserved for failures detected locally. They never reach the wire.
	CodeEncoding   = -1
	CodeParsing    = -2
	CodeBadRequest = -3
)

const unknownErrorMessage = "Unknown Error"

type Status struct {
	Success bool
	Code    int
	Message string
}

func OK() Status {
	return Status{Success: true, Code: CodeOK}
}

func Failure(code int, message string) Status {
	return Status{Success: false, Code: code, Message: message}
}

// IsLocal reports whether the failure was produced by the client itself.
func (s Status) IsLocal() bool {
	return !s.Success && s.Code < 0
}

// Err returns nil for a successful status and a *StatusError otherwise.
func (s Status) Err() error {
	if s.Success {
		return nil
	}
	return &StatusError{Code: s.Code, Message: s.Message}
}

type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pullstring status %d: %s", e.Code, e.Message)
}
