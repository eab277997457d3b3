package analyzer

import (
	"errors"
	"strings"
)

// Messages shown to the user when the failure carries no usable detail.
const (
	GenericApplicationMessage = "Analysis failed. Please try again."
	GenericTransportMessage   = "Network error. Please check your connection and try again."
)

// Kind classifies why an analysis request failed.
type Kind int

const (
	// KindTransport: the exchange never completed (dial, DNS, timeout, reset).
	KindTransport Kind = iota
	// KindApplication: the backend answered with success=false.
	KindApplication
	// KindMalformed: the body was not valid JSON or missed required fields.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by Client for every failed request.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("analyzer ")
	b.WriteString(e.Kind.String())
	b.WriteString(" failure")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage picks the text to show for err. Application failures use the
// backend's message when it has one; malformed responses are reported like
// transport failures since there is nothing more specific to say.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var aerr *Error
	if !errors.As(err, &aerr) {
		return GenericTransportMessage
	}
	switch aerr.Kind {
	case KindApplication:
		if msg := strings.TrimSpace(aerr.Message); msg != "" {
			return msg
		}
		return GenericApplicationMessage
	default:
		return GenericTransportMessage
	}
}

// FileError explains why a selected file cannot be uploaded.
type FileError struct {
	Path   string
	Reason string
}

func (e *FileError) Error() string {
	return e.Reason
}
