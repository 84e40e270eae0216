package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindUpstream means the server answered with a non-200 status.
	KindUpstream Kind = iota + 1
	// KindNetwork means the request never produced a response.
	KindNetwork
	// KindTimeout means the per-request deadline expired.
	KindTimeout
	// KindDecode means the body arrived but could not be parsed.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindUpstream:
		return "upstream"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the failure half of every fetch. Message is user-facing and is
// rendered verbatim into the gallery.
type Error struct {
	Kind    Kind
	Status  int // HTTP status for KindUpstream, zero otherwise
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Messages holds the user-facing wording for one kind of resource.
type Messages struct {
	Status  string // formatted with the status code (%d)
	Network string // formatted with the transport error text (%s)
	Timeout string
	Decode  string // formatted with the decoder error text (%s)
}

// StatusError builds a KindUpstream error for the given status code.
func (m Messages) StatusError(status int) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  status,
		Message: fmt.Sprintf(m.Status, status),
	}
}

// DecodeError builds a KindDecode error wrapping err.
func (m Messages) DecodeError(err error) *Error {
	msg := m.Decode
	if msg == "" {
		msg = "%s"
	}
	return &Error{Kind: KindDecode, Message: fmt.Sprintf(msg, err.Error()), Err: err}
}

// transportError classifies an error returned while sending a request or
// reading its body.
func (m Messages) transportError(err error) *Error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Message: m.Timeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf(m.Network, err.Error()), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
