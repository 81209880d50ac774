// Package errors provides structured error types for pdfqa.
// Each error records the operation that failed and a Kind that callers use to
// decide between rollback, logout and a plain user-visible message.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.Function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindValidation
	KindUnauthorized
	KindTransport
	KindStale
	KindConfig
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindValidation:
		return "validation failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport error"
	case KindStale:
		return "stale response"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error from any mix of Op, Kind, string (context) and error.
// With no underlying error the context string becomes the error text.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether any error in err's chain is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// GetKind returns the Kind of the outermost *Error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ConversationNotFound is returned by store lookups.
func ConversationNotFound(op Op, id string) error {
	return E(op, KindNotFound, fmt.Sprintf("conversation %s not found", id))
}

// MessageNotFound is returned when a pending message id is absent.
func MessageNotFound(op Op, conversationID, messageID string) error {
	return E(op, KindNotFound, fmt.Sprintf("message %s not found in conversation %s", messageID, conversationID))
}

// Validation is a user-facing rejection raised before any network call.
func Validation(op Op, reason string) error {
	return E(op, KindValidation, reason)
}

// Unauthorized marks an auth failure from the backend.
func Unauthorized(op Op) error {
	return E(op, KindUnauthorized, "session expired or credentials rejected")
}

// Transport wraps a network or non-auth HTTP failure.
func Transport(op Op, context string, err error) error {
	return E(op, KindTransport, context, err)
}

// ConfigLoadFailed wraps a config read error.
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

// ConfigSaveFailed wraps a config write error.
func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

// ConfigInvalid reports an inconsistent configuration.
func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
