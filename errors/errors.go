package errors

import (
	// Go internal packages
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// Error defines a standard application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Wrapped underlying error.
	WrappedErr error `json:"wrapped_err,omitempty"`
}

// Error returns the string representation of the error message.
func (e *Error) Error() string {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(e)
	return buf.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.WrappedErr
}

// NewError returns standard go error with given string
func NewError(e string) error {
	return errors.New(e)
}

// Kind defines the kind or class of an error.
type Kind uint8

// Transport agnostic error "kinds" for the payment flows.
const (
	Other             Kind = iota // Unclassified error
	Internal                      // Internal error
	InvalidPayload                // Missing or malformed request fields
	SignatureMismatch             // Supplied signature disagrees with the computed one
	Gateway                       // Payment gateway call failed
	Store                         // Datastore read or write failed
	NotFound                      // Entity does not exist
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal error"
	case InvalidPayload:
		return "invalid payload"
	case SignatureMismatch:
		return "signature mismatch"
	case Gateway:
		return "gateway failure"
	case Store:
		return "store failure"
	case NotFound:
		return "entity not found"
	default:
		return "unclassified error"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// HTTPStatus maps an error kind to the status returned at the request boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidPayload, SignatureMismatch:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.WrappedErr = arg
		case string:
			e.Message = arg
		}
	}
	return e
}

// KindOf returns the kind of err, or Other for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Other
}

// MessageOf returns the application message of err, falling back to Error().
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// NewInvalidPayloadError creates a new invalid payload error
func NewInvalidPayloadError(msg string) error {
	return E(InvalidPayload, msg)
}

// NewSignatureMismatchError creates a new signature mismatch error
func NewSignatureMismatchError(msg string) error {
	return E(SignatureMismatch, msg)
}

// NewGatewayError creates a new gateway failure error
func NewGatewayError(msg string, err error) error {
	return E(Gateway, msg, err)
}

// NewStoreError creates a new store failure error
func NewStoreError(msg string, err error) error {
	return E(Store, msg, err)
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(msg string) error {
	return E(Internal, msg)
}

var (
	As = errors.As
	Is = errors.Is
)
