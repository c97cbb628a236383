package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a gateway failure.
type Kind int

// Failure kinds.
const (
	KindInvalidRequest Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindClientRejected
	KindServerFailure
	KindDecodingFailed
	KindNetworkFailure
	KindUnexpectedStatus
)

// Sentinel errors matched with errors.Is against any *Error of that kind.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrClientRejected   = errors.New("client rejected")
	ErrServerFailure    = errors.New("server failure")
	ErrDecodingFailed   = errors.New("decoding failed")
	ErrNetworkFailure   = errors.New("network failure")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

var kindSentinels = map[Kind]error{
	KindInvalidRequest:   ErrInvalidRequest,
	KindUnauthorized:     ErrUnauthorized,
	KindNotFound:         ErrNotFound,
	KindClientRejected:   ErrClientRejected,
	KindServerFailure:    ErrServerFailure,
	KindDecodingFailed:   ErrDecodingFailed,
	KindNetworkFailure:   ErrNetworkFailure,
	KindUnexpectedStatus: ErrUnexpectedStatus,
}

// String returns the kind's name.
func (k Kind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by the gateway. It unwraps to the
// kind's sentinel and to the underlying cause, if any.
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string // server-supplied message, when one could be extracted
	Err        error
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
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

// Unwrap exposes the kind sentinel and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a gateway error, or 0 for other errors.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}

// StatusCode returns the HTTP status carried by a gateway error, or 0.
func StatusCode(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.StatusCode
	}
	return 0
}

// Message returns the server-supplied message of a gateway error, or "".
func Message(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	return ""
}

// IsRetryable reports whether the caller may retry the same operation
// without changing its input. Only server and network failures qualify.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindServerFailure, KindNetworkFailure:
		return true
	default:
		return false
	}
}

func invalidRequest(msg string, err error) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg, Err: err}
}

func networkFailure(err error) *Error {
	return &Error{Kind: KindNetworkFailure, Err: err}
}

func unauthorized(status int, msg string) *Error {
	return &Error{Kind: KindUnauthorized, StatusCode: status, Message: msg}
}

// classify maps a completed response to nil or a gateway error.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return unauthorized(status, extractMessage(body))
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, Message: extractMessage(body)}
	case status >= 400 && status < 500:
		return &Error{Kind: KindClientRejected, StatusCode: status, Message: extractMessage(body)}
	case status >= 500 && status < 600:
		return &Error{Kind: KindServerFailure, StatusCode: status}
	default:
		return &Error{Kind: KindUnexpectedStatus, StatusCode: status}
	}
}

// messageKeys are checked in order for a human-readable error message.
var messageKeys = []string{"detail", "error", "message"}

// extractMessage pulls a best-effort message out of an error body. It
// understands {"detail": ...}, {"error": ...}, {"message": ...},
// {"non_field_errors": [...]} and per-field validation maps.
func extractMessage(body []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}

	for _, key := range messageKeys {
		if s := firstString(obj[key]); s != "" {
			return s
		}
	}
	if s := firstString(obj["non_field_errors"]); s != "" {
		return s
	}

	// Field errors: {"amount": ["Ensure this value is positive."]}.
	fields := make([]string, 0, len(obj))
	for k := range obj {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		if s := firstString(obj[k]); s != "" {
			return k + ": " + s
		}
	}
	return ""
}

// firstString decodes raw as a string, or the first string of an array.
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
