package gateway

import (
	"errors"
	"fmt"
)

// TransportError means no response was received: connection refused, DNS,
// timeout, cancelled context.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport error: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejection means the backend answered but refused: a non-2xx status, or a
// 2xx envelope carrying success=false. Body is the decoded JSON when the response
// was JSON, otherwise the raw text.
type ServerRejection struct {
	Status  int
	Body    any
	Message string
}

func (e *ServerRejection) Error() string {
	msg := e.Message
	if msg == "" {
		msg = bodyMessage(e.Body)
	}
	if msg == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.Status, msg)
}

// IsTransport reports whether err is or wraps a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejection reports whether err is or wraps a ServerRejection
func IsRejection(err error) bool {
	var sr *ServerRejection
	return errors.As(err, &sr)
}

// bodyMessage pulls a human message out of the usual error envelopes
func bodyMessage(body any) string {
	switch b := body.(type) {
	case string:
		return b
	case map[string]any:
		for _, key := range []string{"message", "error", "mensagem"} {
			if s, ok := b[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
