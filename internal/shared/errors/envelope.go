// Package errors provides the JSON error envelope returned by the API.
// Every failure response carries at least a message field; extras add
// error-specific properties such as invalid_ids.
package errors

import "net/http"

// Envelope is an error that knows its HTTP status and response body.
type Envelope struct {
	// Status is the HTTP status code for this occurrence.
	Status int
	// Message is the human-readable summary placed in the message field.
	Message string
	// Extras holds additional properties merged into the response body.
	Extras map[string]any
}

// Error implements the error interface.
func (e Envelope) Error() string {
	return e.Message
}

// WithExtra returns a copy with an additional body property.
func (e Envelope) WithExtra(key string, value any) Envelope {
	extras := make(map[string]any, len(e.Extras)+1)
	for k, v := range e.Extras {
		extras[k] = v
	}
	extras[key] = value
	e.Extras = extras
	return e
}

// Body flattens the message and extras into the response payload.
func (e Envelope) Body() map[string]any {
	body := make(map[string]any, len(e.Extras)+1)
	for k, v := range e.Extras {
		body[k] = v
	}
	body["message"] = e.Message
	return body
}

// New builds an envelope with the given status and message.
func New(status int, message string) Envelope {
	return Envelope{Status: status, Message: message}
}

// BadRequest builds a 400 envelope.
func BadRequest(message string) Envelope {
	return New(http.StatusBadRequest, message)
}

// NotFound builds a 404 envelope.
func NotFound(message string) Envelope {
	return New(http.StatusNotFound, message)
}

// Internal builds a 500 envelope carrying the underlying message.
func Internal(message string) Envelope {
	return New(http.StatusInternalServerError, message)
}
