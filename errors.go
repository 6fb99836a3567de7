package bigml

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrorKind is the closed enumeration of BigML error categories. Retry
// behavior is decided from the kind alone, never from error message text.
type ErrorKind int

const (
	// ErrKindOther wraps errors that fit no other category.
	ErrKindOther ErrorKind = iota

	// ErrKindCouldNotAccessURL means a network request could not be
	// completed. The URL in the error has its api_key redacted.
	ErrKindCouldNotAccessURL

	// ErrKindPaymentRequired means BigML reported that payment is required,
	// usually because all plan slots are in use.
	ErrKindPaymentRequired

	// ErrKindUnexpectedHTTPStatus means BigML returned an HTTP status we
	// did not expect.
	ErrKindUnexpectedHTTPStatus

	// ErrKindWaitFailed means the resource we were polling reported an
	// error status of its own.
	ErrKindWaitFailed

	// ErrKindMissingCredentials means a required credential was not
	// configured.
	ErrKindMissingCredentials

	// ErrKindWrongResourceType means an argument payload was used to create
	// a different resource type than it belongs to.
	ErrKindWrongResourceType
)

// Error is a BigML-related error.
type Error struct {
	// Kind categorizes this error for retry decisions.
	Kind ErrorKind

	// URL is the request URL, already redacted, for network errors.
	URL string

	// StatusCode is the HTTP status, for ErrKindUnexpectedHTTPStatus.
	StatusCode int

	// Body is the response body, for HTTP-level errors.
	Body string

	// ResourceID is the resource being waited on, for ErrKindWaitFailed.
	ResourceID string

	// Message carries kind-specific detail: the remote status message for
	// ErrKindWaitFailed, the credential name for ErrKindMissingCredentials.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindCouldNotAccessURL:
		return fmt.Sprintf("error accessing '%s': %v", e.URL, e.Err)
	case ErrKindPaymentRequired:
		return fmt.Sprintf("BigML payment required for %s (%s)", e.URL, e.Body)
	case ErrKindUnexpectedHTTPStatus:
		return fmt.Sprintf("%d %s for %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL, e.Body)
	case ErrKindWaitFailed:
		return fmt.Sprintf("https://bigml.com/dashboard/%s failed (%s)", e.ResourceID, e.Message)
	case ErrKindMissingCredentials:
		return fmt.Sprintf("must specify %s", e.Message)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsTemporary reports whether err looks like a plausibly-transient BigML
// condition worth retrying: quota/payment-required responses (backing off
// may free up slots) and 5xx-class statuses that tend to accompany outages.
//
// A wait-failed error is deliberately never temporary: retrying a failed
// remote job wastes quota without any possibility of success; only a fresh
// create can recover.
func IsTemporary(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case ErrKindPaymentRequired:
		return true
	case ErrKindUnexpectedHTTPStatus:
		switch e.StatusCode {
		case http.StatusInternalServerError,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	case ErrKindCouldNotAccessURL:
		// A wrapped BigML error keeps its own classification; a raw
		// transport failure (connection refused, EOF) is worth retrying.
		var inner *Error
		if errors.As(e.Err, &inner) {
			return IsTemporary(inner)
		}
		return true
	default:
		return false
	}
}

// redactURL returns a copy of u with any api_key query value replaced by
// "*****", leaving every other parameter untouched. All error paths that
// echo a request URL must go through this.
func redactURL(u *url.URL) *url.URL {
	c := *u
	if c.RawQuery == "" {
		return &c
	}
	pairs := strings.Split(c.RawQuery, "&")
	for i, pair := range pairs {
		if key, _, ok := strings.Cut(pair, "="); ok && key == "api_key" {
			pairs[i] = "api_key=*****"
		}
	}
	c.RawQuery = strings.Join(pairs, "&")
	return &c
}

func errCouldNotAccessURL(u *url.URL, cause error) *Error {
	return &Error{
		Kind: ErrKindCouldNotAccessURL,
		URL:  redactURL(u).String(),
		Err:  cause,
	}
}

func errPaymentRequired(u *url.URL, body string) *Error {
	return &Error{
		Kind: ErrKindPaymentRequired,
		URL:  redactURL(u).String(),
		Body: body,
	}
}

func errUnexpectedHTTPStatus(u *url.URL, status int, body string) *Error {
	return &Error{
		Kind:       ErrKindUnexpectedHTTPStatus,
		URL:        redactURL(u).String(),
		StatusCode: status,
		Body:       body,
	}
}

func errWaitFailed(resourceID, message string) *Error {
	return &Error{
		Kind:       ErrKindWaitFailed,
		ResourceID: resourceID,
		Message:    message,
	}
}

func errMissingCredentials(name string) *Error {
	return &Error{Kind: ErrKindMissingCredentials, Message: name}
}
