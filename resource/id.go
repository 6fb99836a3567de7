package resource

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a strongly-typed resource identifier, such as
// "execution/624d9f4f2f1f8a0a5b000001". The type parameter pins the
// identifier to one resource kind, so an execution ID cannot be passed where
// a script ID is expected.
type ID[R Resource] string

// WrongKindError is returned when an identifier does not carry the prefix of
// the expected resource kind.
type WrongKindError struct {
	Expected string
	Found    string
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("expected BigML resource ID starting with %q, found %q", e.Expected, e.Found)
}

// NewID validates s against R's identifier prefix.
func NewID[R Resource](s string) (ID[R], error) {
	var r R
	prefix := r.ResourceKind().Prefix()
	if !strings.HasPrefix(s, prefix) {
		return "", &WrongKindError{Expected: prefix, Found: s}
	}
	return ID[R](s), nil
}

func (id ID[R]) String() string { return string(id) }

// Kind returns the resource kind the identifier belongs to.
func (id ID[R]) Kind() Kind {
	var r R
	return r.ResourceKind()
}

// DashboardURL returns the BigML dashboard page for this resource, handy in
// error messages and logs.
func (id ID[R]) DashboardURL() string {
	return "https://bigml.com/dashboard/" + string(id)
}

func (id *ID[R]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewID[R](s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
