package driver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Input is a named WhizzML input value supplied on the command line.
type Input struct {
	Name  string
	Value json.RawMessage
}

// ParseInput parses a "name=value" pair. The value is taken as JSON when
// it parses as JSON, and as a plain string otherwise, so both
// "n=3" and "label=hello world" do what you'd expect.
func ParseInput(s string) (Input, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return Input{}, fmt.Errorf("input %q must have the form name=value", s)
	}
	if json.Valid([]byte(value)) {
		return Input{Name: name, Value: json.RawMessage(value)}, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return Input{}, fmt.Errorf("cannot encode input %q: %w", s, err)
	}
	return Input{Name: name, Value: raw}, nil
}
