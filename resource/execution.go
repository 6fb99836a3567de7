package resource

import (
	"encoding/json"
	"fmt"
)

// Execution is a run of a WhizzML script.
type Execution struct {
	// Resource is the ID of this execution.
	Resource ID[Execution] `json:"resource"`

	// Name is a human-readable name for the execution.
	Name string `json:"name,omitempty"`

	// Created is the creation timestamp reported by BigML.
	Created string `json:"created,omitempty"`

	// Status is the current status of this execution.
	Status GenericStatus `json:"status"`

	// Execution holds the script's outputs and results.
	Execution ExecutionData `json:"execution"`

	// Tags are the user-defined tags on this execution.
	Tags []string `json:"tags,omitempty"`
}

func (Execution) ResourceKind() Kind              { return KindExecution }
func (e Execution) ResourceID() string            { return string(e.Resource) }
func (e Execution) ResourceStatus() GenericStatus { return e.Status }

// ExecutionData holds the result values produced by a script execution.
type ExecutionData struct {
	// Outputs are the named values output by the script.
	Outputs []Output `json:"outputs,omitempty"`

	// Result holds the script's result values.
	Result []json.RawMessage `json:"result,omitempty"`
}

// Output looks up the named output, if it has been computed.
func (d ExecutionData) Output(name string) (json.RawMessage, bool) {
	for _, out := range d.Outputs {
		if out.Name == name && out.Value != nil {
			return out.Value, true
		}
	}
	return nil, false
}

// Output is a named output value from an execution. On the wire BigML
// serializes it either as a bare name (before the value is computed) or as a
// [name, value, type] array.
type Output struct {
	// Name of this output.
	Name string

	// Value of this output, or nil if it has not yet been computed.
	Value json.RawMessage

	// Type of this output, or empty if unknown.
	Type string
}

func (o Output) MarshalJSON() ([]byte, error) {
	if o.Value == nil && o.Type == "" {
		return json.Marshal(o.Name)
	}
	return json.Marshal([3]any{o.Name, o.Value, o.Type})
}

func (o *Output) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*o = Output{Name: name}
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("execution output must be a string or a [name, value, type] array: %w", err)
	}
	if len(parts) < 1 {
		return fmt.Errorf("execution output array is empty")
	}
	out := Output{}
	if err := json.Unmarshal(parts[0], &out.Name); err != nil {
		return fmt.Errorf("execution output name: %w", err)
	}
	if len(parts) > 1 {
		out.Value = parts[1]
	}
	if len(parts) > 2 {
		if err := json.Unmarshal(parts[2], &out.Type); err != nil {
			return fmt.Errorf("execution output type: %w", err)
		}
	}
	*o = out
	return nil
}

// ExecutionArgs are the arguments for creating a script execution.
type ExecutionArgs struct {
	// Script is the ID of the script to run.
	Script ID[Script] `json:"script,omitempty"`

	// Name is a nice name for the execution.
	Name string `json:"name,omitempty"`

	// Inputs to the script, as [name, value] pairs.
	Inputs []ExecutionInput `json:"inputs,omitempty"`

	// Outputs to place into the result of the execution.
	Outputs []string `json:"outputs,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (*ExecutionArgs) ArgsKind() Kind { return KindExecution }

// NewExecutionArgs returns arguments that run the given script.
func NewExecutionArgs(script ID[Script]) *ExecutionArgs {
	return &ExecutionArgs{Script: script}
}

// AddInput adds a named input. value may be any JSON-marshalable Go value.
// WhizzML cannot take null inputs, so a nil value is silently skipped: the
// input is simply not passed.
func (a *ExecutionArgs) AddInput(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode input %q: %w", name, err)
	}
	if string(raw) == "null" {
		return nil
	}
	a.Inputs = append(a.Inputs, ExecutionInput{Name: name, Value: raw})
	return nil
}

// AddOutput adds a named output parameter to place into the result.
func (a *ExecutionArgs) AddOutput(name string) {
	a.Outputs = append(a.Outputs, name)
}

// ExecutionInput is one named script input, serialized as a [name, value]
// array.
type ExecutionInput struct {
	Name  string
	Value json.RawMessage
}

func (in ExecutionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{in.Name, in.Value})
}

func (in *ExecutionInput) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("execution input must be a [name, value] array: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("execution input must have exactly a name and a value, got %d elements", len(parts))
	}
	parsed := ExecutionInput{Value: parts[1]}
	if err := json.Unmarshal(parts[0], &parsed.Name); err != nil {
		return fmt.Errorf("execution input name: %w", err)
	}
	*in = parsed
	return nil
}
