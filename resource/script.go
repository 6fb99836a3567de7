package resource

// Script is a WhizzML script stored on BigML.
type Script struct {
	// Resource is the ID of this script.
	Resource ID[Script] `json:"resource"`

	// Name is a human-readable name for the script.
	Name string `json:"name,omitempty"`

	// Status is the current status of this script.
	Status GenericStatus `json:"status"`

	// SourceCode is the WhizzML source of the script.
	SourceCode string `json:"source_code,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (Script) ResourceKind() Kind              { return KindScript }
func (s Script) ResourceID() string            { return string(s.Resource) }
func (s Script) ResourceStatus() GenericStatus { return s.Status }

// ScriptParam declares a named input or output of a script.
type ScriptParam struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// ScriptArgs are the arguments for creating a WhizzML script.
type ScriptArgs struct {
	// SourceCode is the WhizzML source of the script.
	SourceCode string `json:"source_code"`

	// Name is a nice name for the script.
	Name string `json:"name,omitempty"`

	// Inputs declares the script's input parameters.
	Inputs []ScriptParam `json:"inputs,omitempty"`

	// Outputs declares the script's output parameters.
	Outputs []ScriptParam `json:"outputs,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (*ScriptArgs) ArgsKind() Kind { return KindScript }
