package resource

import (
	"encoding/json"
	"fmt"
)

// Code is a BigML status code, as found in the "status" object of every
// resource payload.
type Code int

const (
	// CodeWaiting means BigML is waiting on another resource before
	// processing this one.
	CodeWaiting Code = 0
	// CodeQueued means the processing job has been added to the queue.
	CodeQueued Code = 1
	// CodeStarted means actual processing has started.
	CodeStarted Code = 2
	// CodeInProgress means part of the job has been performed.
	CodeInProgress Code = 3
	// CodeSummarized means summary statistics for a dataset are available.
	CodeSummarized Code = 4
	// CodeFinished means the resource is ready.
	CodeFinished Code = 5
	// CodeFaulty means something went wrong processing the task.
	CodeFaulty Code = -1
	// CodeUnknown means something has gone wrong in BigML, perhaps an outage.
	CodeUnknown Code = -2
)

// IsWorking reports whether BigML is still ingesting or processing the
// resource. The various in-flight sub-states all collapse to "keep polling".
func (c Code) IsWorking() bool {
	switch c {
	case CodeWaiting, CodeQueued, CodeStarted, CodeInProgress, CodeSummarized:
		return true
	default:
		return false
	}
}

// IsReady reports whether BigML has successfully finished processing the
// resource.
func (c Code) IsReady() bool { return c == CodeFinished }

// IsErr reports whether something went wrong while processing the resource.
func (c Code) IsErr() bool { return c == CodeFaulty || c == CodeUnknown }

func (c *Code) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n < -2 || n > 5 {
		return fmt.Errorf("invalid BigML status code %d: expected a number between -2 and 5", n)
	}
	*c = Code(n)
	return nil
}

// GenericStatus is the status object shared, in essence, by all BigML
// resource types.
type GenericStatus struct {
	// Code is the current status code.
	Code Code `json:"code"`

	// Message is a human-readable status message.
	Message string `json:"message"`

	// Elapsed is the number of milliseconds spent creating this resource,
	// if known.
	Elapsed *int64 `json:"elapsed,omitempty"`

	// Progress is a number between 0.0 and 1.0 representing creation
	// progress, if known.
	Progress *float64 `json:"progress,omitempty"`
}
