// Package resource defines typed wrappers for the BigML REST API's resource
// payloads: identifiers, status codes, and the handful of resource types the
// client works with.
package resource

// Kind identifies a BigML resource type. Its string form is the prefix used
// in resource identifiers ("execution/624d9...") and in API paths.
type Kind string

const (
	KindSource    Kind = "source"
	KindDataset   Kind = "dataset"
	KindScript    Kind = "script"
	KindExecution Kind = "execution"
)

// Prefix returns the identifier prefix for this kind, including the slash.
func (k Kind) Prefix() string { return string(k) + "/" }

// CreatePath returns the API path used to create resources of this kind.
func (k Kind) CreatePath() string { return "/" + string(k) }

// Resource is the minimal capability the client and the polling layer need
// from any BigML resource: its kind, a stable identifier, and a status.
type Resource interface {
	ResourceKind() Kind
	ResourceID() string
	ResourceStatus() GenericStatus
}

// Args is implemented by the argument payload used to create a resource.
// ArgsKind names the kind of resource the payload creates, which lets the
// client catch a payload passed for the wrong resource type.
type Args interface {
	ArgsKind() Kind
}
