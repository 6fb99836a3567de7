package resource

// Dataset is a structured view of a source, ready for modeling.
type Dataset struct {
	// Resource is the ID of this dataset.
	Resource ID[Dataset] `json:"resource"`

	// Name is a human-readable name for the dataset.
	Name string `json:"name,omitempty"`

	// Status is the current status of this dataset.
	Status GenericStatus `json:"status"`

	// Source is the source this dataset was built from, if any.
	Source string `json:"source,omitempty"`

	// Rows is the number of rows in the dataset.
	Rows int64 `json:"rows,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (Dataset) ResourceKind() Kind              { return KindDataset }
func (d Dataset) ResourceID() string            { return string(d.Resource) }
func (d Dataset) ResourceStatus() GenericStatus { return d.Status }

// DatasetArgs are the arguments for creating a dataset from a source.
type DatasetArgs struct {
	// Source is the ID of the source to build the dataset from.
	Source ID[Source] `json:"source"`

	// Name is a nice name for the dataset.
	Name string `json:"name,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (*DatasetArgs) ArgsKind() Kind { return KindDataset }
