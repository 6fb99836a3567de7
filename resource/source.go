package resource

// Source is a data source uploaded to BigML.
type Source struct {
	// Resource is the ID of this source.
	Resource ID[Source] `json:"resource"`

	// Name is a human-readable name for the source.
	Name string `json:"name,omitempty"`

	// Status is the current status of this source.
	Status GenericStatus `json:"status"`

	// FileName is the name of the uploaded file, if any.
	FileName string `json:"file_name,omitempty"`

	// MD5 is a hash of the uploaded data.
	MD5 string `json:"md5,omitempty"`

	// Size is the number of bytes of the source.
	Size int64 `json:"size,omitempty"`

	// DisableDatetime controls BigML's automatic date expansion.
	DisableDatetime *bool `json:"disable_datetime,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (Source) ResourceKind() Kind              { return KindSource }
func (s Source) ResourceID() string            { return string(s.Resource) }
func (s Source) ResourceStatus() GenericStatus { return s.Status }

// SourceArgs are the arguments for creating a data source from inline data
// or a remote URL. File uploads go through Client.CreateSourceFromFile
// instead.
type SourceArgs struct {
	// Remote is the URL of the data, if pulling from a remote source.
	Remote string `json:"remote,omitempty"`

	// Data is raw inline data to use.
	Data string `json:"data,omitempty"`

	// DisableDatetime disables date expansion into year, day of week, etc.
	DisableDatetime *bool `json:"disable_datetime,omitempty"`

	// Name is a nice name for the source.
	Name string `json:"name,omitempty"`

	// Tags are user-defined tags.
	Tags []string `json:"tags,omitempty"`
}

func (*SourceArgs) ArgsKind() Kind { return KindSource }

// SourceData returns arguments that create a source from a small amount of
// inline data.
func SourceData(data string) *SourceArgs {
	return &SourceArgs{Data: data}
}

// SourceRemote returns arguments that create a source from a remote URL.
func SourceRemote(url string) *SourceArgs {
	return &SourceArgs{Remote: url}
}
