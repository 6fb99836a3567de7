package wait

// Kind identifies which variant a Status holds.
type Kind int

const (
	// KindFinished means the task has finished.
	KindFinished Kind = iota
	// KindWaiting means the task hasn't finished yet, so wait a while and
	// try again.
	KindWaiting
	// KindFailedTemporarily means the task has failed, but the failure is
	// believed to be temporary.
	KindFailedTemporarily
	// KindFailedPermanently means the task has failed, and we don't believe
	// that it will ever succeed.
	KindFailedPermanently
)

func (k Kind) String() string {
	switch k {
	case KindFinished:
		return "finished"
	case KindWaiting:
		return "waiting"
	case KindFailedTemporarily:
		return "failed_temporarily"
	case KindFailedPermanently:
		return "failed_permanently"
	default:
		return "invalid"
	}
}

// Status is the outcome of a single probe invocation. It is a closed variant
// type: values are built only through Finished, Waiting, FailedTemporarily,
// FailedPermanently or Classify.
type Status[T any] struct {
	kind  Kind
	value T
	err   error
}

// Finished reports terminal success with value v.
func Finished[T any](v T) Status[T] {
	return Status[T]{kind: KindFinished, value: v}
}

// Waiting reports that the task is not ready yet and should be probed again.
func Waiting[T any]() Status[T] {
	return Status[T]{kind: KindWaiting}
}

// FailedTemporarily reports a failure that is a candidate for retry, subject
// to the wait's error budget.
func FailedTemporarily[T any](err error) Status[T] {
	return Status[T]{kind: KindFailedTemporarily, err: err}
}

// FailedPermanently reports a terminal failure. It bypasses the error budget.
func FailedPermanently[T any](err error) Status[T] {
	return Status[T]{kind: KindFailedPermanently, err: err}
}

// Classify converts err into a temporary or permanent failure, depending on
// whether temporary judges it plausibly transient. A nil temporary predicate
// classifies everything as permanent.
//
// This is the single seam through which an error taxonomy reaches the wait
// engine; the engine itself never inspects errors.
func Classify[T any](err error, temporary func(error) bool) Status[T] {
	if temporary != nil && temporary(err) {
		return FailedTemporarily[T](err)
	}
	return FailedPermanently[T](err)
}

// Kind returns which variant s holds.
func (s Status[T]) Kind() Kind { return s.kind }

// Value returns the success value. It is only meaningful when Kind is
// KindFinished.
func (s Status[T]) Value() T { return s.value }

// Err returns the failure, or nil for Finished and Waiting.
func (s Status[T]) Err() error { return s.err }
