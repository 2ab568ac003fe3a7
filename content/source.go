package content

import "context"

// LoadStatus is the outcome of one load attempt against a single source.
type LoadStatus int

const (
	LoadEmpty LoadStatus = iota
	LoadPopulated
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadPopulated:
		return "populated"
	case LoadFailed:
		return "failed"
	default:
		return "empty"
	}
}

// LoadResult is what a source hands back. Populated results always carry at
// least one item; Failed results carry the error.
type LoadResult struct {
	Status LoadStatus
	Items  Collection
	Err    error
}

// Populated wraps items; an empty collection yields an Empty result.
func Populated(items Collection) LoadResult {
	if len(items) == 0 {
		return Empty()
	}
	return LoadResult{Status: LoadPopulated, Items: items}
}

func Empty() LoadResult { return LoadResult{Status: LoadEmpty} }

func Failed(err error) LoadResult { return LoadResult{Status: LoadFailed, Err: err} }

// Normalized folds a populated-but-empty result into Empty.
func (r LoadResult) Normalized() LoadResult {
	if r.Status == LoadPopulated && len(r.Items) == 0 {
		return Empty()
	}
	return r
}

// FetchRequest describes a single remote fetch.
type FetchRequest struct {
	Kind     Kind
	Language string
	Token    string
}

// RemoteSource fetches a collection from a backend. Implementations must
// honour ctx and report transport or parse problems as Failed, never panic.
type RemoteSource interface {
	Fetch(ctx context.Context, req FetchRequest) LoadResult
}

// RemoteSourceFunc adapts a function to RemoteSource.
type RemoteSourceFunc func(ctx context.Context, req FetchRequest) LoadResult

func (fn RemoteSourceFunc) Fetch(ctx context.Context, req FetchRequest) LoadResult {
	if fn == nil {
		return Empty()
	}
	return fn(ctx, req)
}
