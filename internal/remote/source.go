package remote

import (
	"context"

	"github.com/goliatone/go-catalog/content"
)

// SourceFunc adapts a function to content.RemoteSource.
type SourceFunc = content.RemoteSourceFunc

// Static serves fixed collections per kind, ignoring language and token.
// Hosts use it to pin remote content in tests and offline builds.
func Static(collections map[content.Kind]content.Collection) content.RemoteSource {
	return SourceFunc(func(ctx context.Context, req content.FetchRequest) content.LoadResult {
		if err := ctx.Err(); err != nil {
			return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, "static", err))
		}
		return content.Populated(collections[req.Kind].Clone())
	})
}
