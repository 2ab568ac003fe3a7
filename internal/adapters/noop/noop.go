package noop

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Remote returns a remote source that never has content.
func Remote() content.RemoteSource {
	return remoteAdapter{}
}

type remoteAdapter struct{}

func (remoteAdapter) Fetch(context.Context, content.FetchRequest) content.LoadResult {
	return content.Empty()
}

// Credentials returns a provider with no stored credential.
func Credentials() interfaces.CredentialProvider {
	return credentialAdapter{}
}

type credentialAdapter struct{}

func (credentialAdapter) Credential(context.Context) (string, bool) {
	return "", false
}

// Reporter returns an error reporter that discards reports.
func Reporter() interfaces.ErrorReporter {
	return reporterAdapter{}
}

type reporterAdapter struct{}

func (reporterAdapter) Report(context.Context, error) {}

// Bundle returns a bundle in which every file is missing.
func Bundle() interfaces.BundleResolver {
	return bundleAdapter{}
}

type bundleAdapter struct{}

func (bundleAdapter) Resolve(name string) ([]byte, error) {
	return nil, &missingFile{name: name}
}

type missingFile struct{ name string }

func (e *missingFile) Error() string { return "noop bundle: " + e.name + ": file does not exist" }

func (e *missingFile) Unwrap() error { return fs.ErrNotExist }

// Renderer returns a markdown renderer that echoes its input.
func Renderer() interfaces.MarkdownRenderer {
	return rendererAdapter{}
}

type rendererAdapter struct{}

func (rendererAdapter) Render(markdown []byte) ([]byte, error) {
	out := make([]byte, len(markdown))
	copy(out, markdown)
	return out, nil
}
