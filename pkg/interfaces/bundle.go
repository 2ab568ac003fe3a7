package interfaces

// BundleResolver resolves bundled, read-only seed files by name. A missing
// file is reported with an error that wraps fs.ErrNotExist.
type BundleResolver interface {
	Resolve(name string) ([]byte, error)
}

// BundleGlobber is implemented by bundles that can enumerate files matching a
// pattern (path.Match syntax). Seed patterns are skipped for bundles that do
// not support it.
type BundleGlobber interface {
	Glob(pattern string) ([]string, error)
}
