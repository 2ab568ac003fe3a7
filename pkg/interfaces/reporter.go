package interfaces

import "context"

// ErrorReporter receives recoverable load errors for observability. Reports
// never block or abort the load pipeline; implementations must return quickly.
type ErrorReporter interface {
	Report(ctx context.Context, err error)
}

// ErrorReporterFunc adapts a function to ErrorReporter.
type ErrorReporterFunc func(ctx context.Context, err error)

func (fn ErrorReporterFunc) Report(ctx context.Context, err error) {
	if fn != nil {
		fn(ctx, err)
	}
}
