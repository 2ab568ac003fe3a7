package logging

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Reporter logs recoverable load errors. Categorised go-errors values are
// logged with their text code, severity and metadata.
type Reporter struct {
	logger interfaces.Logger
}

var _ interfaces.ErrorReporter = (*Reporter)(nil)

// NewReporter returns a reporter writing to logger, or a no-op logger when nil.
func NewReporter(logger interfaces.Logger) *Reporter {
	if logger == nil {
		logger = NoOp()
	}
	return &Reporter{logger: logger}
}

func (r *Reporter) Report(ctx context.Context, err error) {
	if r == nil || err == nil {
		return
	}
	logger := r.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}

	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed == nil {
		logger.Warn("catalog.load.error", "error", err)
		return
	}

	args := []any{"error", err, "code", typed.TextCode, "category", typed.Category}
	for key, value := range typed.Metadata {
		args = append(args, key, value)
	}
	switch typed.Severity {
	case goerrors.SeverityDebug, goerrors.SeverityInfo:
		logger.Debug("catalog.load.error", args...)
	case goerrors.SeverityError, goerrors.SeverityCritical, goerrors.SeverityFatal:
		logger.Error("catalog.load.error", args...)
	default:
		logger.Warn("catalog.load.error", args...)
	}
}
