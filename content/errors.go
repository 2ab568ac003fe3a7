package content

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrUnknownKind       = errors.New("content: unknown kind")
	ErrSourceUnavailable = errors.New("content: source unavailable")
	ErrSourceEmpty       = errors.New("content: source returned no items")
	ErrFileMissing       = errors.New("content: bundled file missing")
	ErrDecodeFailed      = errors.New("content: decode failed")
	ErrCacheWriteFailed  = errors.New("content: cache write failed")
)

// ErrorCode classifies recoverable load failures. None of them aborts a load
// cycle; they are surfaced to the error reporter.
type ErrorCode string

const (
	CodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	CodeSourceEmpty       ErrorCode = "SOURCE_EMPTY"
	CodeFileMissing       ErrorCode = "FILE_MISSING"
	CodeDecodeFailed      ErrorCode = "DECODE_FAILED"
	CodeCacheWriteFailed  ErrorCode = "CACHE_WRITE_FAILED"
)

type codeDef struct {
	sentinel error
	category goerrors.Category
	severity goerrors.Severity
	message  string
}

var codeDefs = map[ErrorCode]codeDef{
	CodeSourceUnavailable: {ErrSourceUnavailable, goerrors.CategoryExternal, goerrors.SeverityWarning, "remote source unavailable"},
	CodeSourceEmpty:       {ErrSourceEmpty, goerrors.CategoryNotFound, goerrors.SeverityInfo, "source returned no items"},
	CodeFileMissing:       {ErrFileMissing, goerrors.CategoryNotFound, goerrors.SeverityDebug, "bundled file missing"},
	CodeDecodeFailed:      {ErrDecodeFailed, goerrors.CategoryBadInput, goerrors.SeverityWarning, "payload could not be decoded"},
	CodeCacheWriteFailed:  {ErrCacheWriteFailed, goerrors.CategoryInternal, goerrors.SeverityError, "cache write failed"},
}

// NewLoadError builds a categorised error for code. The result satisfies
// errors.Is for both the code sentinel and cause.
func NewLoadError(code ErrorCode, kind Kind, source string, cause error) *goerrors.Error {
	def, ok := codeDefs[code]
	if !ok {
		def = codeDef{sentinel: ErrSourceUnavailable, category: goerrors.CategoryInternal, severity: goerrors.SeverityError, message: "load failed"}
	}
	err := goerrors.New(fmt.Sprintf("%s: %s", kind, def.message), def.category).
		WithTextCode(string(code)).
		WithSeverity(def.severity).
		WithMetadata(map[string]any{
			"kind":   string(kind),
			"source": source,
		})
	if cause != nil {
		err.Source = fmt.Errorf("%w: %w", def.sentinel, cause)
	} else {
		err.Source = def.sentinel
	}
	return err
}

// ErrorCodeOf extracts the load error code from err, or "" when err is not a
// load error.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var typed *goerrors.Error
	if goerrors.As(err, &typed) && typed != nil {
		if _, ok := codeDefs[ErrorCode(typed.TextCode)]; ok {
			return ErrorCode(typed.TextCode)
		}
	}
	for code, def := range codeDefs {
		if errors.Is(err, def.sentinel) {
			return code
		}
	}
	return ""
}
