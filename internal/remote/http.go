// Package remote fetches catalog collections from the content backend.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	// DefaultTimeout bounds a single fetch when the caller sets no deadline.
	DefaultTimeout = 15 * time.Second
	// DefaultLimit is the page size requested for guides, templates and checklists.
	DefaultLimit = 1000
	// DefaultNewsLimit is the page size requested for news.
	DefaultNewsLimit = 50

	apiPrefix    = "/api/v1/"
	maxBodyBytes = 16 << 20
)

// ErrBaseURLRequired is returned by NewHTTPSource when no backend URL is set.
var ErrBaseURLRequired = errors.New("remote: base URL is required")

// Doer is the subset of *http.Client used by HTTPSource.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client Doer) Option {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLimits sets the requested page sizes.
func WithLimits(limit, newsLimit int) Option {
	return func(s *HTTPSource) {
		if limit > 0 {
			s.limit = limit
		}
		if newsLimit > 0 {
			s.newsLimit = newsLimit
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *HTTPSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// HTTPSource implements content.RemoteSource against the backend REST API.
type HTTPSource struct {
	base      *url.URL
	client    Doer
	timeout   time.Duration
	limit     int
	newsLimit int
	logger    interfaces.Logger
}

var _ content.RemoteSource = (*HTTPSource)(nil)

var endpoints = map[content.Kind]string{
	content.KindGuide:     "guides",
	content.KindTemplate:  "templates",
	content.KindChecklist: "checklists",
	content.KindNews:      "news",
}

// NewHTTPSource builds a source for the backend at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) (*HTTPSource, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, ErrBaseURLRequired
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote: base URL %q must be absolute", baseURL)
	}
	source := &HTTPSource{
		base:      base,
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		limit:     DefaultLimit,
		newsLimit: DefaultNewsLimit,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(source)
		}
	}
	return source, nil
}

// Supports reports whether the backend exposes an endpoint for kind.
func (s *HTTPSource) Supports(kind content.Kind) bool {
	_, ok := endpoints[kind]
	return ok
}

// Fetch requests the collection of req.Kind. Kinds without an endpoint are
// Empty; 204 and 404 are Empty; other failures are Failed.
func (s *HTTPSource) Fetch(ctx context.Context, req content.FetchRequest) (result content.LoadResult) {
	defer func() {
		if r := recover(); r != nil {
			result = content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, "remote", fmt.Errorf("panic: %v", r)))
		}
	}()

	if _, ok := endpoints[req.Kind]; !ok {
		return content.Empty()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.WithLoadContext(s.logger, string(req.Kind), req.Language, "remote")
	endpoint := s.endpoint(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, endpoint, err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		logger.Warn("remote.fetch.failed", "error", err)
		return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, endpoint, err))
	}
	defer resp.Body.Close()

	logger.Debug("remote.fetch.response", "status", resp.StatusCode, "duration", time.Since(started))
	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return content.Empty()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, endpoint,
			fmt.Errorf("unexpected status %d", resp.StatusCode)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return content.Failed(content.NewLoadError(content.CodeSourceUnavailable, req.Kind, endpoint, err))
	}
	items, err := decode(req.Kind, body)
	if err != nil {
		logger.Warn("remote.fetch.decode_failed", "error", err)
		return content.Failed(content.NewLoadError(content.CodeDecodeFailed, req.Kind, endpoint, err))
	}
	return content.Populated(items)
}

func (s *HTTPSource) endpoint(req content.FetchRequest) string {
	target := *s.base
	target.Path = strings.TrimSuffix(target.Path, "/") + apiPrefix + endpoints[req.Kind]

	query := url.Values{}
	limit := s.limit
	if req.Kind == content.KindNews {
		limit = s.newsLimit
		if lang := locale.Normalize(req.Language); lang != "" {
			query.Set("language", lang)
		}
	}
	query.Set("limit", strconv.Itoa(limit))
	target.RawQuery = query.Encode()
	return target.String()
}

func decode(kind content.Kind, body []byte) (content.Collection, error) {
	switch kind {
	case content.KindGuide:
		return decodeAs[guideDTO](body)
	case content.KindTemplate:
		return decodeAs[templateDTO](body)
	case content.KindChecklist:
		return decodeAs[checklistDTO](body)
	case content.KindNews:
		return decodeAs[newsDTO](body)
	default:
		return nil, fmt.Errorf("%w: %q", content.ErrUnknownKind, kind)
	}
}

type mappable interface {
	item() content.Item
}

func decodeAs[T mappable](body []byte) (content.Collection, error) {
	var dtos []T
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, err
	}
	items := make(content.Collection, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, dto.item())
	}
	return items, nil
}
