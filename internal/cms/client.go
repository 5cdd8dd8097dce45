package cms

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

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/platform/observability"
	"finitefield.org/storefront-web/internal/platform/requestctx"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPageSize = 100
	// maxPages bounds pagination when the API reports an implausible page count.
	maxPages = 50

	resourceProducts   = "products"
	resourceCategories = "categories"
)

// StatusError reports a non-2xx answer from the content API.
type StatusError struct {
	Resource string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms: %s status %d: %s", e.Resource, e.Code, e.Message)
	}
	return fmt.Sprintf("cms: %s status %d", e.Resource, e.Code)
}

// Client provides read-only access to the content API collections.
type Client struct {
	baseURL  string
	http     *http.Client
	pageSize int
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPageSize sets the page size requested from collection endpoints.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient constructs a Client with the provided base URL (e.g. http://localhost:1337).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised API base address.
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveURL turns a media path returned by the API into a loadable URL. Relative paths are
// prefixed with the base address; absolute URLs (external media hosting) pass through.
func (c *Client) ResolveURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if strings.HasPrefix(path, "//") {
		return "https:" + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// ListProducts returns every published product with relations populated.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var raw []rawProduct
	if err := c.fetchAll(ctx, resourceProducts, nil, func(page []json.RawMessage) error {
		return appendDecoded(&raw, page)
	}); err != nil {
		return nil, err
	}
	return c.mapProducts(ctx, raw), nil
}

// ListCategories returns every category with relations populated.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var raw []rawCategory
	if err := c.fetchAll(ctx, resourceCategories, nil, func(page []json.RawMessage) error {
		return appendDecoded(&raw, page)
	}); err != nil {
		return nil, err
	}
	out := make([]catalog.Category, 0, len(raw))
	for _, rc := range raw {
		out = append(out, catalog.Category{
			ID:    rc.ID,
			Name:  strings.TrimSpace(rc.Name),
			Slug:  strings.TrimSpace(rc.Slug),
			Image: c.mapImage(rc.Image.first()),
		})
	}
	return out, nil
}

// FindProductsBySlug returns the live products whose slug equals slug (normally zero or one).
func (c *Client) FindProductsBySlug(ctx context.Context, slug string) ([]catalog.Product, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	q.Set("publicationState", "live")
	var raw []rawProduct
	if err := c.fetchPage(ctx, resourceProducts, q, 1, func(page []json.RawMessage) error {
		return appendDecoded(&raw, page)
	}, nil); err != nil {
		return nil, err
	}
	return c.mapProducts(ctx, raw), nil
}

// Ping reads the first page of categories and discards it. It reports whether the
// content API is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	return c.fetchPage(ctx, resourceCategories, nil, 1, func([]json.RawMessage) error { return nil }, nil)
}

func (c *Client) fetchAll(ctx context.Context, resource string, extra url.Values, sink func([]json.RawMessage) error) error {
	for page := 1; page <= maxPages; page++ {
		var pagination rawPagination
		if err := c.fetchPage(ctx, resource, extra, page, sink, &pagination); err != nil {
			return err
		}
		if pagination.PageCount <= page {
			return nil
		}
	}
	requestctx.Logger(ctx).Warn("cms: pagination truncated", zap.String("resource", resource), zap.Int("pages", maxPages))
	return nil
}

func (c *Client) fetchPage(ctx context.Context, resource string, extra url.Values, page int, sink func([]json.RawMessage) error, pagination *rawPagination) (err error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", resource)
	if err != nil {
		return fmt.Errorf("cms: join path %s: %w", resource, err)
	}
	q := url.Values{}
	for k, vs := range extra {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("populate", "*")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(c.pageSize))

	ctx, span := observability.StartClientSpan(ctx, "cms."+resource,
		attribute.String("cms.resource", resource),
		attribute.Int("cms.page", page),
	)
	start := time.Now()
	outcome := "ok"
	defer func() {
		switch {
		case IsNotFound(err):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		observability.ObserveCMSRequest(resource, outcome, time.Since(start))
		observability.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("cms: build request %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	observability.InjectHeaders(ctx, req.Header)

	logger := requestctx.Logger(ctx)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("cms: request failed", zap.String("resource", resource), zap.Error(err))
		return fmt.Errorf("cms: %s request: %w", resource, err)
	}
	defer resp.Body.Close()

	logger.Debug("cms: response",
		zap.String("resource", resource),
		zap.Int("page", page),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Resource: resource, Code: resp.StatusCode, Message: drainError(resp.Body)}
	}

	var env rawEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("cms: decode %s: %w", resource, err)
	}
	if env.Error != nil {
		return &StatusError{Resource: resource, Code: env.Error.Status, Message: env.Error.Message}
	}
	if pagination != nil {
		*pagination = env.Meta.Pagination
	}
	return sink(env.Data)
}

func (c *Client) mapProducts(ctx context.Context, raw []rawProduct) []catalog.Product {
	out := make([]catalog.Product, 0, len(raw))
	for _, rp := range raw {
		if rp.Price.invalid != "" {
			requestctx.Logger(ctx).Warn("cms: ignoring unparseable price",
				zap.Int("id", rp.ID),
				zap.String("slug", rp.Slug),
				zap.String("price", rp.Price.invalid),
			)
		}
		p := catalog.Product{
			ID:             rp.ID,
			Name:           strings.TrimSpace(rp.Name),
			Slug:           strings.TrimSpace(rp.Slug),
			Price:          rp.Price.ptr(),
			Image:          c.mapImage(rp.Image.first()),
			DisplaySize:    string(rp.DisplaySize),
			Brightness:     string(rp.Brightness),
			PeakBrightness: string(rp.PeakBrightness),
			ContrastRatio:  string(rp.ContrastRatio),
			Description:    string(rp.Description),
		}
		if rp.Category != nil {
			p.Category = &catalog.CategoryRef{
				Name: strings.TrimSpace(rp.Category.Name),
				Slug: strings.TrimSpace(rp.Category.Slug),
			}
		}
		out = append(out, p)
	}
	return out
}

func (c *Client) mapImage(raw *rawImage) *catalog.Image {
	if raw == nil {
		return nil
	}
	img := &catalog.Image{
		URL: c.ResolveURL(raw.URL),
		Alt: strings.TrimSpace(raw.AlternativeText),
	}
	if len(raw.Formats) > 0 {
		img.Formats = make(map[string]catalog.ImageFormat, len(raw.Formats))
		for name, f := range raw.Formats {
			img.Formats[name] = catalog.ImageFormat{
				URL:    c.ResolveURL(f.URL),
				Width:  f.Width,
				Height: f.Height,
			}
		}
	}
	return img
}

func appendDecoded[T any](dst *[]T, page []json.RawMessage) error {
	for _, item := range page {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return fmt.Errorf("cms: decode record: %w", err)
		}
		*dst = append(*dst, v)
	}
	return nil
}

func drainError(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var env rawEnvelope
	if json.Unmarshal(b, &env) == nil && env.Error != nil {
		return strings.TrimSpace(env.Error.Message)
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the content API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
