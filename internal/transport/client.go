package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the university backend. Each call is a single attempt:
// there is no retry and no client-side timeout beyond the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	hook       Hook
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithHook replaces the diagnostics hook.
func WithHook(hook Hook) Option {
	return func(c *Client) {
		c.hook = hook
	}
}

// WithLogger routes diagnostics to logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.hook = NewLogHook(logger)
	}
}

// NewClient creates a client for baseURL. An empty baseURL leaves paths
// untouched (same-origin).
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar: jar,
		},
		hook: NewLogHook(nil),
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		withJar := *c.httpClient
		withJar.Jar = jar
		c.httpClient = &withJar
	}
	if c.hook == nil {
		c.hook = NewLogHook(nil)
	}

	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes one request. At most one of JSON and Multipart is used.
type RequestOptions struct {
	Method    string
	Headers   map[string]string
	Query     url.Values
	JSON      any
	Multipart *Multipart
}

// Request performs the call and decodes the JSON response into a T.
func Request[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var out T
	err := c.Do(ctx, path, opts, &out)
	return out, err
}

// Do performs the call and decodes the JSON response into out. A 204 response
// leaves out untouched, except that a *map[string]any is set to an empty map.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := c.baseURL + path
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + opts.Query.Encode()
	}

	body, contentType, logBody, err := encodeBody(opts)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	headers := mergeHeaders(opts.Headers, opts.Multipart != nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.hook.OnRequest(RequestLog{Method: method, URL: fullURL, Body: logBody})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, fullURL, err)
	}
	defer resp.Body.Close()

	// Read once; the hook and the decoder both work from the buffered copy.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response from %s: %w", ErrTransport, fullURL, err)
	}

	c.hook.OnResponse(ResponseLog{
		URL:        fullURL,
		StatusCode: resp.StatusCode,
		Body:       describeBody(resp.Header.Get("Content-Type"), raw),
	})

	return handleResponse(resp, raw, out)
}

func handleResponse(resp *http.Response, raw []byte, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, raw)
	}

	if resp.StatusCode == http.StatusNoContent {
		if m, ok := out.(*map[string]any); ok {
			*m = map[string]any{}
		}
		return nil
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func mergeHeaders(custom map[string]string, multipartBody bool) map[string]string {
	merged := map[string]string{"Content-Type": "application/json"}
	for k, v := range custom {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	if multipartBody {
		delete(merged, "Content-Type")
	}
	return merged
}

func encodeBody(opts RequestOptions) (io.Reader, string, any, error) {
	switch {
	case opts.Multipart != nil:
		return opts.Multipart.encode()
	case opts.JSON != nil:
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		return bytes.NewReader(data), "", opts.JSON, nil
	default:
		return nil, "", nil, nil
	}
}

// describeBody renders a response body for diagnostics. JSON content types
// are decoded, everything else is kept as text.
func describeBody(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	if isJSONContentType(contentType) {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			return parsed
		}
	}
	return string(raw)
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// FilePart is one file inside a multipart body.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string // sniffed when empty
	Content     io.Reader
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

// FileInfo is how a file part appears in request diagnostics.
type FileInfo struct {
	FileName string `json:"fileName"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
}

func (m *Multipart) encode() (io.Reader, string, any, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	logBody := make(map[string]any, len(m.Fields)+len(m.Files))

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
		logBody[k] = v
	}

	for _, f := range m.Files {
		content, err := io.ReadAll(f.Content)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to read file %s: %w", f.FileName, err)
		}
		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(content)
		}

		part, err := w.CreatePart(filePartHeader(f.FieldName, f.FileName, ct))
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to create part %s: %w", f.FieldName, err)
		}
		if _, err := part.Write(content); err != nil {
			return nil, "", nil, fmt.Errorf("failed to write part %s: %w", f.FieldName, err)
		}
		logBody[f.FieldName] = FileInfo{FileName: f.FileName, Size: len(content), Type: ct}
	}

	if err := w.Close(); err != nil {
		return nil, "", nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), logBody, nil
}

func filePartHeader(field, fileName, contentType string) textproto.MIMEHeader {
	disposition := mime.FormatMediaType("form-data", map[string]string{
		"name":     field,
		"filename": fileName,
	})
	return textproto.MIMEHeader{
		"Content-Disposition": {disposition},
		"Content-Type":        {contentType},
	}
}
