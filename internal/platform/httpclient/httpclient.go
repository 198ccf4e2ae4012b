package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBody acota lo que se lee de una respuesta (errores incluidos).
	maxBody = 1 << 20
)

var ErrNilClient = errors.New("httpclient: nil client")

// Client es el cliente JSON compartido por los adapters HTTP (Odin, PostgREST).
type Client struct {
	HTTP    *http.Client
	BaseURL string // si está, Request.Path puede ser relativo
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// NewWithBaseURL valida la URL base y le quita la barra final.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// HTTPError es cualquier respuesta fuera de 2xx.
type HTTPError struct {
	StatusCode int
	Body       string
	Header     http.Header
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// DecodeBody interpreta el cuerpo del error como JSON.
func (e *HTTPError) DecodeBody(v any) error {
	if e.Body == "" {
		return io.EOF
	}
	return json.Unmarshal([]byte(e.Body), v)
}

// Request describe una llamada JSON. Body nil => sin cuerpo.
type Request struct {
	Method string
	Path   string // path relativo a BaseURL o URL absoluta
	Query  url.Values
	Header map[string]string
	Body   any
}

// Do envía req y decodifica la respuesta en out (si out != nil y hay cuerpo).
// Devuelve los headers de respuesta también en error (p.ej. Content-Range).
func (c *Client) Do(ctx context.Context, req Request, out any) (http.Header, error) {
	if c == nil || c.HTTP == nil {
		return nil, ErrNilClient
	}

	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		if strings.TrimSpace(k) != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			Header:     resp.Header,
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.Header, fmt.Errorf("httpclient: unmarshal json: %w", err)
		}
	}
	return resp.Header, nil
}

// DoJSON es Do sin query ni headers de respuesta.
func (c *Client) DoJSON(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	_, err := c.Do(ctx, Request{Method: method, Path: path, Header: headers, Body: in}, out)
	return err
}

func (c *Client) resolveURL(path string) (string, error) {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return "", errors.New("httpclient: empty url")
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path, nil
	case c.BaseURL == "":
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path, nil
}
