// Package bigml is a client for the BigML machine-learning REST API. It
// speaks the resource types in package resource, and builds its polling on
// the generic engine in package wait.
package bigml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aponysus/bigml/resource"
	"github.com/aponysus/bigml/wait"
)

// DefaultEndpoint is the public BigML API endpoint.
const DefaultEndpoint = "https://bigml.io"

// Client is a connection to BigML.
type Client struct {
	username   string
	apiKey     string
	endpoint   *url.URL
	httpClient *http.Client
	engine     *wait.Engine
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http.Client used for all requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithWaitEngine sets the wait engine used by the polling helpers. This is
// how observers (and, in tests, fake clocks) reach every wait the client
// performs.
func WithWaitEngine(eng *wait.Engine) ClientOption {
	return func(c *Client) { c.engine = eng }
}

// NewClient creates a client for the given credentials.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	endpoint := creds.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &Error{Kind: ErrKindOther, Err: fmt.Errorf("could not parse endpoint: %w", err)}
	}

	c := &Client{
		username: creds.Username,
		apiKey:   creds.APIKey,
		endpoint: u,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.engine == nil {
		c.engine = wait.NewEngine()
	}
	return c, nil
}

// NewClientFromEnv creates a client using BIGML_USERNAME and BIGML_API_KEY.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	creds, err := CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(creds, opts...)
}

// WaitEngine returns the engine that runs this client's waits.
func (c *Client) WaitEngine() *wait.Engine { return c.engine }

// url builds an authenticated URL for the given API path. The result
// contains the api_key and must be redacted before appearing in any error.
func (c *Client) url(path string) *url.URL {
	u := *c.endpoint
	u.Path = path
	u.RawQuery = "username=" + url.QueryEscape(c.username) + "&api_key=" + url.QueryEscape(c.apiKey)
	return &u
}

// Create creates a new resource of type R. The args payload must belong to
// the same resource kind.
func Create[R resource.Resource](ctx context.Context, c *Client, args resource.Args) (*R, error) {
	var r R
	kind := r.ResourceKind()
	if got := args.ArgsKind(); got != kind {
		return nil, &Error{
			Kind: ErrKindWrongResourceType,
			Err:  fmt.Errorf("cannot create a %s from %s arguments", kind, got),
		}
	}

	body, err := json.Marshal(args)
	if err != nil {
		return nil, &Error{Kind: ErrKindOther, Err: fmt.Errorf("could not encode %s arguments: %w", kind, err)}
	}
	u := c.url(kind.CreatePath())
	return doJSON[R](ctx, c, http.MethodPost, u, "application/json", bytes.NewReader(body))
}

// Fetch retrieves the current state of an existing resource.
func Fetch[R resource.Resource](ctx context.Context, c *Client, id resource.ID[R]) (*R, error) {
	u := c.url("/" + id.String())
	return doJSON[R](ctx, c, http.MethodGet, u, "", nil)
}

// Update applies update to an existing resource. BigML's update responses
// are often incomplete, so no resource is returned; Fetch again if you need
// the updated state.
func Update[R resource.Resource](ctx context.Context, c *Client, id resource.ID[R], update any) error {
	body, err := json.Marshal(update)
	if err != nil {
		return &Error{Kind: ErrKindOther, Err: fmt.Errorf("could not encode update: %w", err)}
	}
	u := c.url("/" + id.String())
	_, err = doJSON[json.RawMessage](ctx, c, http.MethodPut, u, "application/json", bytes.NewReader(body))
	return err
}

// Delete removes an existing resource.
func Delete[R resource.Resource](ctx context.Context, c *Client, id resource.ID[R]) error {
	u := c.url("/" + id.String())
	res, err := c.do(ctx, http.MethodDelete, u, "", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return responseError(u, res)
	}
	return nil
}

// CreateSourceFromFile uploads the file at path as a new data source using
// a multipart form, streaming the file rather than loading it into memory.
func (c *Client) CreateSourceFromFile(ctx context.Context, path string) (*resource.Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ErrKindOther, Err: fmt.Errorf("could not read file %s: %w", path, err)}
	}
	defer file.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	u := c.url(resource.KindSource.CreatePath())
	return doJSON[resource.Source](ctx, c, http.MethodPost, u, form.FormDataContentType(), pr)
}

// do performs one HTTP request. Transport-level failures come back as
// could-not-access-URL errors with the api_key redacted.
func (c *Client) do(ctx context.Context, method string, u *url.URL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errCouldNotAccessURL(u, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errCouldNotAccessURL(u, err)
	}
	return res, nil
}

func doJSON[T any](ctx context.Context, c *Client, method string, u *url.URL, contentType string, body io.Reader) (*T, error) {
	res, err := c.do(ctx, method, u, contentType, body)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, responseError(u, res)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errCouldNotAccessURL(u, err)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, errCouldNotAccessURL(u, err)
	}
	return out, nil
}

func responseError(u *url.URL, res *http.Response) error {
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode == http.StatusPaymentRequired {
		return errPaymentRequired(u, string(body))
	}
	return errUnexpectedHTTPStatus(u, res.StatusCode, string(body))
}
