// Package formbrickssdk is a typed client for the Formbricks HTTP API.
package formbrickssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/xerrors"

	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
)

// SessionTokenHeader authenticates management API requests.
const SessionTokenHeader = "X-Session-Token"

// Client talks to a Formbricks deployment.
type Client struct {
	URL          *url.URL
	HTTPClient   *http.Client
	SessionToken string
}

// New creates a client for the deployment at serverURL.
func New(serverURL *url.URL) *Client {
	return &Client{
		URL:        serverURL,
		HTTPClient: &http.Client{},
	}
}

// Request performs an HTTP request against the deployment. The response
// body must be closed by the caller.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	serverURL, err := c.URL.Parse(path)
	if err != nil {
		return nil, xerrors.Errorf("parse url: %w", err)
	}

	var buf bytes.Buffer
	if body != nil {
		err = json.NewEncoder(&buf).Encode(body)
		if err != nil {
			return nil, xerrors.Errorf("encode body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, serverURL.String(), &buf)
	if err != nil {
		return nil, xerrors.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.SessionToken != "" {
		req.Header.Set(SessionTokenHeader, c.SessionToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("do request: %w", err)
	}
	return resp, nil
}

// readBodyAsError reads the response as an httpapi.Response and returns
// it as a typed *Error.
func readBodyAsError(res *http.Response) error {
	defer res.Body.Close()

	var apiErr httpapi.Response
	err := json.NewDecoder(res.Body).Decode(&apiErr)
	if err != nil {
		return &Error{
			statusCode: res.StatusCode,
			Response: httpapi.Response{
				Message: fmt.Sprintf("read response body: %s", err.Error()),
			},
		}
	}
	return &Error{
		statusCode: res.StatusCode,
		Response:   apiErr,
	}
}

// Error represents an unaccepted or invalid request to the API.
type Error struct {
	httpapi.Response

	statusCode int
}

func (e *Error) StatusCode() int {
	return e.statusCode
}

func (e *Error) Error() string {
	var builder bytes.Buffer
	_, _ = fmt.Fprintf(&builder, "status code %d: %s", e.statusCode, e.Message)
	for _, err := range e.Errors {
		_, _ = fmt.Fprintf(&builder, "\n\t%s: %s", err.Field, err.Detail)
	}
	return builder.String()
}

// readJSON decodes the body into v and closes it.
func readJSON(res *http.Response, v interface{}) error {
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(v)
}
