// Package practicum talks to the homework statuses API.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework-bot/api/internal/homework"
)

const maxResponseBodySize = 1 << 20 // 1MB

var (
	ErrTransport            = errors.New("transport failure")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

// StatusCodeError is returned for any non-200 reply.
type StatusCodeError struct {
	Code int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("%s %d", ErrUnexpectedStatusCode, e.Code)
}

func (e *StatusCodeError) Is(target error) bool { return target == ErrUnexpectedStatusCode }

type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
}

func New(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Statuses requests homework statuses changed since fromDate (unix seconds)
// and returns the decoded body without interpreting it.
func (c *Client) Statuses(ctx context.Context, fromDate int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint: %v", ErrTransport, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return nil, &StatusCodeError{Code: resp.StatusCode}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
		}
		return nil, fmt.Errorf("%w: decode body: %v", homework.ErrMalformedResponse, err)
	}
	return out, nil
}
