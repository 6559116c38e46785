package twitter

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	errs "tagtally/pkg/errors"
	"tagtally/pkg/logger"
)

// Client fetches search result pages. It performs exactly one request per
// call and never retries.
type Client struct {
	http   *resty.Client
	logger logger.Logger
}

// Options configures a Client
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Headers are sent with every request. User-Agent here is overridden by
	// UserAgent when that is set.
	Headers map[string]string
}

// NewClient creates a search page client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetHeaders(opts.Headers)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:   client,
		logger: log,
	}
}

// FetchPage performs a blocking GET of pageURL and returns the raw body.
// Transport failures return an ErrorTypeNetwork error; non-2xx responses
// return the typed error matching the status code.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": "GET",
		"url":    pageURL,
	})

	resp, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      pageURL,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "GET "+pageURL)
	}

	logger.LogRequest(c.logger, "GET", pageURL, resp.StatusCode(), time.Since(start))

	if statusErr := errs.FromStatus(resp.StatusCode()); statusErr != nil {
		return nil, statusErr
	}

	c.logger.DebugWithFields("page fetched", map[string]interface{}{
		"url":  pageURL,
		"size": len(resp.Body()),
	})

	return resp.Body(), nil
}
