// Package market reads live vacancy salaries from the public hh.ru API so
// catalog wage statistics can be compared with current offers.
package market

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "occupation-matcher/1.0 (+https://github.com/spigell/occupation-matcher)"
	// Max value for search per page.
	perPage = "100"
	// The API refuses to page past 2000 items.
	defaultMaxPages = 20
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// PageDelay is waited between page requests.
	PageDelay time.Duration
	// MaxPages caps how many pages a single search follows.
	MaxPages int
}

// Options configures New. Zero values fall back to the public API defaults.
type Options struct {
	APIURL    string
	Token     string
	UserAgent string
	PageDelay time.Duration
	Timeout   time.Duration
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		token:     strings.TrimSpace(opts.Token),
		logger:    logger,
		APIURL:    strings.TrimRight(opts.APIURL, "/"),
		UserAgent: opts.UserAgent,
		PageDelay: opts.PageDelay,
		MaxPages:  defaultMaxPages,
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
	if c.APIURL == "" {
		c.APIURL = apiURL
	}
	if c.UserAgent == "" {
		c.UserAgent = userAgent
	}
	if c.HTTPClient.Timeout <= 0 {
		c.HTTPClient.Timeout = 10 * time.Second
	}
	return c
}

// Search returns every vacancy matching params across all result pages.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*Vacancies, error) {
	return c.search(ctx, params)
}
