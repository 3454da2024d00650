// Package github lists a user's public repositories through the GitHub REST
// API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/netx"
	"golang.org/x/oauth2"
)

const userAgent = "devconnector"

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Token is sent as an OAuth2 bearer token when set.
	Token string
	// ClientID and ClientSecret are sent as query parameters when Token is
	// empty.
	ClientID     string
	ClientSecret string
}

type Client struct {
	baseURL      string
	http         *http.Client
	clientID     string
	clientSecret string
}

func NewClient(opts Options) *Client {
	hc := &http.Client{}
	if opts.Token != "" {
		hc = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}
	hc.Timeout = opts.Timeout

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
	}
	if opts.Token == "" {
		c.clientID = opts.ClientID
		c.clientSecret = opts.ClientSecret
	}
	return c
}

func (c *Client) reposURL(username string) string {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" && c.clientSecret != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	return fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())
}

// Repos returns the upstream JSON array unchanged. Any non-200 answer is
// reported as common.ErrUpstream.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	h := http.Header{}
	h.Set("User-Agent", userAgent)

	body, err := netx.GetJSON(ctx, c.http, c.reposURL(username), h)
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: github responded %d", common.ErrUpstream, se.StatusCode)
		}
		return nil, fmt.Errorf("github request: %w", err)
	}
	return body, nil
}
