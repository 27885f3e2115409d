package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/starx-inc/airbyte/base/utils"
)

const (
	// the ecforce API caps page size at 100
	pageSize = 100
	// the API has no published rate limit; one request per second is known to be safe
	pagePause = time.Second
)

// resource is a JSON:API resource object as returned by the ecforce admin API
type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data []resourceRef `json:"data"`
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type pageMeta struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type customersPage struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included"`
	Meta     pageMeta   `json:"meta"`
}

// HasMore reports whether pages remain after this one
func (p *customersPage) HasMore() bool {
	return p.Meta.Page < p.Meta.TotalPages
}

// client talks to the ecforce admin API of one shop domain. Requests are not retried:
// the API rejects bursts hard and a failed sync should surface immediately.
type client struct {
	appbase.Service
	httpClient *http.Client
	baseURL    string
	apiToken   string
	startDate  string
	endDate    string
}

func newClient(cfg *Config, timeout time.Duration) *client {
	endDate := cfg.EndDate
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	return &client{
		Service:    appbase.NewServiceBase("ecforce-client"),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("https://%s/api/v2/admin", cfg.Domain),
		apiToken:   cfg.APIToken,
		startDate:  cfg.StartDate,
		endDate:    endDate,
	}
}

// FetchCustomersPage requests one page of customers updated inside the configured date
// window, with their notes side-loaded. The window bounds are widened to full days.
func (c *client) FetchCustomersPage(ctx context.Context, page int) (*customersPage, error) {
	params := url.Values{}
	params.Set("per", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "updated_at,id")
	params.Set("lighter", "0")
	params.Set("include", "notes")
	params.Set("q[updated_at_gteq]", c.startDate+" 00:00:00")
	params.Set("q[updated_at_lt]", c.endDate+" 23:59:59")

	requestURL := c.baseURL + "/customers.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token token="+c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.NewError("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.NewError("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.NewError("api returned status %d: %s", resp.StatusCode,
			utils.ShortenStringWithEllipsis(string(body), 512))
	}
	result := &customersPage{}
	if err := jsoniter.Unmarshal(body, result); err != nil {
		return nil, c.NewError("failed to parse response: %v", err)
	}
	if result.Meta.Page == 0 {
		result.Meta.Page = page
	}
	if result.Meta.TotalPages == 0 {
		result.Meta.TotalPages = 1
	}
	return result, nil
}
