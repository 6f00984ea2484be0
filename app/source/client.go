package source

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Client fetches and parses one source's daily reading page. The page
// URL is templated as {base}/{MMDDYY}.cfm, the path scheme used by the
// USCCB daily readings site.
type Client struct {
	name    string
	baseURL string
	client  *resty.Client
}

func NewClient(config *Config, userAgent string) *Client {
	client := resty.New().
		SetTimeout(time.Duration(config.Settings.Timeout) * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		name:    config.Name,
		baseURL: config.BaseURL,
		client:  client,
	}
}

func (c *Client) Name() string {
	return c.name
}

// URL returns the page address for a calendar date, e.g. 100125.cfm
// for October 1, 2025.
func (c *Client) URL(date time.Time) string {
	return fmt.Sprintf("%s/%s.cfm", c.baseURL, date.Format("010206"))
}

// FetchDocument retrieves the page for the given date and parses it
// into a markup tree. The returned URL identifies where the document
// came from, for the record metadata.
func (c *Client) FetchDocument(ctx context.Context, date time.Time) (*goquery.Document, string, error) {
	url := c.URL(date)

	res, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, url, fmt.Errorf("failed to fetch page: %w", err)
	}

	if res.StatusCode() != 200 {
		return nil, url, fmt.Errorf("HTTP error: %d %s", res.StatusCode(), res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, url, fmt.Errorf("failed to parse page: %w", err)
	}

	return doc, url, nil
}
