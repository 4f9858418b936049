// Package catalog implements the outbound client for the external book
// catalog (Google Books volumes API).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/common"
)

// volumeFields trims the upstream response to the fields the clients render.
// Kept verbatim from the original query.
const volumeFields = "items/id,items/volumeInfo(title,authors,industryIdentifiers,categories,publisher,publishedDate,description,imageLinks,pageCount,language)"

// Client queries the book catalog. The base URL is configurable so tests can
// point it at a local server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search runs a catalog query and returns the upstream JSON body verbatim.
//
// criteria selects the search field: "author" and "title" map to the
// upstream in<criteria> qualifiers; anything else falls back to an ISBN
// search. Whitespace in terms is joined with '+' to fit the upstream query
// syntax. page is passed through as the upstream start index.
func (c *Client) Search(ctx context.Context, terms string, criteria string, page string) (json.RawMessage, error) {
	qualifier := "isbn"
	switch criteria {
	case "author", "title":
		qualifier = "in" + criteria
	}

	terms = strings.ReplaceAll(terms, " ", "+")
	if page == "" {
		page = "0"
	}

	url := fmt.Sprintf("%s?q=%s:%s&printType=books&filter=full&fields=%s&startIndex=%s&key=%s",
		c.baseURL, qualifier, terms, volumeFields, page, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", common.ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFailure, err)
	}

	return json.RawMessage(body), nil
}
