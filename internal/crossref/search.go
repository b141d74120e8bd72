// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/doi-fix/internal/httputil"
	"github.com/pdiddy/doi-fix/internal/title"
	"github.com/pdiddy/doi-fix/pkg/types"
)

// Query holds the item metadata a search is built from.
type Query struct {
	Title    string
	Creators []types.Creator
	// Year is free date text; only a four-digit year inside it is used.
	Year string
}

// Text returns the search string: the title, followed by the first
// creator's last name when there is one.
func (q Query) Text() string {
	text := q.Title
	if len(q.Creators) > 0 {
		if last := strings.TrimSpace(q.Creators[0].LastName); last != "" {
			text += " " + last
		}
	}
	return text
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// PublicationYear extracts the first four-digit year from the Year text,
// or 0 when there is none.
func (q Query) PublicationYear() int {
	m := yearPattern.FindStringSubmatch(q.Year)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// Work is one candidate returned by the works search.
type Work struct {
	Title []string `json:"title"`
	DOI   string   `json:"DOI"`
}

// PrimaryTitle returns the first title of the work, or "".
func (w Work) PrimaryTitle() string {
	if len(w.Title) == 0 {
		return ""
	}
	return w.Title[0]
}

// CrossRef works-list envelope; only the fields we read.
type worksResponse struct {
	Message struct {
		Items []Work `json:"items"`
	} `json:"message"`
}

// Search runs a works query and returns the candidates in server order.
func (c *Client) Search(ctx context.Context, q Query) ([]Work, error) {
	if strings.TrimSpace(q.Title) == "" {
		return nil, types.ErrNoTitle
	}

	params := url.Values{
		"query": {q.Text()},
		"rows":  {strconv.Itoa(c.rows)},
	}
	if c.yearFilter {
		if y := q.PublicationYear(); y > 0 {
			params.Set("filter", fmt.Sprintf("from-pub-date:%d,until-pub-date:%d", y, y))
		}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	reqURL := c.baseURL + "/works?" + params.Encode()

	resp, err := httputil.Get(ctx, c.http, reqURL, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("CrossRef works search: %w", err)
	}
	defer resp.Body.Close()

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: parsing CrossRef response: %w", types.ErrTransport, err)
	}
	return wr.Message.Items, nil
}

// SelectDOI picks the DOI for localTitle from candidates: the DOI of the
// first work whose title is similar, otherwise the first work's DOI. A
// work without a title counts as similar. Returns "" for no candidates.
//
// The fallback trusts the index's own relevance ranking and can return the
// DOI of an unrelated work.
func SelectDOI(localTitle string, works []Work) string {
	if len(works) == 0 {
		return ""
	}
	for _, w := range works {
		if title.IsSimilar(localTitle, w.PrimaryTitle()) {
			return w.DOI
		}
	}
	return works[0].DOI
}

// FindDOI searches for the work and returns the selected DOI, or "" when
// nothing usable was found. Search failures are logged and reported as "".
// The caller must supply a non-empty title.
func (c *Client) FindDOI(ctx context.Context, itemTitle string, creators []types.Creator, year string) string {
	q := Query{Title: itemTitle, Creators: creators, Year: year}
	works, err := c.Search(ctx, q)
	if err != nil {
		c.logger.Warn("CrossRef search failed", "query", q.Text(), "error", err)
		return ""
	}
	found := SelectDOI(itemTitle, works)
	c.logger.Debug("CrossRef search", "query", q.Text(), "candidates", len(works), "doi", found)
	return found
}
