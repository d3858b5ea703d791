// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/review-panel/internal/httputil"
	"github.com/pdiddy/review-panel/internal/logging"
	"github.com/pdiddy/review-panel/pkg/types"
)

// landingPageBase is the canonical per-work landing page prefix.
const landingPageBase = "https://core.ac.uk/works/"

// maxFulltextLinks caps the fulltext URLs kept per work.
const maxFulltextLinks = 2

// Work is one literature search hit, normalized from the provider payload.
type Work struct {
	Title        string
	Abstract     string
	Authors      []string
	Year         int
	DOI          string
	DownloadURL  string
	FulltextURLs []string
	ProviderID   string
}

// Reference converts the work into a citation record, attaching whichever
// link types the source item carried. The DOI is preferred and rendered as
// a resolver URL; fulltext links are capped at two.
func (w Work) Reference() types.LiteratureReference {
	ref := types.LiteratureReference{
		Title:   w.Title,
		Authors: w.Authors,
		Year:    w.Year,
		DOI:     w.DOI,
	}
	if w.DOI != "" {
		ref.Links = append(ref.Links, types.LiteratureLink{Type: types.LinkDOI, URL: "https://doi.org/" + w.DOI})
	}
	if w.DownloadURL != "" {
		ref.Links = append(ref.Links, types.LiteratureLink{Type: types.LinkDownload, URL: w.DownloadURL})
	}
	fulltext := w.FulltextURLs
	if len(fulltext) > maxFulltextLinks {
		fulltext = fulltext[:maxFulltextLinks]
	}
	for _, u := range fulltext {
		if u != "" {
			ref.Links = append(ref.Links, types.LiteratureLink{Type: types.LinkFulltext, URL: u})
		}
	}
	if w.ProviderID != "" {
		ref.Links = append(ref.Links, types.LiteratureLink{Type: types.LinkLanding, URL: landingPageBase + w.ProviderID})
	}
	return ref
}

// Client queries the CORE API v3 works search endpoint.
type Client struct {
	cfg        types.LiteratureConfig
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient builds a Client from cfg. A nil log discards client logging.
func NewClient(cfg types.LiteratureConfig, log *logrus.Logger) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// CORE API JSON structures.
type coreResponse struct {
	Results []coreWork `json:"results"`
}

type coreWork struct {
	ID                 json.Number  `json:"id"`
	Title              string       `json:"title"`
	Abstract           string       `json:"abstract"`
	Authors            []coreAuthor `json:"authors"`
	YearPublished      int          `json:"yearPublished"`
	DOI                string       `json:"doi"`
	DownloadURL        string       `json:"downloadUrl"`
	SourceFulltextURLs []string     `json:"sourceFulltextUrls"`
}

type coreAuthor struct {
	Name string `json:"name"`
}

// Search queries the works endpoint with the given free-text query. Server
// errors are retried with exponential backoff through httputil.DoWithRetry;
// client errors and malformed payloads return an empty list immediately.
// Without a configured credential the network is never touched and a single
// labeled placeholder work is returned instead.
func (c *Client) Search(ctx context.Context, query string) ([]Work, error) {
	if c.cfg.APIKey == "" {
		c.log.Warn("literature credential not configured, returning placeholder data")
		return []Work{placeholderWork(query)}, nil
	}

	params := url.Values{
		"q":      {query},
		"limit":  {fmt.Sprintf("%d", c.cfg.MaxResults)},
		"scroll": {"false"},
	}
	reqURL := c.cfg.BaseURL + "/search/works?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("literature search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnf("literature search returned HTTP %d for %q", resp.StatusCode, query)
		return nil, nil
	}

	var cr coreResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		c.log.Warnf("malformed literature payload for %q: %v", query, err)
		return nil, nil
	}

	works := make([]Work, 0, len(cr.Results))
	for _, r := range cr.Results {
		w := Work{
			Title:        r.Title,
			Abstract:     r.Abstract,
			Year:         r.YearPublished,
			DOI:          r.DOI,
			DownloadURL:  r.DownloadURL,
			FulltextURLs: r.SourceFulltextURLs,
			ProviderID:   r.ID.String(),
		}
		for _, a := range r.Authors {
			if a.Name != "" {
				w.Authors = append(w.Authors, a.Name)
			}
		}
		works = append(works, w)
	}
	return works, nil
}

// placeholderWork is the explicit degraded-mode stand-in used when no
// credential is configured.
func placeholderWork(query string) Work {
	return Work{
		Title:    fmt.Sprintf("Research on %s", query),
		Abstract: fmt.Sprintf("This is a simulated abstract about %s. No actual API data available.", query),
		Authors:  []string{"Simulated Author"},
	}
}
