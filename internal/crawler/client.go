// Package crawler fetches company records from the paginated search API.
package crawler

import (
	"context"
	"time"

	"github.com/ubuntu/decorate"

	"companyexport/internal/logger"
	"companyexport/internal/models"
	"companyexport/internal/normalizer"
)

// DefaultTimeout bounds a single request when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Config holds everything a Client needs. It is fixed at construction.
type Config struct {
	BaseURL         string
	Token           string
	UserAgent       string
	Timeout         time.Duration
	RequestInterval time.Duration
}

// Client pages through search results.
type Client struct {
	scraper *Scraper
	log     *logger.Logger
}

// NewClient creates a new client for cfg.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		scraper: NewScraper(cfg),
		log:     log.With("component", "crawler"),
	}
}

// NewClientWithDeps creates a new client around an existing scraper.
func NewClientWithDeps(scraper *Scraper, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{scraper: scraper, log: log.With("component", "crawler")}
}

// Fetch returns every record matching filter, up to its result cap, in
// server order. progress, when set, receives the running total after each
// non-empty page. On error no records are returned.
func (c *Client) Fetch(ctx context.Context, filter normalizer.SearchFilter, progress func(total int)) (_ []models.RawRecord, err error) {
	defer decorate.OnError(&err, "failed to fetch companies")

	f, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	perPage := f.PerRequestLimit
	maxResults := f.MaxResults

	records := make([]models.RawRecord, 0, min(perPage, maxResults))
	skip := 0

	for len(records) < maxResults {
		limit := normalizer.ClampLimit(min(perPage, maxResults-len(records)))

		c.log.Debug("Requesting page",
			"ateco_code", f.ClassificationCode,
			"province", f.RegionCode,
			"limit", limit,
			"skip", skip,
		)

		batch, err := c.scraper.FetchPage(ctx, PageQuery{
			ClassificationCode: f.ClassificationCode,
			RegionCode:         f.RegionCode,
			Limit:              limit,
			Skip:               skip,
		})
		if err != nil {
			return nil, err
		}

		if len(batch) == 0 {
			break
		}

		if len(batch) > limit {
			batch = batch[:limit]
		}

		records = append(records, batch...)
		skip += len(batch)

		if progress != nil {
			progress(len(records))
		}

		if len(batch) < limit {
			break
		}
	}

	c.log.Info("Fetch complete", "total", len(records))

	return records, nil
}
