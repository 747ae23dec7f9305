// Package places is the Google Places client behind the collector and
// the lazy detail lookups. Provider trouble degrades to empty results at
// the call sites; it never takes the directory down.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/platform/config"
	"smartdivorce_backend/platform/logger"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Provider paginates with a token that only becomes valid shortly after
// the previous page is served.
const pageTokenDelay = 2 * time.Second

// maxPages caps pagination at the provider's own limit of 60 results.
const maxPages = 3

// Client calls the Places Text Search and Details endpoints with
// client-side rate limiting and a single retry on transient failure.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	cache      *Cache
	log        *logger.Logger

	// sleep is replaced in tests to skip the page token delay.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.PlacesConfig, cache *Cache, log *logger.Logger) *Client {
	perSecond := cfg.GetPlacesRatePerSecond()
	if perSecond <= 0 {
		perSecond = 5
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		apiKey:     cfg.GetPlacesAPIKey(),
		baseURL:    defaultBaseURL,
		cache:      cache,
		log:        log,
		sleep:      sleepCtx,
	}
}

// Search runs a text search and follows pagination, returning raw place
// records in provider order. Results are cached briefly keyed by query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PlaceRecord, error) {
	if cached, ok := c.cache.GetSearch(ctx, query); ok {
		return cached, nil
	}

	records := make([]domain.PlaceRecord, 0, 20)
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		if pageToken != "" {
			// Abandoned mid-pagination: no partial results, same as the
			// other error paths.
			if err := c.sleep(ctx, pageTokenDelay); err != nil {
				return nil, err
			}
		}

		resp, err := c.textSearch(ctx, query, pageToken)
		if err != nil {
			return nil, err
		}

		for _, result := range resp.Results {
			if result.PlaceID == "" {
				continue
			}
			records = append(records, result.record())
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	c.cache.PutSearch(ctx, query, records)
	return records, nil
}

// Details fetches phone and website for a single place id. Lookups are
// lazy and one place at a time: details cost far more quota than search.
func (c *Client) Details(ctx context.Context, placeID string) (Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_phone_number,website")
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, c.baseURL+"/details/json?"+params.Encode(), &resp); err != nil {
		return Details{}, err
	}
	if resp.Status != "OK" {
		return Details{}, fmt.Errorf("places details status %s: %s", resp.Status, resp.ErrorMessage)
	}

	var details Details
	if resp.Result.FormattedPhoneNumber != "" {
		phone := resp.Result.FormattedPhoneNumber
		details.Phone = &phone
	}
	if resp.Result.Website != "" {
		site := resp.Result.Website
		details.Website = &site
	}
	return details, nil
}

func (c *Client) textSearch(ctx context.Context, query, pageToken string) (textSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var resp textSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/textsearch/json?"+params.Encode(), &resp); err != nil {
		return textSearchResponse{}, err
	}

	switch resp.Status {
	case "OK", "ZERO_RESULTS":
		return resp, nil
	default:
		return textSearchResponse{}, fmt.Errorf("places search status %s: %s", resp.Status, resp.ErrorMessage)
	}
}

// getJSON performs a rate-limited GET with one retry on transport errors
// and 5xx responses.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("places request failed", "attempt", attempt+1, "error", err.Error())
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("places upstream error: %d", resp.StatusCode)
			c.log.Warn("places upstream error", "attempt", attempt+1, "status", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("places upstream error: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode places payload: %w", err)
		}
		return nil
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
