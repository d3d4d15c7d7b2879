// Package backend is the REST client for the flight search collaborator.
// The backend owns inventory and pricing; this client only translates
// search parameters into its query string and decodes the
// flightsAvailable envelope.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tripveda/flightdesk/internal/models"
	"github.com/tripveda/flightdesk/internal/ratelimit"
)

// HTTPError is a non-2xx search response, with the status mapped to the
// user-facing message the result page shows.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return "Invalid search parameters."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return fmt.Sprintf("HTTP error %d", e.StatusCode)
	}
}

// Query is one search call: a single origin/destination/date pair, with an
// optional return date for round trips.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	CurrencyCode  string
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.HostLimiter
}

type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	cfg     Config
	log     *logrus.Logger
}

func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		httpc:   &http.Client{Timeout: timeout},
		cfg:     cfg,
		log:     log,
	}, nil
}

type searchEnvelope struct {
	FlightsAvailable []models.Flight `json:"flightsAvailable"`
}

// Search runs one backend search with the configured retry ladder.
// Client errors (4xx) are never retried; the parameters will not get
// better on a second attempt.
func (c *Client) Search(ctx context.Context, q Query) ([]models.Flight, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(c.cfg.RetryDelays) {
				delayIdx = len(c.cfg.RetryDelays) - 1
			}
			if delayIdx >= 0 {
				select {
				case <-time.After(c.cfg.RetryDelays[delayIdx]):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		flights, err := c.searchOnce(ctx, q)
		if err == nil {
			return flights, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			break
		}
		c.log.WithFields(logrus.Fields{
			"origin":      q.Origin,
			"destination": q.Destination,
			"attempt":     attempt + 1,
		}).WithError(err).Warn("backend search attempt failed")
	}

	return nil, lastErr
}

func (c *Client) searchOnce(ctx context.Context, q Query) ([]models.Flight, error) {
	if c.cfg.RateLimiter != nil {
		if err := c.cfg.RateLimiter.Wait(ctx, c.baseURL.Host); err != nil {
			return nil, err
		}
	}

	u := *c.baseURL
	u.Path = u.Path + "/flights/search"

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	currency := q.CurrencyCode
	if currency == "" {
		currency = "INR"
	}
	params.Set("currencyCode", currency)
	if q.Adults > 0 {
		params.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// A missing or null flightsAvailable is an empty result, not an error.
	if envelope.FlightsAvailable == nil {
		return []models.Flight{}, nil
	}
	return envelope.FlightsAvailable, nil
}
