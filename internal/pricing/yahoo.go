package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/domain"
)

const DefaultTimeout = 30 * time.Second

var (
	// ErrUpstream wraps an error payload returned by the price API.
	ErrUpstream = errors.New("price api error")

	// ErrNoData is returned when the API answers without a result series.
	ErrNoData = errors.New("price api returned no series")
)

// Source returns one price point per day with data in the window.
type Source interface {
	DailyPrices(ctx context.Context, symbol string, w Window) ([]domain.PricePoint, error)
}

// YahooClient reads daily candles from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures YahooClient.
type ClientOption func(*YahooClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *YahooClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *YahooClient) {
		c.client = client
	}
}

// NewYahooClient creates a client rooted at baseURL, e.g.
// https://query1.finance.yahoo.com.
func NewYahooClient(baseURL string, opts ...ClientOption) *YahooClient {
	c := &YahooClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Source = (*YahooClient)(nil)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open  []*float64 `json:"open"`
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DailyPrices fetches the symbol's USD daily candles. Days whose open or
// close is null upstream are skipped.
func (c *YahooClient) DailyPrices(ctx context.Context, symbol string, w Window) ([]domain.PricePoint, error) {
	currency, err := Currency(symbol)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprint(w.Start.In(time.UTC).Unix()))
	q.Set("period2", fmt.Sprint(w.End.In(time.UTC).Unix()))
	q.Set("interval", "1d")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s-USD?%s",
		c.baseURL, url.PathEscape(strings.ToUpper(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// The chart endpoint rejects Go's default agent with 429.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ledgerprep)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	return pricePoints(chart.Chart.Result[0], currency, w), nil
}

func pricePoints(res chartResult, currency domain.Cryptocurrency, w Window) []domain.PricePoint {
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	quote := res.Indicators.Quote[0]

	var points []domain.PricePoint
	seen := make(map[civil.Date]bool)
	for i, ts := range res.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.Close) {
			break
		}
		open, close := quote.Open[i], quote.Close[i]
		if open == nil || close == nil {
			continue
		}
		d := civil.DateOf(time.Unix(ts, 0).UTC())
		if !w.Contains(d) || seen[d] {
			continue
		}
		seen[d] = true
		points = append(points, domain.PricePoint{
			Date:           d,
			Cryptocurrency: currency,
			MeanPrice:      MeanPrice(*open, *close),
		})
	}
	return points
}
