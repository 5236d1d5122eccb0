package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"DailySignal/internal/model"
)

// BybitFetcher implements Fetcher using the Bybit v5 public market API.
type BybitFetcher struct {
	BaseURL   string
	Category  string
	QuoteCoin string
	Client    *http.Client
	// Now is used to cap kline queries at the start of the current UTC day.
	Now func() time.Time
}

// NewBybitFetcher creates a new fetcher with optional proxy support.
func NewBybitFetcher(baseURL, category, quoteCoin, proxyURL string, timeout time.Duration) *BybitFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BybitFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Category:  category,
		QuoteCoin: quoteCoin,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (f *BybitFetcher) Name() string { return "bybit" }

// FetchInstruments lists every ticker in the category quoted in QuoteCoin.
func (f *BybitFetcher) FetchInstruments(ctx context.Context) ([]model.Instrument, error) {
	q := url.Values{}
	q.Set("category", f.Category)
	body, err := f.get(ctx, "/v5/market/tickers", q)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}

	list := gjson.GetBytes(body, "result.list")
	if !list.IsArray() {
		return nil, fmt.Errorf("fetch tickers: malformed response: result.list missing")
	}

	var out []model.Instrument
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		symbol := item.Get("symbol").String()
		if symbol == "" || !strings.HasSuffix(symbol, f.QuoteCoin) {
			return true
		}
		turnover := decimal.Zero
		if raw := item.Get("turnover24h").String(); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				parseErr = fmt.Errorf("ticker %s turnover24h %q: %w", symbol, raw, err)
				return false
			}
			turnover = d
		}
		out = append(out, model.Instrument{Symbol: symbol, Turnover24h: turnover})
		return true
	})
	if parseErr != nil {
		return nil, fmt.Errorf("fetch tickers: %w", parseErr)
	}
	return out, nil
}

// klineResponse mirrors /v5/market/kline. Rows come newest first as
// [startTime, open, high, low, close, volume, turnover].
type klineResponse struct {
	Result struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	} `json:"result"`
}

// FetchDailyBars returns the most recent closed daily bars for symbol. The
// query ends just before the current UTC day so the forming bar is excluded.
func (f *BybitFetcher) FetchDailyBars(ctx context.Context, symbol string, limit int) ([]model.Candle, error) {
	y, m, d := f.Now().UTC().Date()
	todayOpen := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	q := url.Values{}
	q.Set("category", f.Category)
	q.Set("symbol", symbol)
	q.Set("interval", "D")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("end", strconv.FormatInt(todayOpen.UnixMilli()-1, 10))

	body, err := f.get(ctx, "/v5/market/kline", q)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}

	var resp klineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode bars %s: %w", symbol, err)
	}
	if len(resp.Result.List) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.Candle, 0, len(resp.Result.List))
	for i, row := range resp.Result.List {
		c, err := parseKlineRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode bars %s row %d: %w", symbol, i, err)
		}
		bars = append(bars, c)
	}
	return model.NewSeries(symbol, bars).Candles, nil
}

func parseKlineRow(row []string) (model.Candle, error) {
	if len(row) < 6 {
		return model.Candle{}, fmt.Errorf("want at least 6 fields, got %d", len(row))
	}
	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("timestamp %q: %w", row[0], err)
	}
	var vals [6]decimal.Decimal
	for i := 1; i < len(row) && i <= 6; i++ {
		v, err := decimal.NewFromString(row[i])
		if err != nil {
			return model.Candle{}, fmt.Errorf("field %d %q: %w", i, row[i], err)
		}
		vals[i-1] = v
	}
	c := model.Candle{
		Time:     time.UnixMilli(ms).UTC(),
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
		Turnover: vals[5],
	}
	if err := c.Validate(); err != nil {
		return model.Candle{}, err
	}
	return c, nil
}

// get performs a GET and returns the body once the HTTP status and Bybit
// retCode both indicate success.
func (f *BybitFetcher) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	endpoint := f.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed response: invalid json")
	}
	retCode := gjson.GetBytes(body, "retCode")
	if !retCode.Exists() {
		return nil, fmt.Errorf("malformed response: retCode missing")
	}
	if retCode.Int() != 0 {
		return nil, fmt.Errorf("bybit api error: retCode %d: %s", retCode.Int(), gjson.GetBytes(body, "retMsg").String())
	}
	return body, nil
}
