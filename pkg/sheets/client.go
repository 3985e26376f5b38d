package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sekolahku/rekod-api/pkg/config"
)

// Observer receives timing for every vendor call (wired to Prometheus).
type Observer func(op string, duration time.Duration, err error)

// Client talks to the hosted spreadsheet's values API. The vendor
// exposes read-all-values, append-row and overwrite-range operations
// addressed positionally; there is no schema enforcement on its side.
//
// Every cell travels as text. Responses are decoded with json.Number so
// a cell like "0012345" is never mangled through float64 on the way in.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	spreadsheetID string
	observer      Observer
}

// Option customises the client.
type Option func(*Client)

// WithObserver wires call timing into a metrics sink.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client from configuration.
func NewClient(cfg config.SheetsConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("sheets base URL required")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		spreadsheetID: cfg.SpreadsheetID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type valueRange struct {
	Range  string          `json:"range,omitempty"`
	Values [][]interface{} `json:"values"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Ping verifies the credential and document are reachable. A failure
// here is fatal for the whole session.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=spreadsheetId", c.baseURL, url.PathEscape(c.spreadsheetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	err = c.do(req, nil)
	c.observe("ping", start, err)
	return err
}

// Values reads a range from one worksheet and returns it as text rows.
// Trailing empty cells may be absent from each row; callers zip rows to
// their schema positionally.
func (c *Client) Values(ctx context.Context, sheet, rng string) ([][]string, error) {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", c.baseURL, url.PathEscape(c.spreadsheetID), encodeRange(sheet, rng))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var vr valueRange
	err = c.do(req, &vr)
	c.observe("values", start, err)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(vr.Values))
	for _, raw := range vr.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, cellString(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds rows after the last non-empty row of the worksheet in a
// single call. valueInputOption=RAW keeps digit strings as literal
// text; the vendor must not reinterpret "0012345" as a number.
func (c *Client) Append(ctx context.Context, sheet string, rows [][]string) error {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, url.PathEscape(c.spreadsheetID), encodeRange(sheet, ""))
	err := c.write(ctx, http.MethodPost, endpoint, rows)
	c.observe("append", start, err)
	return err
}

// Update overwrites exactly the given range with the provided rows.
func (c *Client) Update(ctx context.Context, sheet, rng string, rows [][]string) error {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.baseURL, url.PathEscape(c.spreadsheetID), encodeRange(sheet, rng))
	err := c.write(ctx, http.MethodPut, endpoint, rows)
	c.observe("update", start, err)
	return err
}

func (c *Client) write(ctx context.Context, method, endpoint string, rows [][]string) error {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}
	payload, err := json.Marshal(valueRange{Values: values})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiErrorBody
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("sheets api %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("sheets api %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode sheets response: %w", err)
	}
	return nil
}

func (c *Client) observe(op string, start time.Time, err error) {
	if c.observer != nil {
		c.observer(op, time.Since(start), err)
	}
}

// cellString renders a decoded cell as its literal text. json.Number
// keeps the raw digits, so numeric-looking keys survive untouched.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func encodeRange(sheet, rng string) string {
	full := sheet
	if rng != "" {
		full = sheet + "!" + rng
	}
	return url.PathEscape(full)
}
