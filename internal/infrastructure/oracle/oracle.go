package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/httpjson"
)

// Client запрашивает медиану TLOS/USD у внешнего оракула.
type Client struct {
	http *httpjson.Client
	pair string
}

type medianResponse struct {
	Pair   string `json:"pair"`
	Median uint64 `json:"median"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpjson.New(baseURL, "", timeout), pair: "tlosusd"}
}

func (c *Client) TLOSUSDMedian(ctx context.Context) (uint64, error) {
	var resp medianResponse
	if err := c.http.Do(ctx, http.MethodGet, "/median?pair="+c.pair, nil, &resp, nil); err != nil {
		return 0, fmt.Errorf("oracle: %w", err)
	}
	if resp.Median == 0 {
		return 0, fmt.Errorf("oracle: нулевая медиана для %s", c.pair)
	}
	return resp.Median, nil
}

// Fixed всегда возвращает одну и ту же медиану.
type Fixed uint64

func (f Fixed) TLOSUSDMedian(context.Context) (uint64, error) {
	if f == 0 {
		return 0, fmt.Errorf("oracle: медиана не задана")
	}
	return uint64(f), nil
}
