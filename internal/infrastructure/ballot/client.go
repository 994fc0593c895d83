package ballot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/httpjson"
)

// Client работает с внешним сервисом голосования по HTTP.
type Client struct {
	http    *httpjson.Client
	account string
}

type feeResponse struct {
	Fee valueobject.Asset `json:"fee"`
}

type closeResponse struct {
	Tallies []entity.Tally `json:"tallies"`
}

func NewClient(baseURL, account, token string, timeout time.Duration) *Client {
	return &Client{http: httpjson.New(baseURL, token, timeout), account: account}
}

func (c *Client) Account() string {
	return c.account
}

func (c *Client) Fee(ctx context.Context) (valueobject.Asset, error) {
	var resp feeResponse
	if err := c.http.Do(ctx, http.MethodGet, "/fee", nil, &resp, nil); err != nil {
		return valueobject.Asset{}, fmt.Errorf("ballot: %w", err)
	}
	return resp.Fee, nil
}

func (c *Client) CreateBallot(ctx context.Context, req entity.BallotRequest) error {
	if err := c.http.Do(ctx, http.MethodPost, "/ballots", req, nil, nil); err != nil {
		return fmt.Errorf("ballot: создание %s: %w", req.Name, err)
	}
	return nil
}

func (c *Client) CloseBallot(ctx context.Context, name string) ([]entity.Tally, error) {
	var resp closeResponse
	if err := c.http.Do(ctx, http.MethodPost, "/ballots/"+url.PathEscape(name)+"/close", nil, &resp, nil); err != nil {
		return nil, fmt.Errorf("ballot: закрытие %s: %w", name, err)
	}
	return resp.Tallies, nil
}
