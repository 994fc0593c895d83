package token

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/httpjson"
)

// Client отправляет исходящие переводы в леджер нативного токена.
type Client struct {
	http *httpjson.Client
}

type transferRequest struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Quantity valueobject.Asset `json:"quantity"`
	Memo     string            `json:"memo"`
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{http: httpjson.New(baseURL, token, timeout)}
}

// Transfer идемпотентен по ID перевода: леджер не проводит один ID дважды.
func (c *Client) Transfer(ctx context.Context, transfer *entity.Transfer) error {
	req := transferRequest{
		From:     transfer.From,
		To:       transfer.To,
		Quantity: transfer.Quantity,
		Memo:     transfer.Memo,
	}
	headers := map[string]string{"Idempotency-Key": transfer.ID.String()}
	if err := c.http.Do(ctx, http.MethodPost, "/transfers", req, nil, headers); err != nil {
		return fmt.Errorf("token: перевод %s: %w", transfer.ID, err)
	}
	return nil
}
