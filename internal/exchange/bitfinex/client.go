package bitfinex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/internal/infra"
	"github.com/acebytes/trader/pkg/quant"
)

// Client talks to the Bitfinex v1 REST API for order submission and
// wallet queries. Calls carry no client-side timeout: the engine's
// in-flight guards already ensure a hung call can never duplicate work.
type Client struct {
	baseURL string
	signer  *Signer
	http    *http.Client

	orderLimiter   *infra.RateLimiter
	accountLimiter *infra.RateLimiter
	breaker        *infra.CircuitBreaker

	nonce atomic.Int64
}

// NewClient creates a new Bitfinex REST client.
func NewClient(baseURL, key, secret string) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		signer:         NewSigner(key, secret),
		http:           &http.Client{},
		orderLimiter:   infra.GetBitfinexOrderLimiter(),
		accountLimiter: infra.GetBitfinexAccountLimiter(),
		breaker:        infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("bitfinex-rest")),
	}
	c.nonce.Store(time.Now().UnixMicro())
	return c
}

// Close wipes the API secrets.
func (c *Client) Close() error {
	c.signer.Wipe()
	return nil
}

// SubmitOrder places a v1 exchange-limit order.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.TradeOrder, error) {
	c.orderLimiter.Wait()
	if !c.breaker.Allow() {
		return domain.TradeOrder{}, fmt.Errorf("bitfinex: circuit open, order rejected")
	}

	body := map[string]any{
		"request":  "/v1/order/new",
		"nonce":    c.nextNonce(),
		"symbol":   req.Symbol,
		"amount":   req.QtySats.Decimal().String(),
		"price":    req.PriceMicros.Decimal().String(),
		"exchange": "bitfinex",
		"side":     string(req.Side),
		"type":     "exchange limit",
	}

	var resp orderResponse
	if err := c.post(ctx, "/v1/order/new", body, &resp); err != nil {
		c.breaker.RecordFailure()
		return domain.TradeOrder{}, fmt.Errorf("bitfinex: submit order: %w", err)
	}
	c.breaker.RecordSuccess()

	return resp.toTradeOrder(req.ClientID, quant.TimeStamp(time.Now().UnixMicro()))
}

// Balances queries the exchange wallet and returns available USD and BTC.
func (c *Client) Balances(ctx context.Context) (domain.Balances, error) {
	c.accountLimiter.Wait()
	if !c.breaker.Allow() {
		return domain.Balances{}, fmt.Errorf("bitfinex: circuit open, balance query rejected")
	}

	body := map[string]any{
		"request": "/v1/balances",
		"nonce":   c.nextNonce(),
	}

	var entries []balanceEntry
	if err := c.post(ctx, "/v1/balances", body, &entries); err != nil {
		c.breaker.RecordFailure()
		return domain.Balances{}, fmt.Errorf("bitfinex: balances: %w", err)
	}
	c.breaker.RecordSuccess()

	var out domain.Balances
	for _, e := range entries {
		if e.Type != "exchange" {
			continue
		}
		switch strings.ToLower(e.Currency) {
		case "usd":
			if v, err := quant.ParsePriceMicros(e.Available); err == nil {
				out.USDMicros = v
			}
		case "btc":
			if v, err := quant.ParseQtySats(e.Available); err == nil {
				out.BTCSats = v
			}
		}
	}
	return out, nil
}

func (c *Client) nextNonce() string {
	return strconv.FormatInt(c.nonce.Add(1), 10)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	for k, v := range c.signer.SignedHeaders(raw) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return json.Unmarshal(data, out)
}
