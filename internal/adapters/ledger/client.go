// Package ledger is the boundary to on-ledger orderbooks. The engine only
// depends on BookReader; the JSON-RPC client below is the production
// implementation for XRPL-style ledgers.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Offer is one resting offer, normalized to display units with price quoted
// as quote-per-base.
type Offer struct {
	Price       float64
	BaseAmount  float64
	QuoteAmount float64
}

// BookReader reads the resting offers for a pair, best price first.
type BookReader interface {
	BookOffers(ctx context.Context, base, quote string, limit int) ([]Offer, error)
}

const (
	dropsPerXRP  = 1_000_000
	defaultLimit = 50
)

// RPCClient reads orderbooks over the rippled JSON-RPC book_offers method.
type RPCClient struct {
	httpClient *http.Client
	url        string

	// issuers maps issued-currency symbols to their issuing account.
	// XRP needs no issuer.
	issuers map[string]string
}

func NewRPCClient(url string, timeout time.Duration, issuers map[string]string) *RPCClient {
	if issuers == nil {
		issuers = map[string]string{}
	}
	return &RPCClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		issuers:    issuers,
	}
}

type currencySpec struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
}

type bookOffersParams struct {
	TakerGets currencySpec `json:"taker_gets"`
	TakerPays currencySpec `json:"taker_pays"`
	Limit     int          `json:"limit"`
}

type bookOffersRequest struct {
	Method string             `json:"method"`
	Params []bookOffersParams `json:"params"`
}

type rawOffer struct {
	// Native XRP amounts arrive as drop strings; issued currencies as
	// {currency, issuer, value} objects. Decode lazily.
	TakerGets json.RawMessage `json:"TakerGets"`
	TakerPays json.RawMessage `json:"TakerPays"`
}

type bookOffersResponse struct {
	Result struct {
		Offers []rawOffer `json:"offers"`
		Status string     `json:"status"`
		Error  string     `json:"error,omitempty"`
	} `json:"result"`
}

func (c *RPCClient) spec(token string) currencySpec {
	if token == "XRP" {
		return currencySpec{Currency: "XRP"}
	}
	return currencySpec{Currency: token, Issuer: c.issuers[token]}
}

// BookOffers fetches the book a seller of base consumes: offers whose taker
// receives quote and pays base. The ledger orders them best for the taker
// first, so prices descend from the best bid.
func (c *RPCClient) BookOffers(ctx context.Context, base, quote string, limit int) ([]Offer, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	reqBody := bookOffersRequest{
		Method: "book_offers",
		Params: []bookOffersParams{{
			TakerGets: c.spec(quote),
			TakerPays: c.spec(base),
			Limit:     limit,
		}},
	}
	payload, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal book_offers request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("book_offers call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read book_offers response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book_offers status %d", resp.StatusCode)
	}

	var parsed bookOffersResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode book_offers response: %w", err)
	}
	if parsed.Result.Error != "" {
		return nil, fmt.Errorf("book_offers: %s", parsed.Result.Error)
	}

	offers := make([]Offer, 0, len(parsed.Result.Offers))
	for _, raw := range parsed.Result.Offers {
		quoteAmt, err := decodeAmount(raw.TakerGets)
		if err != nil {
			continue
		}
		baseAmt, err := decodeAmount(raw.TakerPays)
		if err != nil {
			continue
		}
		if baseAmt <= 0 || quoteAmt <= 0 {
			continue
		}
		offers = append(offers, Offer{
			Price:       quoteAmt / baseAmt,
			BaseAmount:  baseAmt,
			QuoteAmount: quoteAmt,
		})
	}
	return offers, nil
}

type issuedAmount struct {
	Value string `json:"value"`
}

func decodeAmount(raw []byte) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("empty amount")
	}
	if raw[0] == '"' {
		// native amount in drops
		var drops string
		if err := sonic.Unmarshal(raw, &drops); err != nil {
			return 0, err
		}
		n, err := strconv.ParseFloat(drops, 64)
		if err != nil {
			return 0, err
		}
		return n / dropsPerXRP, nil
	}
	var amt issuedAmount
	if err := sonic.Unmarshal(raw, &amt); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(amt.Value, 64)
}
