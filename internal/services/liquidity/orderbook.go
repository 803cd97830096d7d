package liquidity

import (
	"context"
	"time"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/adapters/ledger"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

const OrderbookProviderName = "orderbook"

const (
	orderbookVenue  = domain.ProtocolOrderbook
	bookFetchLimit  = 50
	defaultNotional = 1_000.0
)

// OrderbookProvider derives price, depth and slippage by walking the resting
// offers of an on-ledger orderbook for a target notional. The reader hands it
// the side a base-seller consumes, best bid first.
type OrderbookProvider struct {
	books  ledger.BookReader
	chains map[string]struct{}
}

func NewOrderbookProvider(books ledger.BookReader, chains []string) *OrderbookProvider {
	set := make(map[string]struct{}, len(chains))
	for _, c := range chains {
		set[c] = struct{}{}
	}
	if len(set) == 0 {
		set["XRPL"] = struct{}{}
	}
	return &OrderbookProvider{books: books, chains: set}
}

func (p *OrderbookProvider) Name() string {
	return OrderbookProviderName
}

func (p *OrderbookProvider) Supports(ctx context.Context, base, quote string, opts domain.OracleOptions) bool {
	if p.books == nil {
		return false
	}
	if opts.Chain == "" {
		return true
	}
	_, ok := p.chains[opts.Chain]
	return ok
}

func (p *OrderbookProvider) chain(opts domain.OracleOptions) string {
	if opts.Chain != "" {
		return opts.Chain
	}
	return "XRPL"
}

func notionalTarget(opts domain.OracleOptions) float64 {
	if opts.NotionalHint > 0 {
		return opts.NotionalHint
	}
	return defaultNotional
}

// walk consumes offers best-first until the target base amount is filled.
// Returns the volume-weighted price and whether the book covered the target.
func walk(offers []ledger.Offer, target float64) (vwap float64, filled bool) {
	var gotBase, paidQuote float64
	for _, o := range offers {
		take := o.BaseAmount
		remaining := target - gotBase
		if take > remaining {
			take = remaining
		}
		gotBase += take
		paidQuote += take * o.Price
		if gotBase >= target {
			break
		}
	}
	if gotBase <= 0 {
		return 0, false
	}
	return paidQuote / gotBase, gotBase >= target
}

// SpotPrice is the volume-weighted price of filling the target notional. A
// book too thin to cover the notional is no liquidity at that size: nil.
func (p *OrderbookProvider) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error) {
	offers, err := p.books.BookOffers(ctx, base, quote, bookFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}
	vwap, filled := walk(offers, notionalTarget(opts))
	if !filled {
		return nil, nil
	}
	return floatPtr(vwap), nil
}

// Depth aggregates the visible book into a snapshot. Reserves are the summed
// resting amounts, the spot price the best offer.
func (p *OrderbookProvider) Depth(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.PoolSnapshot, error) {
	offers, err := p.books.BookOffers(ctx, base, quote, bookFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}

	var sumBase, sumQuote float64
	for _, o := range offers {
		sumBase += o.BaseAmount
		sumQuote += o.QuoteAmount
	}

	return &domain.PoolSnapshot{
		Chain:        p.chain(opts),
		Base:         base,
		Quote:        quote,
		Venue:        orderbookVenue,
		BaseReserve:  sumBase,
		QuoteReserve: sumQuote,
		SpotPrice:    offers[0].Price,
		Source:       OrderbookProviderName,
		TakenAt:      time.Now(),
	}, nil
}

// SlippageCurve walks the book at multiples of the target notional and
// reports how far each fill's VWAP falls below the best bid. The book is
// the side a base-seller consumes, so deeper fills receive lower prices.
func (p *OrderbookProvider) SlippageCurve(ctx context.Context, base, quote string, opts domain.OracleOptions) (*domain.SlippageCurve, error) {
	offers, err := p.books.BookOffers(ctx, base, quote, bookFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}

	best := offers[0].Price
	amounts := opts.Amounts
	if len(amounts) == 0 {
		target := notionalTarget(opts)
		amounts = []float64{target * 0.25, target * 0.5, target, target * 2}
	}

	points := make([]domain.CurvePoint, 0, len(amounts))
	for _, a := range amounts {
		vwap, filled := walk(offers, a)
		pct := 1.0 // unfillable size: total slippage
		if filled && best > 0 {
			pct = (best - vwap) / best
			if pct < 0 {
				pct = 0
			}
		}
		points = append(points, domain.CurvePoint{Notional: a, Pct: pct})
	}

	return &domain.SlippageCurve{
		Chain:  p.chain(opts),
		Base:   base,
		Quote:  quote,
		Points: points,
		Source: OrderbookProviderName,
	}, nil
}
