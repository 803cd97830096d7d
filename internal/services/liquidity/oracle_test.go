package liquidity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/CryptoBaller808/dbx-backend-sub005/internal/common"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/config"
	"github.com/CryptoBaller808/dbx-backend-sub005/internal/domain"
)

// stubProvider is a scriptable provider for fallback-order tests.
type stubProvider struct {
	name        string
	unsupported bool
	spot        *float64
	err         error
	delay       time.Duration
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Supports(context.Context, string, string, domain.OracleOptions) bool {
	return !s.unsupported
}

func (s *stubProvider) SpotPrice(ctx context.Context, base, quote string, opts domain.OracleOptions) (*float64, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.spot, s.err
}

func (s *stubProvider) Depth(context.Context, string, string, domain.OracleOptions) (*domain.PoolSnapshot, error) {
	return nil, nil
}

func (s *stubProvider) SlippageCurve(context.Context, string, string, domain.OracleOptions) (*domain.SlippageCurve, error) {
	return nil, nil
}

func testOracle(mode domain.LiquidityMode, chainOrder map[string][]string, provs ...*stubProvider) *Oracle {
	o := &Oracle{
		providers:  make(map[string]Provider, len(provs)),
		chainOrder: chainOrder,
		mode:       mode,
		timeout:    100 * time.Millisecond,
		logger:     zerolog.Nop(),
	}
	for _, p := range provs {
		o.providers[p.name] = p
		o.defaultOrder = append(o.defaultOrder, p.name)
	}
	if o.chainOrder == nil {
		o.chainOrder = map[string][]string{}
	}
	return o
}

func TestOracleFallsBackInOrder(t *testing.T) {
	o := testOracle(domain.ModeLive, nil,
		&stubProvider{name: "a"}, // no data
		&stubProvider{name: "b", spot: floatPtr(0.52)},
		&stubProvider{name: "c", spot: floatPtr(0.99)},
	)

	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
	if !res.Resolved() {
		t.Fatalf("expected a resolved result: %+v", res)
	}
	if *res.Value != 0.52 {
		t.Errorf("got price %f from %s, want 0.52 from b", *res.Value, res.Provider)
	}
	if res.Provider != "b" {
		t.Errorf("answering provider %s, want b", res.Provider)
	}
	if len(res.Attempted) != 2 || res.Attempted[0] != "a" || res.Attempted[1] != "b" {
		t.Errorf("attempted %v, want [a b]", res.Attempted)
	}
}

func TestOracleSkipsTransportErrors(t *testing.T) {
	o := testOracle(domain.ModeLive, nil,
		&stubProvider{name: "a", err: errors.New("connection refused")},
		&stubProvider{name: "b", spot: floatPtr(1.0)},
	)

	res := o.SpotPrice(context.Background(), "USDT", "USDC", domain.OracleOptions{})
	if !res.Resolved() || res.Provider != "b" {
		t.Fatalf("error provider not skipped: %+v", res)
	}
}

func TestOracleTimeoutTreatedAsNull(t *testing.T) {
	o := testOracle(domain.ModeLive, nil,
		&stubProvider{name: "slow", spot: floatPtr(2.0), delay: time.Second},
		&stubProvider{name: "fast", spot: floatPtr(1.0)},
	)
	o.timeout = 10 * time.Millisecond

	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
	if !res.Resolved() || res.Provider != "fast" {
		t.Fatalf("slow provider not skipped on timeout: %+v", res)
	}
}

func TestOracleExhaustion(t *testing.T) {
	o := testOracle(domain.ModeLive, nil,
		&stubProvider{name: "a"},
		&stubProvider{name: "b", err: errors.New("down")},
	)

	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
	if res.Resolved() {
		t.Fatal("expected exhaustion")
	}
	if res.Err != common.CodeNoLiquidity {
		t.Errorf("error code %q, want %q", res.Err, common.CodeNoLiquidity)
	}
	if len(res.Attempted) != 2 {
		t.Errorf("attempted %v, want both providers", res.Attempted)
	}
}

func TestOracleUnsupportedProviderSkipped(t *testing.T) {
	o := testOracle(domain.ModeLive, nil,
		&stubProvider{name: "a", unsupported: true, spot: floatPtr(9.0)},
		&stubProvider{name: "b", spot: floatPtr(1.0)},
	)

	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
	if !res.Resolved() || res.Provider != "b" {
		t.Fatalf("unsupported provider not skipped: %+v", res)
	}
}

func TestApplyMode(t *testing.T) {
	order := []string{"orderbook", "feed", CatalogProviderName}

	t.Run("simulated keeps only the catalog", func(t *testing.T) {
		got := applyMode(order, domain.ModeSimulated)
		if len(got) != 1 || got[0] != CatalogProviderName {
			t.Errorf("got %v", got)
		}
	})

	t.Run("live drops the catalog", func(t *testing.T) {
		got := applyMode(order, domain.ModeLive)
		if len(got) != 2 || got[0] != "orderbook" || got[1] != "feed" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("auto appends the catalog last", func(t *testing.T) {
		got := applyMode([]string{"orderbook", "feed"}, domain.ModeAuto)
		if len(got) != 3 || got[2] != CatalogProviderName {
			t.Errorf("got %v", got)
		}
	})

	t.Run("auto keeps an existing catalog in place", func(t *testing.T) {
		got := applyMode(order, domain.ModeAuto)
		if len(got) != 3 {
			t.Errorf("got %v", got)
		}
	})
}

func TestResolveOrderPrecedence(t *testing.T) {
	o := testOracle(domain.ModeLive,
		map[string][]string{"XRPL": {"b", "a"}},
		&stubProvider{name: "a", spot: floatPtr(1.0)},
		&stubProvider{name: "b", spot: floatPtr(2.0)},
	)

	t.Run("chain override wins", func(t *testing.T) {
		res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{
			Chain:     "XRPL",
			Providers: []string{"a", "b"},
		})
		if res.Provider != "b" {
			t.Errorf("provider %s, want b (chain override first)", res.Provider)
		}
	})

	t.Run("explicit order beats default", func(t *testing.T) {
		res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{
			Providers: []string{"b", "a"},
		})
		if res.Provider != "b" {
			t.Errorf("provider %s, want b", res.Provider)
		}
	})

	t.Run("default order otherwise", func(t *testing.T) {
		res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{})
		if res.Provider != "a" {
			t.Errorf("provider %s, want a", res.Provider)
		}
	})
}

func TestOraclePerCallModeOverride(t *testing.T) {
	catalog := &stubProvider{name: CatalogProviderName, spot: floatPtr(0.5)}
	live := &stubProvider{name: "orderbook"}
	o := testOracle(domain.ModeAuto, nil, live, catalog)

	// live mode must not touch the catalog even though auto would
	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{Mode: domain.ModeLive})
	if res.Resolved() {
		t.Fatalf("live mode answered from the catalog: %+v", res)
	}
	if res.Mode != domain.ModeLive {
		t.Errorf("result mode %s, want live", res.Mode)
	}
}

func TestNewOracleBuildsFromRegistry(t *testing.T) {
	docs := config.NewStaticDocumentStore(config.DefaultDocuments())

	// no book reader or feed fetcher: those providers must be skipped
	o := NewOracle(docs, OracleDeps{QueryTimeout: time.Second})

	names := o.ProviderNames()
	if len(names) != 2 || names[0] != "anchor-meridian" || names[1] != CatalogProviderName {
		t.Fatalf("provider order %v, want [anchor-meridian catalog]", names)
	}

	// catalog answers the configured pool pair
	res := o.SpotPrice(context.Background(), "XRP", "USDT", domain.OracleOptions{Mode: domain.ModeSimulated})
	if !res.Resolved() {
		t.Fatalf("catalog did not answer: %+v", res)
	}
	if *res.Value != 0.52 {
		t.Errorf("XRP/USDT spot %f, want 0.52", *res.Value)
	}
}
