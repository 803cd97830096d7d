package config

// DefaultDocuments returns the built-in simulation documents used when no
// document files are configured. The figures are the hand-tuned values the
// platform has always shipped with; change them only with market evidence.
func DefaultDocuments() *Documents {
	return &Documents{
		Providers: &ProviderRegistry{
			DefaultMode: "auto",
			Providers: []ProviderEntry{
				{Name: "orderbook", Enabled: true, Priority: 10, Chains: []string{"XRPL"}},
				{Name: "feed", Enabled: true, Priority: 20},
				{Name: "anchor-meridian", Enabled: true, Priority: 30, FeeBps: 8, Tier: "institutional",
					Tokens: []string{"XRP", "USDT", "USDC"}},
				{Name: "catalog", Enabled: true, Priority: 100},
			},
			ChainPriority: map[string][]string{
				"XRPL": {"orderbook", "feed", "anchor-meridian", "catalog"},
			},
		},
		Catalog: &Catalog{
			Prices: map[string]float64{
				"XRP":   0.52,
				"ETH":   1650.0,
				"BNB":   310.0,
				"MATIC": 0.85,
				"USDT":  1.0,
				"USDC":  1.0,
			},
			Tokens: map[string]TokenInfo{
				"XRP":   {Chain: "XRPL", Popularity: "major"},
				"ETH":   {Chain: "ETH", Popularity: "major"},
				"BNB":   {Chain: "BSC", Popularity: "major"},
				"MATIC": {Chain: "POLYGON", Popularity: "mid"},
				"USDT":  {Chain: "XRPL", Popularity: "major"},
				"USDC":  {Chain: "ETH", Popularity: "major"},
			},
			Pools: map[string][]PoolEntry{
				"XRPL": {
					{Base: "XRP", Quote: "USDT", BaseReserve: 1_000_000, QuoteReserve: 520_000, FeeRate: 0.003},
					{Base: "XRP", Quote: "USDC", BaseReserve: 400_000, QuoteReserve: 208_000, FeeRate: 0.003},
				},
				"ETH": {
					{Base: "ETH", Quote: "USDT", BaseReserve: 5_000, QuoteReserve: 8_250_000, FeeRate: 0.003},
					{Base: "ETH", Quote: "USDC", BaseReserve: 3_000, QuoteReserve: 4_950_000, FeeRate: 0.003},
				},
				"BSC": {
					{Base: "BNB", Quote: "USDT", BaseReserve: 20_000, QuoteReserve: 6_200_000, FeeRate: 0.0025},
				},
				"POLYGON": {
					{Base: "MATIC", Quote: "USDT", BaseReserve: 2_000_000, QuoteReserve: 1_700_000, FeeRate: 0.003},
				},
			},
			Bridges: []BridgeEntry{
				{Token: "USDT", From: "XRPL", To: "ETH", FixedFeeUSD: 2.0, Pct: 0.001},
				{Token: "USDT", From: "ETH", To: "XRPL", FixedFeeUSD: 2.0, Pct: 0.001},
				{Token: "USDT", From: "ETH", To: "BSC", FixedFeeUSD: 1.0, Pct: 0.0005},
				{Token: "USDT", From: "BSC", To: "ETH", FixedFeeUSD: 1.0, Pct: 0.0005},
				{Token: "USDC", From: "XRPL", To: "ETH", FixedFeeUSD: 2.0, Pct: 0.001},
				{Token: "USDC", From: "ETH", To: "XRPL", FixedFeeUSD: 2.0, Pct: 0.001},
				{Token: "USDT", From: "XRPL", To: "SOLANA", FixedFeeUSD: 1.5, Pct: 0.001, Stub: true},
			},
			SyntheticPairs: []SyntheticPair{
				{Base: "XRP", Quote: "ETH", Via: "USDT"},
				{Base: "XRP", Quote: "BNB", Via: "USDT"},
				{Base: "ETH", Quote: "BNB", Via: "USDT"},
			},
		},
		Tokens: &TokenMap{
			FeedIDs: map[string]string{
				"XRP":   "ripple",
				"ETH":   "ethereum",
				"BNB":   "binancecoin",
				"MATIC": "matic-network",
				"USDT":  "tether",
				"USDC":  "usd-coin",
			},
			Networks: map[string]string{
				"XRPL":    "xrp-ledger",
				"ETH":     "ethereum",
				"BSC":     "binance-smart-chain",
				"POLYGON": "polygon-pos",
			},
		},
	}
}
