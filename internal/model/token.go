package model

// TokenMetadata captures launch token attributes. Immutable fields are
// cached permanently once resolved; balances are never stored here.
type TokenMetadata struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    uint8  `json:"decimals"`
	Owner       string `json:"owner"`
	TotalSupply string `json:"total_supply"`
}

// TokenRecord is one entry yielded by registry enumeration. Label carries
// the display fallback chain (name, then symbol, then address).
type TokenRecord struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Label   string `json:"label"`
}
