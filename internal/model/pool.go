package model

// Pool is a pool metadata record for storage.
type Pool struct {
	Address string `json:"address"`
	TokenA  string `json:"token_a"`
	TokenB  string `json:"token_b"`
	FeeBps  uint64 `json:"fee_bps"`
	Created int64  `json:"created"`
}
