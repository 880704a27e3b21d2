package model

// Event payloads emitted by pools. Field order is wire-stable for downstream
// indexers; amounts are decimal strings so precision survives JSON.

// MintEventData is the payload of a liquidity deposit.
type MintEventData struct {
	Sender  string `json:"sender"`
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// BurnEventData is the payload of a liquidity withdrawal.
type BurnEventData struct {
	Sender  string `json:"sender"`
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
	To      string `json:"to"`
}

// SwapEventData is the payload of a settled swap.
type SwapEventData struct {
	Sender     string `json:"sender"`
	AmountAIn  string `json:"amount_a_in"`
	AmountBIn  string `json:"amount_b_in"`
	AmountAOut string `json:"amount_a_out"`
	AmountBOut string `json:"amount_b_out"`
	To         string `json:"to"`
}

// SyncEventData is the payload of a reserve update.
type SyncEventData struct {
	ReserveA string `json:"reserve_a"`
	ReserveB string `json:"reserve_b"`
}

// Event names as they appear in EventRecord.Name.
const (
	EventMint = "Mint"
	EventBurn = "Burn"
	EventSwap = "Swap"
	EventSync = "Sync"
)
