package amm

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind int

const (
	// KindValidation covers malformed input: zero or identical asset addresses,
	// expired deadlines, paths shorter than two hops, recipients that collide
	// with a traded asset, and reentrant entry into a guarded section.
	KindValidation Kind = iota + 1
	// KindLiquidity covers economically impossible requests: outputs at or
	// beyond a reserve, zero liquidity minted or burned, slippage violations.
	KindLiquidity
	// KindInvariant marks a failed constant-product check after a swap.
	KindInvariant
	// KindOverflow marks a reserve or balance exceeding its representable range.
	KindOverflow
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindLiquidity:
		return "liquidity"
	case KindInvariant:
		return "invariant"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Error is a structured rejection: a kind for programmatic handling plus a
// human-readable reason. Every domain failure carries one; bare errors are
// reserved for infrastructure faults.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches any *Error of the same kind, so callers can use
// errors.Is(err, amm.ErrLiquidity) without caring about the reason text.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && (other.Reason == "" || other.Reason == e.Reason)
}

// Kind sentinels for errors.Is matching.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrLiquidity  = &Error{Kind: KindLiquidity}
	ErrInvariant  = &Error{Kind: KindInvariant}
	ErrOverflow   = &Error{Kind: KindOverflow}
)

// ValidationErrorf builds a KindValidation rejection.
func ValidationErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

// LiquidityErrorf builds a KindLiquidity rejection.
func LiquidityErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindLiquidity, Reason: fmt.Sprintf(format, args...)}
}

// InvariantErrorf builds a KindInvariant rejection.
func InvariantErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Reason: fmt.Sprintf(format, args...)}
}

// OverflowErrorf builds a KindOverflow rejection.
func OverflowErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindOverflow, Reason: fmt.Sprintf(format, args...)}
}
