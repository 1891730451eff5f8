package argdoc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Nargs describes how many command-line tokens an argument consumes: an
// exact count, or one of the symbolic forms. The zero value is invalid;
// use the package constructors.
type Nargs struct {
	count  int
	symbol string
}

// Symbolic nargs forms. NargsRemainder captures every remaining token.
var (
	NargsOptional   = Nargs{symbol: "?"}
	NargsZeroOrMore = Nargs{symbol: "*"}
	NargsOneOrMore  = Nargs{symbol: "+"}
	NargsRemainder  = Nargs{symbol: "..."}
)

// NargsExactly returns an Nargs consuming exactly n tokens.
func NargsExactly(n int) Nargs {
	return Nargs{count: n}
}

// Count returns the exact token count and true when the Nargs is numeric.
func (n Nargs) Count() (int, bool) {
	if n.symbol != "" {
		return 0, false
	}
	return n.count, true
}

// Symbol returns the symbolic form, or "" for numeric Nargs.
func (n Nargs) Symbol() string {
	return n.symbol
}

func (n Nargs) String() string {
	if n.symbol != "" {
		return n.symbol
	}
	return strconv.Itoa(n.count)
}

// MarshalJSON encodes numeric Nargs as an integer and symbolic forms as
// their string token.
func (n Nargs) MarshalJSON() ([]byte, error) {
	if n.symbol != "" {
		return json.Marshal(n.symbol)
	}
	return json.Marshal(n.count)
}

// UnmarshalJSON accepts an integer or one of "?", "*", "+", "...".
func (n *Nargs) UnmarshalJSON(data []byte) error {
	var symbol string
	if err := json.Unmarshal(data, &symbol); err == nil {
		switch symbol {
		case "?", "*", "+", "...":
			*n = Nargs{symbol: symbol}
			return nil
		default:
			return fmt.Errorf("argdoc: invalid nargs symbol %q", symbol)
		}
	}
	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return fmt.Errorf("argdoc: nargs must be an integer or symbol: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("argdoc: nargs count must not be negative, got %d", count)
	}
	*n = Nargs{count: count}
	return nil
}
