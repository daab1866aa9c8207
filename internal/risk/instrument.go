package risk

import (
	"strings"
	"sync"
)

// Class is an instrument's asset class.
type Class string

const (
	ClassFX     Class = "fx"
	ClassFXJPY  Class = "fx_jpy"
	ClassMetal  Class = "metal"
	ClassCrypto Class = "crypto"
)

// Instrument carries pip size and price precision for one symbol.
type Instrument struct {
	Symbol    string  `yaml:"symbol" json:"symbol"`
	Class     Class   `yaml:"class" json:"class"`
	PipSize   float64 `yaml:"pip_size" json:"pip_size"`
	Precision int     `yaml:"precision" json:"precision"`
}

var classDefaults = map[Class]Instrument{
	ClassFX:     {Class: ClassFX, PipSize: 0.0001, Precision: 5},
	ClassFXJPY:  {Class: ClassFXJPY, PipSize: 0.01, Precision: 3},
	ClassMetal:  {Class: ClassMetal, PipSize: 0.1, Precision: 2},
	ClassCrypto: {Class: ClassCrypto, PipSize: 0.001, Precision: 5},
}

var cryptoAssets = map[string]bool{
	"USDT": true, "USDC": true, "BUSD": true, "BTC": true, "ETH": true, "SOL": true, "XRP": true,
	"BNB": true, "ADA": true, "DOGE": true, "LTC": true, "DOT": true, "AVAX": true,
}

// Quote assets peeled off unseparated symbols such as BTCUSDT. Longer
// suffixes come first so USDT wins over USD.
var quoteSuffixes = []string{"USDT", "USDC", "BUSD", "BTC", "ETH", "USD"}

// ClassDefaults returns the default pip size and precision for a class.
func ClassDefaults(c Class) (Instrument, bool) {
	inst, ok := classDefaults[c]
	return inst, ok
}

// Classify derives the instrument class from the symbol's asset codes.
// Codes are compared whole, so USDCAD is USD/CAD and not a USDC pair.
func Classify(symbol string) Instrument {
	class := ClassFX
	switch codes := splitSymbol(symbol); {
	case hasCode(codes, func(c string) bool { return c == "XAU" || c == "XAG" }):
		class = ClassMetal
	case hasCode(codes, func(c string) bool { return cryptoAssets[c] }):
		class = ClassCrypto
	case hasCode(codes, func(c string) bool { return c == "JPY" }):
		class = ClassFXJPY
	}
	inst := classDefaults[class]
	inst.Symbol = symbol
	return inst
}

// splitSymbol returns the base and quote codes of symbol. Separated symbols
// split on the separator; a bare six-letter symbol splits 3+3; otherwise a
// known quote suffix is peeled off. Anything else stays a single code.
func splitSymbol(symbol string) []string {
	codes := strings.FieldsFunc(strings.ToUpper(symbol), func(r rune) bool {
		return r == '/' || r == '-' || r == '_'
	})
	if len(codes) != 1 {
		return codes
	}
	s := codes[0]
	if len(s) == 6 && isLetters(s) {
		return []string{s[:3], s[3:]}
	}
	for _, q := range quoteSuffixes {
		if len(s) > len(q)+1 && strings.HasSuffix(s, q) {
			return []string{s[:len(s)-len(q)], q}
		}
	}
	return codes
}

func hasCode(codes []string, match func(string) bool) bool {
	for _, c := range codes {
		if match(c) {
			return true
		}
	}
	return false
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func normalize(symbol string) string {
	return strings.NewReplacer("/", "", "-", "", "_", "").Replace(strings.ToUpper(symbol))
}

// Registry resolves instruments, preferring configured overrides.
type Registry struct {
	mu        sync.RWMutex
	overrides map[string]Instrument
}

// NewRegistry creates a registry. Override entries with a class but no pip
// size or precision inherit the class defaults.
func NewRegistry(overrides map[string]Instrument) *Registry {
	r := &Registry{overrides: make(map[string]Instrument, len(overrides))}
	for sym, inst := range overrides {
		if inst.Class == "" {
			inst.Class = Classify(sym).Class
		}
		def := classDefaults[inst.Class]
		if inst.PipSize == 0 {
			inst.PipSize = def.PipSize
		}
		if inst.Precision == 0 {
			inst.Precision = def.Precision
		}
		inst.Symbol = sym
		r.overrides[normalize(sym)] = inst
	}
	return r
}

// Lookup returns the override for symbol or its classified defaults.
func (r *Registry) Lookup(symbol string) Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if inst, ok := r.overrides[normalize(symbol)]; ok {
		inst.Symbol = symbol
		return inst
	}
	return Classify(symbol)
}
