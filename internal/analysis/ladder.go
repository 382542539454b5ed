package analysis

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// rung is one guard of a ladder: when the input matches limit, value is chosen
type rung[T any] struct {
	limit float64
	value T
}

// ladder is an ordered threshold table. Rungs are evaluated in sequence and
// the first match wins; otherwise is used when nothing matches.
type ladder[T any] struct {
	match     func(x, limit float64) bool
	rungs     []rung[T]
	otherwise T
}

func atMost(x, limit float64) bool { return x <= limit }

func above(x, limit float64) bool { return x > limit }

func (l ladder[T]) pick(x float64) T {
	for _, r := range l.rungs {
		if l.match(x, r.limit) {
			return r.value
		}
	}
	return l.otherwise
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// roundHundred rounds to the nearest hundred dollars
func roundHundred(x float64) float64 {
	return math.Round(x/100) * 100
}

func percent(fraction float64) int {
	return int(math.Round(fraction * 100))
}

// formatter renders dollar amounts with thousands separators for narrative text
type formatter struct {
	p *message.Printer
}

func newFormatter() formatter {
	return formatter{p: message.NewPrinter(language.English)}
}

func (f formatter) money(amount float64) string {
	return f.p.Sprintf("$%.0f", amount)
}
