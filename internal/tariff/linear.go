package tariff

import (
	"context"
	"fmt"
	"time"
)

// Defaults of the linear tariff: 5.0 on entry plus 0.5 per second parked.
const (
	DefaultBaseFee = 5.0
	DefaultRate    = 0.5
	DefaultUnit    = time.Second
)

var _ Calculator = (*Linear)(nil)

// Linear charges visitors Base plus Rate for every Unit of stay, pro rata.
// Subscribers pay nothing.
type Linear struct {
	Base float64
	Rate float64
	Unit time.Duration
}

// NewLinear returns the default linear tariff.
func NewLinear() *Linear {
	return &Linear{Base: DefaultBaseFee, Rate: DefaultRate, Unit: DefaultUnit}
}

// Fee implements Calculator.
func (l *Linear) Fee(_ context.Context, stay Stay) (float64, error) {
	if stay.Subscriber {
		return 0, nil
	}

	unit := l.Unit
	if unit <= 0 {
		unit = DefaultUnit
	}
	elapsed := max(stay.Duration, 0)

	return checkFee(l.Base + l.Rate*(float64(elapsed)/float64(unit)))
}

func (l *Linear) String() string {
	return fmt.Sprintf("Linear(base=%.2f, rate=%.2f per %s)", l.Base, l.Rate, l.Unit)
}
