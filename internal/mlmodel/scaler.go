package mlmodel

import "fmt"

// ScalerParams is one fitted 1-D affine transform: x -> (x - mean) / std.
type ScalerParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Transform applies the frozen standardization to a single value.
func (p ScalerParams) Transform(x float64) float64 {
	return (x - p.Mean) / p.Std
}

// Scaler holds the two parameter pairs fitted independently at training
// time. Each pair is applied to its matching column only; the pairs are
// never interchangeable even though they came from the same fitting routine.
type Scaler struct {
	Amount ScalerParams `json:"amount"`
	Time   ScalerParams `json:"time"`
}

func (s *Scaler) validate() error {
	if s.Amount.Std == 0 {
		return fmt.Errorf("amount scaler has zero standard deviation")
	}
	if s.Time.Std == 0 {
		return fmt.Errorf("time scaler has zero standard deviation")
	}
	return nil
}
