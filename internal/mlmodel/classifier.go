package mlmodel

import (
	"fmt"
	"math"
)

// Classifier is a pre-fitted logistic-regression binary classifier. The
// artifact records the canonical feature order alongside the weights so
// that feature vectors are always assembled by name, never by position.
// The struct is read-only after load and safe for concurrent Predict calls.
type Classifier struct {
	ModelType    string    `json:"model_type"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (c *Classifier) validate() error {
	if len(c.FeatureNames) == 0 {
		return fmt.Errorf("model artifact declares no feature names")
	}
	if len(c.Coefficients) != len(c.FeatureNames) {
		return fmt.Errorf("model artifact has %d coefficients for %d features",
			len(c.Coefficients), len(c.FeatureNames))
	}
	return nil
}

// Predict returns one {0,1} label per input row, in input order. Rows
// labeled 1 are anomalies.
func (c *Classifier) Predict(matrix [][]float64) ([]int, error) {
	labels := make([]int, len(matrix))
	for i, vector := range matrix {
		if len(vector) != len(c.Coefficients) {
			return nil, fmt.Errorf("row %d: feature vector has %d values, model expects %d",
				i, len(vector), len(c.Coefficients))
		}
		z := c.Intercept
		for j, x := range vector {
			z += c.Coefficients[j] * x
		}
		if sigmoid(z) >= 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
