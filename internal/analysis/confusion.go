package analysis

import (
	"context"
	"fmt"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// ConfusionMatrix is the 2x2 tally of ground-truth labels against model
// predictions for one uploaded ledger.
type ConfusionMatrix struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// InsufficientClassesError reports that the uploaded data did not exercise
// both classes, so a 2x2 matrix cannot be formed.
type InsufficientClassesError struct {
	Labels []int
}

func (e *InsufficientClassesError) Error() string {
	return fmt.Sprintf("confusion matrix requires both classes; data only contains %v", e.Labels)
}

// BuildConfusionMatrix classifies a ledger that carries ground-truth Class
// labels and tallies predictions against them. The union of actual and
// predicted labels must cover both 0 and 1, mirroring the shape check on
// the training-side matrix.
func (a *Analyzer) BuildConfusionMatrix(ctx context.Context, l *ledger.Ledger) (*ConfusionMatrix, error) {
	required := append([]string{}, ledger.ClassificationColumns...)
	required = append(required, ledger.ColumnClass)
	if err := ledger.Validate(l, required); err != nil {
		return nil, err
	}

	predicted, err := a.Classify(ctx, l)
	if err != nil {
		return nil, err
	}

	m := &ConfusionMatrix{}
	seen := map[int]bool{}
	for i, pred := range predicted {
		actualF, err := l.Float(i, ledger.ColumnClass)
		if err != nil {
			return nil, err
		}
		actual := 0
		if actualF != 0 {
			actual = 1
		}
		seen[actual] = true
		seen[pred] = true

		switch {
		case actual == 0 && pred == 0:
			m.TN++
		case actual == 0 && pred == 1:
			m.FP++
		case actual == 1 && pred == 0:
			m.FN++
		default:
			m.TP++
		}
	}

	if !seen[0] || !seen[1] {
		var labels []int
		for label := range seen {
			labels = append(labels, label)
		}
		return nil, &InsufficientClassesError{Labels: labels}
	}

	return m, nil
}
