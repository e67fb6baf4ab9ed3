package analysis

import (
	"fmt"
	"math"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// Non-essential categories eligible for savings recommendations.
var nonEssentialCategories = map[string]bool{
	"Dining":        true,
	"Entertainment": true,
	"Shopping":      true,
	"Travel":        true,
}

// Spend above this per category triggers a recommendation.
const savingsThreshold = 50.0

// Fraction of category spend the plan suggests cutting.
const savingsRate = 0.15

// ExpenditureReport is the descriptive spend analysis for one ledger.
// Error is a user-facing marker set when the ledger lacks the required
// columns; the rest of the report is then zeroed rather than the request
// failing.
type ExpenditureReport struct {
	Error           string             `json:"error,omitempty"`
	TotalSpend      float64            `json:"total_spend"`
	SpendByCategory map[string]float64 `json:"spend_by_category"`
	SavingsPlan     map[string]string  `json:"savings_plan"`
}

// Aggregate computes total spend, spend grouped by category and a
// rule-based savings plan. An unparseable Amount cell aborts with a
// MalformedRowError per the no-partial-results policy.
func Aggregate(l *ledger.Ledger) (*ExpenditureReport, error) {
	report := &ExpenditureReport{
		SpendByCategory: map[string]float64{},
		SavingsPlan:     map[string]string{},
	}

	if !l.HasColumn(ledger.ColumnCategory) || !l.HasColumn(ledger.ColumnAmount) {
		report.Error = "CSV must contain 'Category' and 'Amount' columns for analysis."
		return report, nil
	}

	var total float64
	byCategory := map[string]float64{}
	for i := range l.Rows {
		amount, err := l.Float(i, ledger.ColumnAmount)
		if err != nil {
			return nil, err
		}
		total += amount
		byCategory[l.Category(i)] += amount
	}

	report.TotalSpend = round2(total)
	for cat, sum := range byCategory {
		report.SpendByCategory[cat] = round2(sum)
	}

	for cat, sum := range report.SpendByCategory {
		if nonEssentialCategories[cat] && sum > savingsThreshold {
			report.SavingsPlan[cat] = fmt.Sprintf(
				"You could save $%.2f/month by reducing spending on %s by 15%%.",
				sum*savingsRate, cat)
		}
	}

	return report, nil
}

// PotentialMonthlySavings sums the suggested 15% reductions across all
// categories that qualify for the plan.
func PotentialMonthlySavings(report *ExpenditureReport) float64 {
	var total float64
	for cat, sum := range report.SpendByCategory {
		if nonEssentialCategories[cat] && sum > savingsThreshold {
			total += sum * savingsRate
		}
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
