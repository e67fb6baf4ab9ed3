package assistant

import (
	"fmt"
	"math"
	"strings"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// Fixed, non-calendar-aware windows over the Time counter: "this month" is
// Time <= 30, "last month" is 30 < Time <= 60. The windows are disjoint and
// fixed-width; everything past Time = 60 falls in neither.
const (
	thisMonthEnd = 30.0
	lastMonthEnd = 60.0
)

// FallbackResponse is returned for any intent combination the executor does
// not recognize. It never raises.
const FallbackResponse = "I'm sorry, I couldn't understand that question. " +
	"Try asking about total spending, spending in a category, month-over-month comparisons, or anomalies."

// QueryResult pairs a human-readable sentence with a structured numeric
// payload. Data is one of the per-query-type variants below, keeping the
// executor's contract a small closed set rather than an open map.
type QueryResult struct {
	Response string `json:"response"`
	Data     any    `json:"data"`
}

// ComparisonData is the payload for spending_comparison.
type ComparisonData struct {
	Category  string  `json:"category"`
	ThisMonth float64 `json:"this_month"`
	LastMonth float64 `json:"last_month"`
}

// TotalSpendingData is the payload for total_spending.
type TotalSpendingData struct {
	Total float64 `json:"total"`
}

// CategorySpendingData is the payload for category_spending.
type CategorySpendingData struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// AnomalyCountData is the payload for anomaly_count.
type AnomalyCountData struct {
	Count int `json:"count"`
}

// SavingsAnalysisData is the payload for savings_analysis.
type SavingsAnalysisData struct {
	PotentialMonthlySavings float64           `json:"potential_monthly_savings"`
	Plan                    map[string]string `json:"plan"`
}

// SavingsPlanner lets the executor reuse the expenditure aggregator for
// savings_analysis without importing it directly.
type SavingsPlanner func(l *ledger.Ledger) (potentialMonthly float64, plan map[string]string, err error)

// Executor evaluates structured intents against a ledger.
type Executor struct {
	planner SavingsPlanner
}

func NewExecutor(planner SavingsPlanner) *Executor {
	return &Executor{planner: planner}
}

// Execute answers one intent. Unrecognized combinations produce the fixed
// fallback sentence; rows with missing categories or unparseable numbers
// are treated as non-matching, never as failures.
func (e *Executor) Execute(intent *QueryIntent, l *ledger.Ledger) *QueryResult {
	switch intent.QueryType {
	case QuerySpendingComparison:
		if intent.Comparison == ComparisonMonthOverMonth && intent.Category != "" {
			return e.compareMonths(intent.Category, l)
		}
	case QueryTotalSpending:
		return e.totalSpending(l)
	case QueryCategorySpending:
		if intent.Category != "" {
			return e.categorySpending(intent.Category, l)
		}
	case QueryAnomalyCount:
		return e.anomalyCount(l)
	case QuerySavingsAnalysis:
		return e.savingsAnalysis(l)
	}

	return &QueryResult{Response: FallbackResponse, Data: nil}
}

func (e *Executor) compareMonths(category string, l *ledger.Ledger) *QueryResult {
	var thisMonth, lastMonth float64
	for i := range l.Rows {
		if !categoryMatches(l.Category(i), category) {
			continue
		}
		amount, err := l.Float(i, ledger.ColumnAmount)
		if err != nil {
			continue
		}
		t, err := l.Float(i, ledger.ColumnTime)
		if err != nil {
			continue
		}
		switch {
		case t <= thisMonthEnd:
			thisMonth += amount
		case t <= lastMonthEnd:
			lastMonth += amount
		}
	}

	response := fmt.Sprintf(
		"You spent $%.2f on %s this month, compared to $%.2f last month.",
		thisMonth, category, lastMonth)
	switch {
	case thisMonth > lastMonth:
		response += fmt.Sprintf(" That's $%.2f more than last month.", thisMonth-lastMonth)
	case thisMonth < lastMonth:
		response += fmt.Sprintf(" That's $%.2f less than last month.", lastMonth-thisMonth)
	}

	return &QueryResult{
		Response: response,
		Data: ComparisonData{
			Category:  category,
			ThisMonth: round2(thisMonth),
			LastMonth: round2(lastMonth),
		},
	}
}

func (e *Executor) totalSpending(l *ledger.Ledger) *QueryResult {
	var total float64
	for i := range l.Rows {
		amount, err := l.Float(i, ledger.ColumnAmount)
		if err != nil {
			continue
		}
		total += amount
	}

	return &QueryResult{
		Response: fmt.Sprintf("Your total spending is $%.2f across %d transactions.", total, len(l.Rows)),
		Data:     TotalSpendingData{Total: round2(total)},
	}
}

func (e *Executor) categorySpending(category string, l *ledger.Ledger) *QueryResult {
	var total float64
	var matched int
	for i := range l.Rows {
		if !categoryMatches(l.Category(i), category) {
			continue
		}
		amount, err := l.Float(i, ledger.ColumnAmount)
		if err != nil {
			continue
		}
		total += amount
		matched++
	}

	return &QueryResult{
		Response: fmt.Sprintf("You spent $%.2f on %s across %d transactions.", total, category, matched),
		Data:     CategorySpendingData{Category: category, Total: round2(total)},
	}
}

func (e *Executor) anomalyCount(l *ledger.Ledger) *QueryResult {
	count := 0
	if l.HasColumn(ledger.ColumnAnomaly) {
		for i := range l.Rows {
			if strings.TrimSpace(l.Rows[i][ledger.ColumnAnomaly]) == "1" {
				count++
			}
		}
	}

	return &QueryResult{
		Response: fmt.Sprintf("You have %d anomalous transactions flagged in your ledger.", count),
		Data:     AnomalyCountData{Count: count},
	}
}

func (e *Executor) savingsAnalysis(l *ledger.Ledger) *QueryResult {
	if e.planner == nil {
		return &QueryResult{Response: FallbackResponse, Data: nil}
	}

	potential, plan, err := e.planner(l)
	if err != nil {
		return &QueryResult{Response: FallbackResponse, Data: nil}
	}

	response := fmt.Sprintf("You could save about $%.2f/month by trimming non-essential spending.", potential)
	if len(plan) == 0 {
		response = "No category currently exceeds the savings threshold, so there is nothing obvious to trim."
	}

	return &QueryResult{
		Response: response,
		Data:     SavingsAnalysisData{PotentialMonthlySavings: potential, Plan: plan},
	}
}

// categoryMatches is the substring, case-insensitive filter. An empty cell
// never matches.
func categoryMatches(cell, wanted string) bool {
	if cell == "" {
		return false
	}
	return strings.Contains(strings.ToLower(cell), strings.ToLower(wanted))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
