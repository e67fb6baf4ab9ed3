package assistant

import "fmt"

// QueryType enumerates the structured questions the executor knows how to
// answer.
type QueryType string

const (
	QuerySpendingComparison QueryType = "spending_comparison"
	QueryTotalSpending      QueryType = "total_spending"
	QueryCategorySpending   QueryType = "category_spending"
	QueryAnomalyCount       QueryType = "anomaly_count"
	QuerySavingsAnalysis    QueryType = "savings_analysis"
)

// TimePeriod is the coarse, non-calendar window selector.
type TimePeriod string

const (
	PeriodThisMonth TimePeriod = "this_month"
	PeriodLastMonth TimePeriod = "last_month"
	PeriodAllTime   TimePeriod = "all_time"
)

// Comparison is the only supported comparison mode.
type Comparison string

const ComparisonMonthOverMonth Comparison = "month_over_month"

// QueryIntent is the structured representation of one natural-language
// question. Produced by the interpreter, consumed once by the executor,
// then discarded.
type QueryIntent struct {
	QueryType  QueryType  `json:"query_type"`
	Category   string     `json:"category,omitempty"`
	TimePeriod TimePeriod `json:"time_period,omitempty"`
	Comparison Comparison `json:"comparison,omitempty"`
}

func (q *QueryIntent) validate() error {
	switch q.QueryType {
	case QuerySpendingComparison, QueryTotalSpending, QueryCategorySpending,
		QueryAnomalyCount, QuerySavingsAnalysis:
	default:
		return fmt.Errorf("unknown query_type %q", q.QueryType)
	}

	switch q.TimePeriod {
	case "", PeriodThisMonth, PeriodLastMonth, PeriodAllTime:
	default:
		return fmt.Errorf("unknown time_period %q", q.TimePeriod)
	}

	switch q.Comparison {
	case "", ComparisonMonthOverMonth:
	default:
		return fmt.Errorf("unknown comparison %q", q.Comparison)
	}

	return nil
}
