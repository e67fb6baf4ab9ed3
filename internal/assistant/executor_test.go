package assistant

import (
	"strings"
	"testing"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

func queryLedger(rows ...ledger.Row) *ledger.Ledger {
	return &ledger.Ledger{
		Columns: []string{"Category", "Amount", "Time", "is_anomaly"},
		Rows:    rows,
	}
}

func TestExecute_SpendingComparisonWindows(t *testing.T) {
	l := queryLedger(
		ledger.Row{"Category": "Dining", "Amount": "10", "Time": "30"},  // this month boundary
		ledger.Row{"Category": "Dining", "Amount": "20", "Time": "31"},  // last month start
		ledger.Row{"Category": "Dining", "Amount": "40", "Time": "60"},  // last month boundary
		ledger.Row{"Category": "Dining", "Amount": "80", "Time": "61"},  // outside both windows
		ledger.Row{"Category": "Grocery", "Amount": "99", "Time": "10"}, // wrong category
	)
	intent := &QueryIntent{
		QueryType:  QuerySpendingComparison,
		Category:   "Dining",
		Comparison: ComparisonMonthOverMonth,
	}

	result := NewExecutor(nil).Execute(intent, l)

	data, ok := result.Data.(ComparisonData)
	if !ok {
		t.Fatalf("Data = %T, want ComparisonData", result.Data)
	}
	if data.ThisMonth != 10 {
		t.Errorf("ThisMonth = %v, want 10 (Time <= 30)", data.ThisMonth)
	}
	if data.LastMonth != 60 {
		t.Errorf("LastMonth = %v, want 60 (30 < Time <= 60)", data.LastMonth)
	}
	if !strings.Contains(result.Response, "$10.00") || !strings.Contains(result.Response, "$60.00") {
		t.Errorf("Response = %q, want both window totals", result.Response)
	}
	if !strings.Contains(result.Response, "$50.00 less") {
		t.Errorf("Response = %q, want the delta sentence", result.Response)
	}
}

func TestExecute_SpendingComparisonWithoutCategoryFallsBack(t *testing.T) {
	intent := &QueryIntent{
		QueryType:  QuerySpendingComparison,
		Comparison: ComparisonMonthOverMonth,
	}

	result := NewExecutor(nil).Execute(intent, queryLedger())
	if result.Response != FallbackResponse {
		t.Errorf("Response = %q, want the fallback", result.Response)
	}
	if result.Data != nil {
		t.Errorf("Data = %v, want nil", result.Data)
	}
}

func TestExecute_TotalSpendingSkipsUnparseableAmounts(t *testing.T) {
	l := queryLedger(
		ledger.Row{"Category": "Dining", "Amount": "10.50", "Time": "1"},
		ledger.Row{"Category": "Dining", "Amount": "garbage", "Time": "2"},
		ledger.Row{"Category": "Travel", "Amount": "4.50", "Time": "3"},
	)

	result := NewExecutor(nil).Execute(&QueryIntent{QueryType: QueryTotalSpending}, l)

	data := result.Data.(TotalSpendingData)
	if data.Total != 15 {
		t.Errorf("Total = %v, want 15 with the bad row skipped", data.Total)
	}
}

func TestExecute_CategorySpendingMatchesSubstringCaseInsensitive(t *testing.T) {
	l := queryLedger(
		ledger.Row{"Category": "Dining Out", "Amount": "25", "Time": "1"},
		ledger.Row{"Category": "DINING", "Amount": "15", "Time": "2"},
		ledger.Row{"Category": "Groceries", "Amount": "99", "Time": "3"},
		ledger.Row{"Category": "", "Amount": "7", "Time": "4"},
	)
	intent := &QueryIntent{QueryType: QueryCategorySpending, Category: "din"}

	result := NewExecutor(nil).Execute(intent, l)

	data := result.Data.(CategorySpendingData)
	if data.Total != 40 {
		t.Errorf("Total = %v, want 40", data.Total)
	}
	if data.Category != "din" {
		t.Errorf("Category = %q, want the requested filter echoed", data.Category)
	}
}

func TestExecute_AnomalyCount(t *testing.T) {
	t.Run("counts flagged rows", func(t *testing.T) {
		l := queryLedger(
			ledger.Row{"Category": "Dining", "Amount": "10", "Time": "1", "is_anomaly": "1"},
			ledger.Row{"Category": "Dining", "Amount": "20", "Time": "2", "is_anomaly": "0"},
			ledger.Row{"Category": "Travel", "Amount": "30", "Time": "3", "is_anomaly": "1"},
		)

		result := NewExecutor(nil).Execute(&QueryIntent{QueryType: QueryAnomalyCount}, l)
		if data := result.Data.(AnomalyCountData); data.Count != 2 {
			t.Errorf("Count = %d, want 2", data.Count)
		}
	})

	t.Run("absent column counts zero", func(t *testing.T) {
		l := &ledger.Ledger{
			Columns: []string{"Category", "Amount"},
			Rows:    []ledger.Row{{"Category": "Dining", "Amount": "10"}},
		}

		result := NewExecutor(nil).Execute(&QueryIntent{QueryType: QueryAnomalyCount}, l)
		if data := result.Data.(AnomalyCountData); data.Count != 0 {
			t.Errorf("Count = %d, want 0", data.Count)
		}
	})
}

func TestExecute_SavingsAnalysis(t *testing.T) {
	planner := func(l *ledger.Ledger) (float64, map[string]string, error) {
		return 24, map[string]string{"Dining": "trim it"}, nil
	}

	result := NewExecutor(planner).Execute(&QueryIntent{QueryType: QuerySavingsAnalysis}, queryLedger())

	data := result.Data.(SavingsAnalysisData)
	if data.PotentialMonthlySavings != 24 {
		t.Errorf("PotentialMonthlySavings = %v, want 24", data.PotentialMonthlySavings)
	}
	if !strings.Contains(result.Response, "$24.00/month") {
		t.Errorf("Response = %q, want the savings figure", result.Response)
	}
}

func TestExecute_UnknownQueryTypeFallsBack(t *testing.T) {
	result := NewExecutor(nil).Execute(&QueryIntent{QueryType: "balance_forecast"}, queryLedger())
	if result.Response != FallbackResponse {
		t.Errorf("Response = %q, want the fallback", result.Response)
	}
}
