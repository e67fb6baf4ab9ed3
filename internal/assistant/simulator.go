package assistant

import (
	"context"
	"time"

	"github.com/dsemenov/ledgerlens/internal/ledger"
)

// SimulationResult is the envelope requested from the model for a what-if
// scenario. The dollar figures are opaque strings from the external source;
// the core's responsibility ends at a well-formed prompt and a well-formed
// response envelope.
type SimulationResult struct {
	ImpactDescription     string   `json:"impact_description"`
	Original6MonthSavings string   `json:"original_6month_savings"`
	New6MonthSavings      string   `json:"new_6month_savings"`
	MonthlyChange         string   `json:"monthly_change"`
	Recommendations       []string `json:"recommendations"`
}

// SpendSummarizer supplies the current totals the scenario prompt needs.
type SpendSummarizer func(l *ledger.Ledger) (total float64, byCategory map[string]float64, err error)

// Simulator projects hypothetical financial decisions over a fixed 6-month
// horizon with a 15%-of-spend monthly savings baseline.
type Simulator struct {
	generator Generator
	summarize SpendSummarizer
	timeout   time.Duration
}

func NewSimulator(generator Generator, summarize SpendSummarizer, timeout time.Duration) *Simulator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Simulator{generator: generator, summarize: summarize, timeout: timeout}
}

// Simulate delegates the projection to the language model behind the same
// strict parsing boundary as the interpreter.
func (s *Simulator) Simulate(ctx context.Context, scenario string, l *ledger.Ledger) (*SimulationResult, error) {
	if s.generator == nil {
		return nil, &ServiceError{Reason: "not configured (set GEMINI_API_KEY)"}
	}

	total, byCategory, err := s.summarize(l)
	if err != nil {
		return nil, err
	}
	monthlySavings := total * 0.15

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.GenerateText(ctx, buildScenarioPrompt(scenario, total, byCategory, monthlySavings))
	if err != nil {
		return nil, err
	}

	var result SimulationResult
	if err := decodeStrict(raw, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
