package assistant

import (
	"context"
	"strings"
	"time"
)

// Interpreter maps natural-language questions onto QueryIntent values by
// delegating extraction to the language model behind a strict parsing
// boundary.
type Interpreter struct {
	generator Generator
	timeout   time.Duration
}

// NewInterpreter wires a Generator. generator may be nil when the service
// is not configured; Interpret then fails with a ServiceError instead of
// guessing.
func NewInterpreter(generator Generator, timeout time.Duration) *Interpreter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Interpreter{generator: generator, timeout: timeout}
}

// intentEnvelope is the exact JSON object requested from the model.
// Pointers distinguish explicit null from a missing key.
type intentEnvelope struct {
	QueryType  string  `json:"query_type"`
	Category   *string `json:"category"`
	TimePeriod *string `json:"time_period"`
	Comparison *string `json:"comparison"`
}

// Interpret translates one question. On any contract violation the caller
// gets an InterpretationError and no intent; a partially-populated intent
// never escapes this function.
func (it *Interpreter) Interpret(ctx context.Context, query string) (*QueryIntent, error) {
	if it.generator == nil {
		return nil, &ServiceError{Reason: "not configured (set GEMINI_API_KEY)"}
	}

	ctx, cancel := context.WithTimeout(ctx, it.timeout)
	defer cancel()

	raw, err := it.generator.GenerateText(ctx, buildIntentPrompt(query))
	if err != nil {
		return nil, err
	}

	var envelope intentEnvelope
	if err := decodeStrict(raw, &envelope); err != nil {
		return nil, err
	}

	intent := &QueryIntent{QueryType: QueryType(envelope.QueryType)}
	if envelope.Category != nil {
		intent.Category = strings.TrimSpace(*envelope.Category)
	}
	if envelope.TimePeriod != nil {
		intent.TimePeriod = TimePeriod(*envelope.TimePeriod)
	}
	if envelope.Comparison != nil {
		intent.Comparison = Comparison(*envelope.Comparison)
	}

	if err := intent.validate(); err != nil {
		return nil, &InterpretationError{Reason: err.Error(), Raw: raw}
	}

	return intent, nil
}
