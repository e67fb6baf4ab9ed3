package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// buildIntentPrompt asks the model to translate a free-form question into
// one QueryIntent object. Allowed values are enumerated explicitly and two
// worked examples anchor the output format.
func buildIntentPrompt(query string) string {
	var b strings.Builder

	b.WriteString("You are a financial query interpreter for a personal spending analyzer.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Translate the user's question into ONE structured intent.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a single JSON object with exactly these fields:\n\n")
	b.WriteString("- \"query_type\": one of \"spending_comparison\", \"total_spending\", \"category_spending\", \"anomaly_count\", \"savings_analysis\"\n")
	b.WriteString("- \"category\": string or null (the spending category the user mentions, e.g. \"dining\")\n")
	b.WriteString("- \"time_period\": one of \"this_month\", \"last_month\", \"all_time\", or null\n")
	b.WriteString("- \"comparison\": \"month_over_month\" or null\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("Question: \"How much did I spend on coffee last month vs this month?\"\n")
	b.WriteString(`Answer: {"query_type": "spending_comparison", "category": "coffee", "time_period": null, "comparison": "month_over_month"}` + "\n\n")
	b.WriteString("Question: \"What's my total spending?\"\n")
	b.WriteString(`Answer: {"query_type": "total_spending", "category": null, "time_period": "all_time", "comparison": null}` + "\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Use \"anomaly_count\" when the user asks about anomalous, fraudulent or suspicious transactions.\n")
	b.WriteString("- Use \"savings_analysis\" when the user asks how much they could save.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```json or any Markdown.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n\n")

	b.WriteString("Question: ")
	b.WriteString(strconvQuote(query))
	b.WriteString("\n")

	return b.String()
}

// buildScenarioPrompt asks the model to project a hypothetical financial
// decision against the user's current spending over a fixed 6-month
// horizon with a 15%-of-spend monthly savings baseline.
func buildScenarioPrompt(scenario string, totalSpend float64, byCategory map[string]float64, monthlySavings float64) string {
	var b strings.Builder

	b.WriteString("You are a financial what-if simulator.\n\n")
	b.WriteString("Current situation:\n")
	fmt.Fprintf(&b, "- Total monthly spending: $%.2f\n", totalSpend)
	fmt.Fprintf(&b, "- Baseline monthly savings (15%% of spend): $%.2f\n", monthlySavings)
	fmt.Fprintf(&b, "- Savings horizon: 6 months\n")
	b.WriteString("- Spending by category:\n")

	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Fprintf(&b, "  - %s: $%.2f\n", cat, byCategory[cat])
	}

	b.WriteString("\nScenario: ")
	b.WriteString(strconvQuote(scenario))
	b.WriteString("\n\n")

	b.WriteString("Task:\n")
	b.WriteString("- Project the scenario's effect on the 6-month savings plan.\n")
	b.WriteString("- Output STRICT JSON only, a single object with exactly these fields:\n")
	b.WriteString("- \"impact_description\": string, one or two sentences\n")
	b.WriteString("- \"original_6month_savings\": string, dollar figure without the $ sign\n")
	b.WriteString("- \"new_6month_savings\": string, dollar figure without the $ sign\n")
	b.WriteString("- \"monthly_change\": string, dollar figure without the $ sign\n")
	b.WriteString("- \"recommendations\": array of strings\n\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must begin with \"{\" and end with \"}\".\n")

	return b.String()
}

func strconvQuote(s string) string {
	return fmt.Sprintf("%q", strings.TrimSpace(s))
}
