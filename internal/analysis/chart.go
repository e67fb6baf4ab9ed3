package analysis

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderConfusionMatrixPNG draws the four matrix cells as a labeled bar
// chart and returns the PNG base64-encoded for JSON transport.
func RenderConfusionMatrixPNG(m *ConfusionMatrix) (string, error) {
	correct := drawing.Color{R: 68, G: 114, B: 196, A: 255}
	wrong := drawing.Color{R: 197, G: 90, B: 17, A: 255}

	bars := []chart.Value{
		{Label: "True Negative", Value: float64(m.TN), Style: chart.Style{FillColor: correct, StrokeColor: correct}},
		{Label: "False Positive", Value: float64(m.FP), Style: chart.Style{FillColor: wrong, StrokeColor: wrong}},
		{Label: "False Negative", Value: float64(m.FN), Style: chart.Style{FillColor: wrong, StrokeColor: wrong}},
		{Label: "True Positive", Value: float64(m.TP), Style: chart.Style{FillColor: correct, StrokeColor: correct}},
	}

	barChart := chart.BarChart{
		Title: "Confusion Matrix (Actual vs Predicted)",
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    800,
		Height:   400,
		BarWidth: 120,
		Bars:     bars,
	}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return fmt.Sprintf("%.0f", vf)
		}
		return ""
	}

	var buf bytes.Buffer
	if err := barChart.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render confusion matrix chart: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
