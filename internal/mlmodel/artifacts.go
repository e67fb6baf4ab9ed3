package mlmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// Artifact filenames under the configured assets location. The training job
// writes these three files; the service refuses to start without them.
const (
	ModelFile   = "fraud_detection_model.json"
	ScalerFile  = "scaler.json"
	MetricsFile = "model_metrics.json"
)

// Metrics is the frozen evaluation record computed once at training time.
// It is returned verbatim on every analysis response.
type Metrics struct {
	TN          int     `json:"tn"`
	FP          int     `json:"fp"`
	FN          int     `json:"fn"`
	TP          int     `json:"tp"`
	Accuracy    float64 `json:"accuracy"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1Score     float64 `json:"f1_score"`
	Specificity float64 `json:"specificity"`
	MCC         float64 `json:"mcc"`
}

// Artifacts bundles everything loaded at process start. All fields are
// immutable after Load and safe to share across requests.
type Artifacts struct {
	Model   *Classifier
	Scaler  *Scaler
	Metrics *Metrics
}

// Load reads the three artifacts from location, which is either a local
// directory or a "gs://bucket/prefix" URI. Any missing or malformed
// artifact is a startup-fatal error for the caller.
func Load(ctx context.Context, location string) (*Artifacts, error) {
	model := &Classifier{}
	if err := loadJSON(ctx, location, ModelFile, model); err != nil {
		return nil, err
	}
	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", ModelFile, err)
	}

	scaler := &Scaler{}
	if err := loadJSON(ctx, location, ScalerFile, scaler); err != nil {
		return nil, err
	}
	if err := scaler.validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", ScalerFile, err)
	}

	metrics := &Metrics{}
	if err := loadJSON(ctx, location, MetricsFile, metrics); err != nil {
		return nil, err
	}

	return &Artifacts{Model: model, Scaler: scaler, Metrics: metrics}, nil
}

func loadJSON(ctx context.Context, location, name string, v any) error {
	data, err := fetchArtifact(ctx, location, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load %s: decode: %w", name, err)
	}
	return nil
}

func fetchArtifact(ctx context.Context, location, name string) ([]byte, error) {
	if strings.HasPrefix(location, "gs://") {
		return downloadObject(ctx, strings.TrimSuffix(location, "/")+"/"+name)
	}
	return os.ReadFile(path.Join(location, name))
}
