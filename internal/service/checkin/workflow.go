package checkin

import (
	"context"
	"fmt"
	"log"

	"github.com/sahaara/backend/internal/model/checkin"
	"github.com/sahaara/backend/internal/model/resource"
	"github.com/sahaara/backend/internal/service/recommend"
	"github.com/sahaara/backend/internal/service/safety"
	"github.com/sahaara/backend/internal/storage"
)

// Classifier is the crisis check run on the check-in thoughts.
type Classifier interface {
	Classify(ctx context.Context, text string) safety.Classification
}

// Generator produces the recommendation for a safe check-in.
type Generator interface {
	Generate(ctx context.Context, in checkin.CheckIn) recommend.Outcome
}

// Result is either a crisis redirect or the augmented recommendation.
type Result struct {
	Crisis         *checkin.CrisisResponse
	Recommendation *checkin.Recommendation
	// Degraded is set when classification or generation served a default.
	Degraded bool
}

// Body returns the value serialized to the client.
func (r Result) Body() any {
	if r.Crisis != nil {
		return r.Crisis
	}
	return r.Recommendation
}

// Workflow orchestrates a single check-in.
type Workflow struct {
	classifier Classifier
	generator  Generator
	resources  resource.Store
	history    storage.Log
}

// NewWorkflow wires the check-in collaborators.
func NewWorkflow(classifier Classifier, generator Generator, resources resource.Store, history storage.Log) *Workflow {
	return &Workflow{
		classifier: classifier,
		generator:  generator,
		resources:  resources,
		history:    history,
	}
}

// Process classifies the thoughts, then generates, augments and records the
// recommendation. Only persistence failures are returned as errors.
func (w *Workflow) Process(ctx context.Context, in checkin.CheckIn) (Result, error) {
	verdict := w.classifier.Classify(ctx, in.Thoughts)
	if verdict.IsCrisis() {
		log.Printf("[checkin] crisis detected, skipping recommendations")
		return Result{
			Crisis: &checkin.CrisisResponse{
				Status:  checkin.StatusCrisisDetected,
				Message: checkin.CrisisMessage,
			},
			Degraded: verdict.Degraded(),
		}, nil
	}

	outcome := w.generator.Generate(ctx, in)

	rec := outcome.Recommendation
	rec.MusicURL = w.resources.Resolve(rec.MusicPhrase)
	rec.Status = checkin.StatusSuccess

	record := checkin.Record{CheckIn: in, AIResponse: rec}
	if err := w.history.Append(ctx, record); err != nil {
		return Result{}, fmt.Errorf("record check-in: %w", err)
	}

	log.Printf("[checkin] recommendation served, fallback=%t music=%q", outcome.Fallback, rec.MusicPhrase)
	return Result{
		Recommendation: &rec,
		Degraded:       verdict.Degraded() || outcome.Fallback,
	}, nil
}

// History returns the recorded check-ins, oldest first.
func (w *Workflow) History(ctx context.Context) ([]checkin.Record, error) {
	records, err := w.history.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}
