// Package filing runs the complaint generation pipeline: validate,
// classify, render, record.
package filing

import (
	"context"
	"time"

	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
	"github.com/JustJay7/consumer-complaint-assistant/internal/document"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

type Renderer interface {
	Render(ctx context.Context, rec *complaint.Record, tier complaint.ForumTier) (*document.Artifact, error)
}

type Recorder interface {
	Record(ctx context.Context, rec *complaint.Record, tier complaint.ForumTier) (*database.DownloadRecord, error)
}

// Outcome is a successfully generated complaint. Recorded is false when
// the analytics write failed; the document is still delivered.
type Outcome struct {
	Tier     complaint.ForumTier
	Dates    complaint.DateCheck
	Artifact *document.Artifact
	Recorded bool
}

// Preview is the live feedback shown while the form is being filled in
type Preview struct {
	Dates complaint.DateCheck
	Tier  complaint.ForumTier
	Err   error
}

type Service struct {
	validator     *complaint.Validator
	renderer      Renderer
	recorder      Recorder
	renderTimeout time.Duration
	logger        *logger.Logger
}

func NewService(renderer Renderer, recorder Recorder, renderTimeout time.Duration, logger *logger.Logger) *Service {
	return &Service{
		validator:     complaint.NewValidator(),
		renderer:      renderer,
		recorder:      recorder,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

// Submit validates rec, renders its document and records the download.
// Validation failures return a *complaint.ValidationError and render
// failures a *document.RenderError; in both cases nothing is recorded.
func (s *Service) Submit(ctx context.Context, rec *complaint.Record) (*Outcome, error) {
	rec.Normalize()

	dates, err := s.validator.Validate(rec)
	if err != nil {
		s.logger.Debug("Complaint rejected", "error", err)
		return nil, err
	}

	tier := complaint.Classify(rec.ClaimValue())

	renderCtx := ctx
	if s.renderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.renderTimeout)
		defer cancel()
	}

	art, err := s.renderer.Render(renderCtx, rec, tier)
	if err != nil {
		s.logger.Error("Complaint render failed",
			"forum", tier.Label(),
			"error", err,
		)
		return nil, err
	}

	out := &Outcome{Tier: tier, Dates: dates, Artifact: art}

	// The document exists at this point; a client disconnect must not
	// lose the record
	if _, err := s.recorder.Record(context.WithoutCancel(ctx), rec, tier); err != nil {
		s.logger.Warn("Complaint delivered without analytics record",
			"filename", art.Filename,
			"error", err,
		)
		return out, nil
	}

	out.Recorded = true
	return out, nil
}

// Preview checks rec without rendering anything
func (s *Service) Preview(rec *complaint.Record) *Preview {
	rec.Normalize()
	dates, err := s.validator.Validate(rec)
	return &Preview{
		Dates: dates,
		Tier:  complaint.Classify(rec.ClaimValue()),
		Err:   err,
	}
}
