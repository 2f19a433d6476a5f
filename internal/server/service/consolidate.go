package service

import (
	"context"
	"log"
	"time"

	"ocr-consolidator/internal/consolidate"
	"ocr-consolidator/internal/inference"
	"ocr-consolidator/pkg"
)

// Recorder receives inference outcomes.
type Recorder interface {
	ObserveInference(model string, elapsed time.Duration, err error)
}

// ConsolidationService asks the model to merge OCR candidates.
type ConsolidationService struct {
	client   inference.Client
	model    string
	recorder Recorder
	debug    bool
}

// Option customises a ConsolidationService.
type Option func(*ConsolidationService)

// WithRecorder reports every inference call to r.
func WithRecorder(r Recorder) Option {
	return func(s *ConsolidationService) { s.recorder = r }
}

// WithDebug logs outbound transcripts and full error chains.
func WithDebug(debug bool) Option {
	return func(s *ConsolidationService) { s.debug = debug }
}

// NewConsolidationService creates ConsolidationService.
func NewConsolidationService(client inference.Client, model string, opts ...Option) *ConsolidationService {
	s := &ConsolidationService{client: client, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Consolidate sends the candidates to the model and returns its reply verbatim.
// Failures of the call come back as *consolidate.InferenceError.
func (s *ConsolidationService) Consolidate(ctx context.Context, texts consolidate.Candidates) (consolidate.Result, error) {
	messages := consolidate.BuildMessages(texts)
	if s.debug {
		log.Printf("chat request to %s: %s", s.model, pkg.Sprint(messages))
	}

	start := time.Now()
	reply, err := s.client.Chat(ctx, s.model, messages)
	if s.recorder != nil {
		s.recorder.ObserveInference(s.model, time.Since(start), err)
	}
	if err != nil {
		if s.debug {
			log.Printf("chat with %s failed: %#v", s.model, err)
		}
		return consolidate.Result{}, &consolidate.InferenceError{Model: s.model, Err: err}
	}

	return consolidate.Result{ProcessedText: reply.Content}, nil
}
