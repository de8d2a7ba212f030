package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"webnova-cotizador/advisory"
	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/repository"
	"webnova-cotizador/utils"
)

// defaultPrompts are used when a task kind is requested without a question
var defaultPrompts = map[advisory.Kind]string{
	advisory.KindAnalyze:        "Analiza este proyecto.",
	advisory.KindSuggestModules: "¿Qué módulos le faltan a este proyecto?",
	advisory.KindOptimize:       "¿Cómo puedo optimizar esta cotización?",
	advisory.KindTimeline:       "Genera un cronograma para este proyecto.",
	advisory.KindCompare:        "Compara alternativas para este proyecto.",
	advisory.KindPriceResearch:  "¿Cómo se comparan estos precios con el mercado?",
}

// AdvisoryService answers questions about the working quotation
type AdvisoryService struct {
	client CompletionClientInterface
	logs   repository.InferenceLogRepositoryInterface // optional
	rates  RateSource
	state  *quotation.State
}

// NewAdvisoryService creates a new AdvisoryService; logs may be nil
func NewAdvisoryService(
	client CompletionClientInterface,
	logs repository.InferenceLogRepositoryInterface,
	rates RateSource,
	state *quotation.State,
) *AdvisoryService {
	return &AdvisoryService{client: client, logs: logs, rates: rates, state: state}
}

// Query asks the completion backend about the working quotation. The content is
// always sanitized HTML; on backend failure it is the canned error block and
// the error is returned alongside. A cancelled ctx discards the answer.
func (s *AdvisoryService) Query(ctx context.Context, req models.AdvisoryRequest) (*models.AdvisoryResponse, error) {
	kind := advisory.ParseKind(req.Kind)
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = defaultPrompts[kind]
	}
	if prompt == "" {
		return nil, (utils.Violations{"prompt": "required"}).Err()
	}

	rate := s.rates.Rate()
	view := s.state.View()
	messages, err := advisory.BuildMessages(kind, prompt, advisory.ProjectContext{
		ClientName:      view.ClientName,
		ProjectType:     view.ProjectType,
		SelectedModules: view.SelectedModules,
		Catalog:         view.Modules,
		Total:           view.Total,
		Budget:          req.Budget,
		ExchangeRate:    rate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	log.Printf("🤖 AdvisoryQuery: kind=%s prompt=%q", kind, truncate(prompt, 100))
	start := time.Now()
	result, err := s.client.Complete(ctx, messages)
	elapsed := time.Since(start).Milliseconds()

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Printf("⚠️  AdvisoryQuery: request gone after %dms, discarding answer", elapsed)
		return nil, ctxErr
	}

	meta := models.AdvisoryMetadata{Kind: string(kind), ProcessingTimeMs: elapsed, ExchangeRate: rate}
	if err != nil {
		log.Printf("❌ AdvisoryQuery: %v", err)
		return &models.AdvisoryResponse{
			Content:     advisory.ErrorBlock(),
			Suggestions: []models.ModuleSuggestion{},
			Metadata:    meta,
		}, err
	}

	meta.Model = result.Model
	suggestions := advisory.ParseSuggestions(result.Content)
	content := advisory.Sanitize(advisory.StripSuggestionBlocks(result.Content))
	log.Printf("✅ AdvisoryQuery: model=%s suggestions=%d time=%dms", result.Model, len(suggestions), elapsed)

	s.record(ctx, models.InferenceLog{
		Kind:             string(kind),
		Prompt:           prompt,
		Response:         result.Content,
		Model:            result.Model,
		ProcessingTimeMs: elapsed,
		ExchangeRate:     rate,
	})

	return &models.AdvisoryResponse{Content: content, Suggestions: suggestions, Metadata: meta}, nil
}

// record stores the inference log; failures are only logged
func (s *AdvisoryService) record(ctx context.Context, entry models.InferenceLog) {
	if s.logs == nil {
		return
	}
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.logs.Insert(logCtx, entry); err != nil {
		log.Printf("⚠️  AdvisoryQuery: failed to store inference log: %v", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
