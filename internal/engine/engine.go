// internal/engine/engine.go

// Package engine ties the interpretation pipeline together: tokenize,
// extract, classify, filter, compose. Process never panics and never
// returns nil; interpretation failures degrade to an apologetic
// fallback response.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"carwash-assistant/internal/catalog"
	qerrors "carwash-assistant/internal/common/errors"
	"carwash-assistant/internal/common/logger"
	"carwash-assistant/internal/common/metrics"
	"carwash-assistant/internal/common/observability"
	"carwash-assistant/internal/engine/compose"
	"carwash-assistant/internal/engine/extract"
	"carwash-assistant/internal/engine/filter"
	"carwash-assistant/internal/engine/intent"
	"carwash-assistant/internal/engine/tokenize"
	"carwash-assistant/internal/models"
)

type Engine struct {
	cat *catalog.Catalog
	tok *tokenize.Tokenizer
	log logger.Logger
	obs *observability.Observability

	// now is injectable so relative dates and active-service elapsed
	// times are deterministic in tests.
	now func() time.Time
}

func New(cat *catalog.Catalog, log logger.Logger, obs *observability.Observability) *Engine {
	return &Engine{
		cat: cat,
		tok: tokenize.New(cat.Synonyms),
		log: log,
		obs: obs,
		now: time.Now,
	}
}

// WithClock replaces the engine clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Process interprets one query against the given record snapshot. The
// extra warnings let the caller surface upstream problems (stale
// snapshot, memory write failure) in the same response channel.
func (e *Engine) Process(ctx context.Context, query string, records []models.ServiceRecord, extra ...qerrors.QueryWarning) (resp *models.Response) {
	requestID := uuid.New().String()
	start := e.now()
	log := e.log.WithFields(map[string]interface{}{"requestId": requestID})

	defer func() {
		if r := recover(); r != nil {
			log.Error("query processing panicked", map[string]interface{}{"panic": r})
			resp = compose.Fallback()
			resp.NLPContext.RequestID = requestID
		}
		metrics.QueriesTotal.WithLabelValues(resp.NLPContext.Intent).Inc()
		metrics.QueryDuration.WithLabelValues(resp.NLPContext.Intent).Observe(e.now().Sub(start).Seconds())
		if e.obs != nil {
			e.obs.RecordQuery(ctx, resp.NLPContext.Intent)
			e.obs.RecordQueryDuration(ctx, e.now().Sub(start), resp.NLPContext.Intent)
		}
	}()

	if strings.TrimSpace(query) == "" {
		resp = e.emptyQueryResponse(requestID, extra)
		return resp
	}

	ctx, endTok := e.startSpan(ctx, "engine.tokenize")
	_, lemmas := e.tok.Tokenize(query)
	endTok()

	ctx, endExt := e.startSpan(ctx, "engine.extract")
	ents := extract.All(query, e.cat, e.now())
	endExt()

	ctx, endCls := e.startSpan(ctx, "engine.classify")
	flags, confidence := intent.Classify(lemmas, &ents, e.cat.Keywords)
	endCls()

	ctx, endFlt := e.startSpan(ctx, "engine.filter")
	result := filter.Apply(records, &ents, e.cat, e.now())
	endFlt()

	_, endCmp := e.startSpan(ctx, "engine.compose")
	resp = compose.Compose(&compose.Query{
		Raw:        query,
		Entities:   &ents,
		Flags:      flags,
		Confidence: confidence,
	}, result, e.cat)
	endCmp()

	warnings := append(result.Warnings, extra...)
	for _, w := range warnings {
		metrics.QueryWarnings.WithLabelValues(string(w.Code)).Inc()
	}
	resp.NLPContext.RequestID = requestID
	resp.NLPContext.Warnings = qerrors.Strings(warnings)

	log.Info("query answered", map[string]interface{}{
		"intent":     resp.NLPContext.Intent,
		"confidence": confidence,
		"matched":    len(result.Matched),
		"warnings":   len(warnings),
		"durationMs": e.now().Sub(start).Milliseconds(),
	})
	return resp
}

func (e *Engine) emptyQueryResponse(requestID string, extra []qerrors.QueryWarning) *models.Response {
	return &models.Response{
		Content:     "Posez-moi une question sur les revenus, l'équipe, un véhicule ou les services en cours.",
		Cards:       []models.Card{},
		Suggestions: []string{"Revenus aujourd'hui", "Services en cours", "Performance de l'équipe", "Voitures fidèles"},
		NLPContext: models.NLPContext{
			RequestID: requestID,
			Intent:    "dashboard",
			Warnings:  qerrors.Strings(extra),
		},
	}
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, func()) {
	if e.obs == nil {
		return ctx, func() {}
	}
	return e.obs.StartSpan(ctx, name)
}
