package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/api/metrics"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// Fixed replies used whenever the completion service cannot be trusted.
const (
	FallbackRoute      = "Start at pickup. Follow main road. Ask for the landmark locally."
	NoIncidentsMessage = "No active incidents reported. The path is clear. Sharp sharp!"
	FallbackSafety     = "Stay alert. Watch out for activity near Section B."
	FallbackChat       = "Sorry, I'm having trouble connecting. Try again later! Sharp sharp."
)

const kasiBotPersona = "You are Kasi-Bot, the support assistant for Kasi-Nav. " +
	"Kasi-Nav is a township logistics app using landmarks for addresses. " +
	"We use Spaza shops as hubs and local 'trolley-pushers' as couriers. " +
	"Be helpful, professional, and use slight South African slang like 'Sharp sharp' or 'Eish' where appropriate."

// Operation names, used for request tokens and metric labels.
const (
	opParse  = "parse"
	opRoute  = "route"
	opSafety = "safety"
	opChat   = "chat"
)

// Outcome labels.
const (
	outcomeOK         = "ok"
	outcomeFallback   = "fallback"
	outcomeSkipped    = "skipped"
	outcomeSuperseded = "superseded"
)

var errSuperseded = errors.New("superseded by a newer request")

var landmarkSchema = []ports.SchemaField{
	{Name: "mainLandmark", Type: ports.SchemaString, Required: true,
		Description: "The primary landmark (e.g., Ma-Zulu's Spaza)"},
	{Name: "spatialRelation", Type: ports.SchemaString, Required: true,
		Description: "Spatial context (e.g., 2 houses down, behind, opposite)"},
	{Name: "visualMarkers", Type: ports.SchemaStringArray, Required: true,
		Description: "Visual identifiers like colors, gate types, or satellite dishes"},
	{Name: "suggestedCategory", Type: ports.SchemaString, Required: true,
		Enum: []string{"spaza", "transport", "house", "other"}},
	{Name: "confidence", Type: ports.SchemaNumber},
}

// AssistantService adapts the completion service for the app. Every call
// degrades to a fixed value on failure and is never retried.
type AssistantService struct {
	completer ports.Completer
	tokens    *requestTokens
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewAssistantService wraps completer. A non-positive timeout leaves calls
// bounded only by the caller's context.
func NewAssistantService(completer ports.Completer, timeout time.Duration, logger zerolog.Logger) *AssistantService {
	return &AssistantService{
		completer: completer,
		tokens:    newRequestTokens(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Parse extracts a structured landmark reading from a free-text description.
// It returns nil for blank input (without calling out) and on any failure.
func (s *AssistantService) Parse(ctx context.Context, text string) *domain.ParsedLandmark {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.AssistantRequestsTotal.WithLabelValues(opParse, outcomeSkipped).Inc()
		return nil
	}

	raw, err := s.complete(ctx, opParse, ports.CompletionRequest{
		Prompt: fmt.Sprintf("Analyze this South African township address description and extract structured data: %q. "+
			"Focus on landmarks like Spaza shops, taxi ranks, schools, or house colors.", text),
		Schema: landmarkSchema,
	})
	if err != nil {
		return nil
	}

	parsed, err := decodeParsedLandmark(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", opParse).Msg("completion response rejected")
		metrics.AssistantRequestsTotal.WithLabelValues(opParse, outcomeFallback).Inc()
		return nil
	}
	metrics.AssistantRequestsTotal.WithLabelValues(opParse, outcomeOK).Inc()
	return parsed
}

// RouteText describes a landmark-based route from one place to another.
func (s *AssistantService) RouteText(ctx context.Context, from, to string) string {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		metrics.AssistantRequestsTotal.WithLabelValues(opRoute, outcomeSkipped).Inc()
		return FallbackRoute
	}
	prompt := fmt.Sprintf("Generate a text-based navigation route for a township courier going from %q to %q. "+
		"Use local landmarks, not street names. Keep it very simple (3-4 steps). "+
		"Use South African township dialect (e.g. 'Turn by the spaza').", from, to)
	return s.text(ctx, opRoute, ports.CompletionRequest{Prompt: prompt}, FallbackRoute)
}

// SafetyAssessment warns couriers about the given incidents. With no
// incidents it answers without calling out.
func (s *AssistantService) SafetyAssessment(ctx context.Context, incidents []domain.Incident) string {
	if len(incidents) == 0 {
		metrics.AssistantRequestsTotal.WithLabelValues(opSafety, outcomeSkipped).Inc()
		return NoIncidentsMessage
	}
	payload, err := json.Marshal(incidents)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode incidents")
		metrics.AssistantRequestsTotal.WithLabelValues(opSafety, outcomeFallback).Inc()
		return FallbackSafety
	}
	prompt := fmt.Sprintf("Act as a local safety coordinator. Given these incidents: %s, "+
		"provide a brief, urgent 1-sentence warning for a delivery person on a bicycle or trolley. Use local context.", payload)
	return s.text(ctx, opSafety, ports.CompletionRequest{Prompt: prompt}, FallbackSafety)
}

// ChatReply answers a support message as Kasi-Bot. Blank messages get an
// empty reply and no request.
func (s *AssistantService) ChatReply(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		metrics.AssistantRequestsTotal.WithLabelValues(opChat, outcomeSkipped).Inc()
		return ""
	}
	return s.text(ctx, opChat, ports.CompletionRequest{
		Prompt:            message,
		SystemInstruction: kasiBotPersona,
	}, FallbackChat)
}

// text runs a free-text completion, substituting fallback on any failure or
// empty answer.
func (s *AssistantService) text(ctx context.Context, op string, req ports.CompletionRequest, fallback string) string {
	out, err := s.complete(ctx, op, req)
	if err != nil {
		return fallback
	}
	if strings.TrimSpace(out) == "" {
		s.logger.Warn().Str("operation", op).Msg("empty completion, using fallback")
		metrics.AssistantRequestsTotal.WithLabelValues(op, outcomeFallback).Inc()
		return fallback
	}
	metrics.AssistantRequestsTotal.WithLabelValues(op, outcomeOK).Inc()
	return out
}

// complete performs one outbound call under a request token. Errors are
// logged and counted here; superseded results come back as errSuperseded.
func (s *AssistantService) complete(ctx context.Context, op string, req ports.CompletionRequest) (string, error) {
	key := op + ":" + CallerFromContext(ctx)
	callCtx, tok := s.tokens.acquire(ctx, key)
	defer s.tokens.release(tok)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
		defer cancel()
	}

	inFlight := metrics.AssistantInFlight.WithLabelValues(op)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	out, err := s.completer.Complete(callCtx, req)
	metrics.AssistantDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if !s.tokens.current(tok) {
		s.logger.Debug().Str("operation", op).Msg("stale completion discarded")
		metrics.AssistantRequestsTotal.WithLabelValues(op, outcomeSuperseded).Inc()
		return "", errSuperseded
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", op).Msg("completion failed, using fallback")
		metrics.AssistantRequestsTotal.WithLabelValues(op, outcomeFallback).Inc()
		return "", err
	}
	return out, nil
}

// parsedLandmarkPayload uses pointers so missing required fields are visible.
type parsedLandmarkPayload struct {
	MainLandmark      *string   `json:"mainLandmark"`
	SpatialRelation   *string   `json:"spatialRelation"`
	VisualMarkers     *[]string `json:"visualMarkers"`
	SuggestedCategory *string   `json:"suggestedCategory"`
	Confidence        *float64  `json:"confidence"`
}

// decodeParsedLandmark accepts only a response that fully matches the
// declared schema; nothing is partially parsed.
func decodeParsedLandmark(raw string) (*domain.ParsedLandmark, error) {
	var p parsedLandmarkPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return nil, fmt.Errorf("decode parsed landmark: %w", err)
	}
	switch {
	case p.MainLandmark == nil:
		return nil, errors.New("decode parsed landmark: mainLandmark missing")
	case p.SpatialRelation == nil:
		return nil, errors.New("decode parsed landmark: spatialRelation missing")
	case p.VisualMarkers == nil:
		return nil, errors.New("decode parsed landmark: visualMarkers missing")
	case p.SuggestedCategory == nil:
		return nil, errors.New("decode parsed landmark: suggestedCategory missing")
	}
	category := domain.Category(*p.SuggestedCategory)
	if !category.Valid() {
		return nil, fmt.Errorf("decode parsed landmark: unknown category %q", *p.SuggestedCategory)
	}

	out := &domain.ParsedLandmark{
		MainLandmark:      *p.MainLandmark,
		SpatialRelation:   *p.SpatialRelation,
		VisualMarkers:     *p.VisualMarkers,
		SuggestedCategory: category,
	}
	if p.Confidence != nil {
		out.Confidence = *p.Confidence
	}
	return out, nil
}
