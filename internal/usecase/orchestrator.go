package usecase

import (
	"context"
	"strings"
	"time"

	"estate-core/internal/domain/entity"
	"estate-core/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	highIntentThreshold   = 0.80
	searchIntentThreshold = 0.60
	historyWindow         = 10
	maxOutputTokens       = 500
)

// highIntents are the labels that open the lead capture flow.
var highIntents = map[string]bool{
	"contact":    true,
	"viewing":    true,
	"interested": true,
}

// Orchestrator is the top-level decision function for one incoming message:
// continue a lead flow, start one, run filtered property retrieval, or run
// semantic retrieval, then generate.
type Orchestrator struct {
	intents   *IntentCache
	retrieval *RetrievalEngine
	leadFlow  *LeadFlow
	generator repository.Generator
	leads     repository.LeadStore
	history   repository.HistoryStore
	limiter   repository.RateLimiter
	log       *zap.Logger
}

func NewOrchestrator(
	intents *IntentCache,
	retrieval *RetrievalEngine,
	leadFlow *LeadFlow,
	generator repository.Generator,
	leads repository.LeadStore,
	history repository.HistoryStore,
	limiter repository.RateLimiter,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		intents:   intents,
		retrieval: retrieval,
		leadFlow:  leadFlow,
		generator: generator,
		leads:     leads,
		history:   history,
		limiter:   limiter,
		log:       log,
	}
}

// HandleMessage runs the full per-turn pipeline and always produces a
// non-empty response unless the request itself is invalid or a lead-store
// write fails mid-flow.
func (o *Orchestrator) HandleMessage(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, entity.ErrInvalidRequest
	}

	if req.UserID != "" && o.limiter != nil {
		allowed, err := o.limiter.Allow(ctx, req.UserID)
		if err != nil {
			o.log.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, entity.ErrRateLimitExceeded
		}
	}

	clean, safe := SanitizeInput(message)
	if !safe {
		o.log.Warn("rejected unsafe input", zap.String("session_id", sessionID))
		return &entity.ChatResponse{Response: refusalResponse, SessionID: sessionID}, nil
	}
	message = clean

	history, err := o.history.Recent(ctx, sessionID, historyWindow)
	if err != nil {
		o.log.Warn("history fetch failed", zap.String("session_id", sessionID), zap.Error(err))
		history = nil
	}

	if err := o.intents.EnsureBuilt(ctx); err != nil {
		o.log.Warn("intent cache build failed", zap.Error(err))
	}
	match, err := o.intents.Classify(ctx, message)
	if err != nil {
		// Degrade to unknown routing rather than failing the conversation.
		o.log.Warn("intent classification failed", zap.Error(err))
		match = entity.IntentMatch{Intent: "unknown", Score: -1}
	}

	var lead *entity.Lead
	if req.UserID != "" {
		lead, err = o.leads.Get(ctx, req.UserID)
		if err != nil {
			o.log.Warn("lead lookup failed", zap.String("user_id", req.UserID), zap.Error(err))
			lead = nil
		}
	}

	var response string
	inLeadFlow := false
	switch {
	case req.UserID != "" && lead == nil && highIntents[match.Intent] && match.Score > highIntentThreshold:
		inLeadFlow = true
		response, err = o.leadFlow.Start(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
	case lead != nil && lead.Step >= entity.LeadStepName && lead.Step <= entity.LeadStepComplete:
		inLeadFlow = true
		response, err = o.leadFlow.Step(ctx, lead, sessionID, message)
		if err != nil {
			return nil, err
		}
	case match.Intent == "property_search" && match.Score > searchIntentThreshold:
		response = o.answerWithProperties(ctx, message, history)
	default:
		response = o.answerWithDocs(ctx, message, history)
	}

	if response == "" {
		response = clarifyResponse
	}

	// Field-collection exchanges are not Q&A history.
	if !inLeadFlow {
		turn := entity.ConversationTurn{
			SessionID:        sessionID,
			UserID:           req.UserID,
			UserMessage:      message,
			AssistantMessage: response,
			Timestamp:        time.Now().UTC(),
		}
		if err := o.history.Append(ctx, turn); err != nil {
			o.log.Warn("history append failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	if req.UserID != "" && o.limiter != nil {
		if err := o.limiter.Increment(ctx, req.UserID); err != nil {
			o.log.Warn("rate limiter increment failed", zap.Error(err))
		}
	}

	return &entity.ChatResponse{Response: response, SessionID: sessionID}, nil
}

// answerWithProperties grounds the answer in exact directory matches, merged
// with semantic hits when those are available too.
func (o *Orchestrator) answerWithProperties(ctx context.Context, message string, history []entity.ConversationTurn) string {
	filters := ExtractFilters(message)
	directory, err := o.retrieval.SearchProperties(ctx, filters)
	if err != nil {
		o.log.Error("structured retrieval failed", zap.Error(err))
		return noDataResponse
	}

	semantic, err := o.retrieval.SearchDocs(ctx, message, filters)
	if err != nil {
		o.log.Warn("semantic retrieval failed, using directory matches only", zap.Error(err))
		semantic = nil
	}

	return o.generate(ctx, message, MergeResults(directory, semantic), history)
}

func (o *Orchestrator) answerWithDocs(ctx context.Context, message string, history []entity.ConversationTurn) string {
	items, err := o.retrieval.SearchDocs(ctx, message, ExtractFilters(message))
	if err != nil {
		o.log.Error("semantic retrieval failed", zap.Error(err))
		return noDataResponse
	}
	return o.generate(ctx, message, items, history)
}

// generate invokes the provider with deterministic sampling. No grounding
// means the fixed no-data response, never an invented answer.
func (o *Orchestrator) generate(ctx context.Context, message string, items []entity.RetrievalItem, history []entity.ConversationTurn) string {
	if len(items) == 0 {
		return noDataResponse
	}
	prompt := BuildSystemPrompt(items, history, IsArabic(message))
	text, err := o.generator.Generate(ctx, prompt, message, maxOutputTokens, 0)
	if err != nil {
		o.log.Error("generation failed", zap.Error(err))
		return noDataResponse
	}
	return strings.TrimSpace(text)
}
