package repository

import (
	"context"

	"estate-core/internal/domain/entity"
)

// Embedder maps text to fixed-length vectors. EmbedBatch is order-preserving
// and must issue a single provider call for the whole batch.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces the assistant reply from a structured prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string, maxTokens int32, temperature float32) (string, error)
}

// VectorIndex is the nearest-neighbor store over properties and document chunks.
// Upsert and Delete serve the ingestion path only.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK uint64, filter map[string]string) ([]entity.IndexHit, error)
	Upsert(ctx context.Context, points []entity.IndexPoint) error
	Delete(ctx context.Context, ids []string) error
}

// LeadStore persists lead state between turns. Get returns (nil, nil) when no
// lead exists for the user.
type LeadStore interface {
	Get(ctx context.Context, userID string) (*entity.Lead, error)
	Upsert(ctx context.Context, userID string, patch entity.LeadPatch) (*entity.Lead, error)
}

// HistoryStore is the append-only conversation log. Recent returns the last
// `limit` turns in chronological order.
type HistoryStore interface {
	Append(ctx context.Context, turn entity.ConversationTurn) error
	Recent(ctx context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error)
}

// NotificationSink delivers a completed lead to the sales side. Best-effort.
type NotificationSink interface {
	NotifyLead(ctx context.Context, lead *entity.Lead) error
}

// PropertyDirectory answers structured (exact-filter) listing queries.
type PropertyDirectory interface {
	List(ctx context.Context, filters entity.PropertyFilters) ([]entity.RetrievalItem, error)
}

// PropertyWriter is the ingestion-side counterpart of PropertyDirectory.
type PropertyWriter interface {
	UpsertBatch(ctx context.Context, records []entity.PropertyRecord) error
}

// RateLimiter caps messages per user.
type RateLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
	Increment(ctx context.Context, userID string) error
}
