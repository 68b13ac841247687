package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"estate-core/internal/domain/entity"
	"estate-core/internal/domain/repository"

	"go.uber.org/zap"
)

//go:embed intents.json
var intentSeedData []byte

type intentSeed struct {
	Intent   string   `json:"intent"`
	Examples []string `json:"examples"`
}

// IntentCache holds the labeled example vectors used for nearest-neighbor
// intent classification. It is built lazily on first use and shared by all
// concurrent requests; the build is atomic (a failed build leaves the cache
// as it was).
type IntentCache struct {
	embedder repository.Embedder
	log      *zap.Logger

	mu       sync.Mutex
	examples []entity.IntentExample
}

func NewIntentCache(embedder repository.Embedder, log *zap.Logger) *IntentCache {
	return &IntentCache{embedder: embedder, log: log}
}

// EnsureBuilt populates the cache from the embedded example set. All example
// texts go to the embedding provider in one batch call.
func (c *IntentCache) EnsureBuilt(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.examples) > 0 {
		return nil
	}

	var seeds []intentSeed
	if err := json.Unmarshal(intentSeedData, &seeds); err != nil {
		return fmt.Errorf("parse intent examples: %w", err)
	}

	var labels, texts []string
	for _, seed := range seeds {
		for _, example := range seed.Examples {
			labels = append(labels, seed.Intent)
			texts = append(texts, example)
		}
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: got %d vectors for %d examples", entity.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}

	built := make([]entity.IntentExample, len(texts))
	for i := range texts {
		built[i] = entity.IntentExample{Intent: labels[i], Example: texts[i], Embedding: vectors[i]}
	}
	c.examples = built
	c.log.Info("intent cache built", zap.Int("examples", len(built)))
	return nil
}

// Invalidate empties the cache; the next EnsureBuilt rebuilds it.
func (c *IntentCache) Invalidate() {
	c.mu.Lock()
	c.examples = nil
	c.mu.Unlock()
}

func (c *IntentCache) snapshot() []entity.IntentExample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.examples
}

// Classify embeds the message and returns the best-scoring example's intent.
// An empty cache yields {"unknown", -1} without calling the provider; ties
// resolve to the first maximum in cache order.
func (c *IntentCache) Classify(ctx context.Context, message string) (entity.IntentMatch, error) {
	best := entity.IntentMatch{Intent: "unknown", Score: -1}

	examples := c.snapshot()
	if len(examples) == 0 {
		return best, nil
	}

	vector, err := c.embedder.Embed(ctx, message)
	if err != nil {
		return best, fmt.Errorf("%w: %v", entity.ErrEmbeddingUnavailable, err)
	}

	for _, example := range examples {
		if score := cosineSimilarity(vector, example.Embedding); score > best.Score {
			best = entity.IntentMatch{Intent: example.Intent, Score: score}
		}
	}
	return best, nil
}

// cosineSimilarity is dot(a,b) / (||a|| * ||b||), in [-1, 1].
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return -1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
