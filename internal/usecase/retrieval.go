package usecase

import (
	"context"
	"fmt"
	"sort"

	"estate-core/internal/domain/entity"
	"estate-core/internal/domain/repository"

	"go.uber.org/zap"
)

const (
	// semanticTopK is the K for nearest-neighbor queries.
	semanticTopK = 5
	// mergeCap bounds the merged grounding set.
	mergeCap = 10
	// directoryMatchScore ranks exact filter matches above most fuzzy hits.
	directoryMatchScore = 0.9
)

// RetrievalEngine selects the grounding items eligible to back a generated
// answer, either from the property directory (exact filters) or from the
// vector index (semantic top-K).
type RetrievalEngine struct {
	embedder  repository.Embedder
	index     repository.VectorIndex
	directory repository.PropertyDirectory
	log       *zap.Logger
}

func NewRetrievalEngine(embedder repository.Embedder, index repository.VectorIndex, directory repository.PropertyDirectory, log *zap.Logger) *RetrievalEngine {
	return &RetrievalEngine{embedder: embedder, index: index, directory: directory, log: log}
}

// SearchProperties runs structured retrieval against the directory. No
// embedding call happens on this path.
func (e *RetrievalEngine) SearchProperties(ctx context.Context, filters entity.PropertyFilters) ([]entity.RetrievalItem, error) {
	items, err := e.directory.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	for i := range items {
		items[i].Source = entity.SourceDirectory
		if items[i].Score == 0 {
			items[i].Score = directoryMatchScore
		}
	}
	return items, nil
}

// SearchDocs embeds the query and runs a top-K metadata query against the
// vector index.
func (e *RetrievalEngine) SearchDocs(ctx context.Context, query string, filters entity.PropertyFilters) ([]entity.RetrievalItem, error) {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbeddingUnavailable, err)
	}

	hits, err := e.index.Query(ctx, vector, semanticTopK, vectorFilter(filters))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}

	items := make([]entity.RetrievalItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, itemFromHit(hit))
	}
	return items, nil
}

// vectorFilter narrows the index query with the filters the index payload
// actually carries.
func vectorFilter(filters entity.PropertyFilters) map[string]string {
	if filters.Location == "" {
		return nil
	}
	return map[string]string{"location": filters.Location}
}

func itemFromHit(hit entity.IndexHit) entity.RetrievalItem {
	md := hit.Metadata
	item := entity.RetrievalItem{
		ID:     hit.ID,
		Score:  hit.Score,
		Source: entity.SourceVector,
	}
	if docID, ok := md["document_id"].(string); ok && docID != "" {
		item.Kind = entity.ItemKindDocChunk
		item.DocumentID = docID
		item.ChunkIndex = intField(md, "chunk_index")
		item.TotalChunks = intField(md, "total_chunks")
		item.Content, _ = md["content"].(string)
		return item
	}
	item.Kind = entity.ItemKindProperty
	item.Title, _ = md["title"].(string)
	item.Location, _ = md["location"].(string)
	item.Price = floatField(md, "price")
	item.Bedrooms = intField(md, "bedrooms")
	item.Bathrooms = intField(md, "bathrooms")
	item.AreaSqm = floatField(md, "area")
	item.Available, _ = md["available"].(bool)
	item.Description, _ = md["description"].(string)
	return item
}

func intField(md map[string]any, key string) int {
	switch v := md[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func floatField(md map[string]any, key string) float64 {
	switch v := md[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// MergeResults combines exact directory matches with fuzzy index matches,
// deduplicated by entity id. A directory match wins over a vector match for
// the same id and is tagged as the higher-confidence source. Output is sorted
// by score descending (first-seen wins ties) and capped.
func MergeResults(directory, semantic []entity.RetrievalItem) []entity.RetrievalItem {
	byID := make(map[string]int, len(semantic)+len(directory))
	merged := make([]entity.RetrievalItem, 0, len(semantic)+len(directory))

	for _, item := range semantic {
		item.Source = entity.SourceVector
		byID[item.ID] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range directory {
		if i, ok := byID[item.ID]; ok {
			item.Source = entity.SourceBoth
			merged[i] = item
			continue
		}
		item.Source = entity.SourceDirectory
		byID[item.ID] = len(merged)
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > mergeCap {
		merged = merged[:mergeCap]
	}
	return merged
}
