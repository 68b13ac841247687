package usecase

import (
	"context"
	"fmt"
	"strings"

	"estate-core/internal/domain/entity"
	"estate-core/internal/domain/repository"

	"go.uber.org/zap"
)

// Ingestor loads property listings into the vector index and the directory.
// It embeds all listing texts in a single batch call.
type Ingestor struct {
	embedder repository.Embedder
	index    repository.VectorIndex
	writer   repository.PropertyWriter
	log      *zap.Logger
}

func NewIngestor(embedder repository.Embedder, index repository.VectorIndex, writer repository.PropertyWriter, log *zap.Logger) *Ingestor {
	return &Ingestor{embedder: embedder, index: index, writer: writer, log: log}
}

// ImportProperties embeds and upserts the given listings. Returns the number
// of listings written.
func (ing *Ingestor) ImportProperties(ctx context.Context, records []entity.PropertyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = embeddingText(record)
	}

	vectors, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(records) {
		return 0, fmt.Errorf("%w: got %d vectors for %d listings", entity.ErrEmbeddingUnavailable, len(vectors), len(records))
	}

	points := make([]entity.IndexPoint, len(records))
	for i, record := range records {
		points[i] = entity.IndexPoint{
			ID:     record.ID,
			Vector: vectors[i],
			Payload: map[string]any{
				"id":          record.ID,
				"title":       record.Title,
				"location":    record.Location,
				"area":        record.AreaSqm,
				"bedrooms":    record.Bedrooms,
				"bathrooms":   record.Bathrooms,
				"price":       record.Price,
				"available":   record.Available,
				"description": truncate(record.Description, 500),
			},
		}
	}
	if err := ing.index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}

	if err := ing.writer.UpsertBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}

	ing.log.Info("imported properties", zap.Int("count", len(records)))
	return len(records), nil
}

// DeleteProperty removes a listing from the vector index.
func (ing *Ingestor) DeleteProperty(ctx context.Context, id string) error {
	if err := ing.index.Delete(ctx, []string{id}); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}
	return nil
}

// embeddingText is the rich one-line description a listing is indexed under.
func embeddingText(record entity.PropertyRecord) string {
	availability := "Available"
	if !record.Available {
		availability = "Not available"
	}
	description := record.Description
	if description == "" {
		description = "No description"
	}
	features := "No special features"
	if len(record.Features) > 0 {
		features = strings.Join(record.Features, ", ")
	}
	return fmt.Sprintf("%s (%s) in %s, %.0f sqm, %d bedrooms, %d bathrooms, %.0f QAR. Description: %s Features: %s",
		record.Title, availability, record.Location, record.AreaSqm,
		record.Bedrooms, record.Bathrooms, record.Price, description, features)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
