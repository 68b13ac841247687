package store

import (
	"context"
	"fmt"
	"log"

	"estate-core/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type QdrantIndex struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantIndex(client *qdrant.Client, collectionName string) *QdrantIndex {
	return &QdrantIndex{
		client:         client,
		collectionName: collectionName,
	}
}

func (s *QdrantIndex) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: s.collectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     dim,
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
		} else {
			return err
		}
	}

	// Keyword index on "location" so filtered queries stay fast.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "location",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		log.Printf("[QDRANT] Warning: Could not create location index (might already exist): %v", err)
	}

	return nil
}

func (s *QdrantIndex) Query(ctx context.Context, vector []float32, topK uint64, filter map[string]string) ([]entity.IndexHit, error) {
	var mustConditions []*qdrant.Condition
	for key, value := range filter {
		mustConditions = append(mustConditions, qdrant.NewMatch(key, value))
	}
	var queryFilter *qdrant.Filter
	if len(mustConditions) > 0 {
		queryFilter = &qdrant.Filter{Must: mustConditions}
	}

	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         queryFilter,
		Limit:          qdrant.PtrOf(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]entity.IndexHit, 0, len(res))
	for _, point := range res {
		metadata := payloadToMap(point.Payload)
		id := point.Id.GetUuid()
		if entityID, ok := metadata["id"].(string); ok && entityID != "" {
			id = entityID
		}
		hits = append(hits, entity.IndexHit{
			ID:       id,
			Score:    point.Score,
			Metadata: metadata,
		})
	}
	return hits, nil
}

func (s *QdrantIndex) Upsert(ctx context.Context, points []entity.IndexPoint) error {
	upserts := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		upserts = append(upserts, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointUUID(point.ID)),
			Vectors: qdrant.NewVectors(point.Vector...),
			Payload: qdrant.NewValueMap(point.Payload),
		})
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         upserts,
	})
	return err
}

func (s *QdrantIndex) Delete(ctx context.Context, ids []string) error {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewIDUUID(pointUUID(id)))
	}
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	return err
}

// pointUUID derives a stable point id from an entity id, so re-importing the
// same listing overwrites instead of duplicating.
func pointUUID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		switch kind := value.Kind.(type) {
		case *qdrant.Value_StringValue:
			out[key] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			out[key] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			out[key] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			out[key] = kind.BoolValue
		}
	}
	return out
}
