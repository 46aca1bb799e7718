package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/ammyCodex/DocAI/pkg/logger_i"
)

// Qdrant keeps one document set's embeddings in a dedicated collection,
// recreated from scratch on every build so the replace-wholesale lifecycle
// matches the in-memory index.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	dimension  int
	size       int
	logger     *logger_i.Logger
}

func NewQdrant(ctx context.Context, client *qdrant.Client, collection string, vectors [][]float32) (*Qdrant, error) {
	if client == nil {
		return nil, errors.New("qdrant client is not configured")
	}
	if len(vectors) == 0 {
		return nil, errors.New("cannot build an index over zero vectors")
	}
	dimension := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, index dimension is %d", i, len(v), dimension)
		}
	}

	q := &Qdrant{
		client:     client,
		collection: collection,
		dimension:  dimension,
		size:       len(vectors),
		logger:     logger_i.NewLogger("Qdrant Index"),
	}
	if err := q.recreateCollection(ctx); err != nil {
		return nil, err
	}
	if err := q.upsertAll(ctx, vectors); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Qdrant) Len() int       { return q.size }
func (q *Qdrant) Dimension() int { return q.dimension }

func (q *Qdrant) Search(ctx context.Context, query []float32, topK int) ([]int, []float32, error) {
	if topK <= 0 {
		return nil, nil, errors.New("top_k must be positive")
	}
	if len(query) != q.dimension {
		return nil, nil, fmt.Errorf("query has dimension %d, index dimension is %d", len(query), q.dimension)
	}

	limit := uint64(min(topK, q.size))
	result, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(limit),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	positions := make([]int, 0, len(result))
	distances := make([]float32, 0, len(result))
	for _, hit := range result {
		positions = append(positions, int(hit.Id.GetNum()))
		distances = append(distances, hit.Score)
	}
	return positions, distances, nil
}

func (q *Qdrant) Close(ctx context.Context) error {
	err := q.client.DeleteCollection(ctx, q.collection)
	if err != nil {
		q.logger.Error("could not drop collection", "collection", q.collection, "error", err)
	}
	return err
}

func (q *Qdrant) recreateCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
			return fmt.Errorf("dropping stale collection: %w", err)
		}
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimension),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

func (q *Qdrant) upsertAll(ctx context.Context, vectors [][]float32) error {
	points := make([]*qdrant.PointStruct, len(vectors))
	for i, v := range vectors {
		points[i] = &qdrant.PointStruct{
			// the point id is the chunk's position in the parallel sequence
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(v...),
		}
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}
