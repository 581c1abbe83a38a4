package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"repoqa/internal/contextutil"
)

// QdrantStore implements Store using a Qdrant server.
// Collection names are prefixed so several repositories can share one server.
type QdrantStore struct {
	client *qdrant.Client
	prefix string
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr, prefix string) (*QdrantStore, error) {
	host, port, err := grpcAddress(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client: client,
		prefix: prefix,
	}, nil
}

// grpcAddress derives the gRPC host and port from a Qdrant HTTP URL.
func grpcAddress(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}
	return host, port, nil
}

func (s *QdrantStore) name(collection string) string {
	return s.prefix + collection
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Upsert inserts or updates points in the collection.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		qdrantPoint := &qdrant.PointStruct{
			Id:      qdrant.NewID(point.ID),
			Vectors: qdrant.NewVectors(point.Vec...),
		}
		if len(point.Meta) > 0 {
			qdrantPoint.Payload = qdrant.NewValueMap(point.Meta)
		}
		qdrantPoints = append(qdrantPoints, qdrantPoint)
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.name(collection),
		Wait:           &wait,
		Points:         qdrantPoints,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search performs a similarity search with optional filters.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	queryReq := &qdrant.QueryPoints{
		CollectionName: s.name(collection),
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if filter := buildFilter(filters); filter != nil {
		queryReq.Filter = filter
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, result := range scoredPoints {
		pointID := ""
		if result.Id != nil {
			pointID = result.Id.GetUuid()
		}
		results = append(results, SearchResult{
			PointID: pointID,
			Score:   result.Score,
			Meta:    convertPayloadToMap(result.Payload),
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// buildFilter maps metadata filters to Qdrant must-conditions.
// Strings match exactly and string slices match any of their values.
func buildFilter(filters map[string]any) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		switch v := value.(type) {
		case []string:
			must = append(must, qdrant.NewMatchKeywords(key, v...))
		case string:
			must = append(must, qdrant.NewMatch(key, v))
		default:
			must = append(must, qdrant.NewMatch(key, fmt.Sprint(v)))
		}
	}
	return &qdrant.Filter{Must: must}
}

// Delete removes points by their IDs.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.name(collection),
		Points:         qdrant.NewPointsSelector(qdrantIDs...),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "collection", collection, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}

	logger.InfoContext(ctx, "deleted points", "collection", collection, "count", len(ids))
	return nil
}

// EnsureCollection ensures a collection exists with the specified vector size.
// If the collection exists, validates that the vector size matches.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)
	name := s.name(collection)

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", name, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := s.CollectionInfo(ctx, collection)
	if err != nil {
		return err
	}
	if info.VectorSize == 0 {
		return fmt.Errorf("could not determine collection vector size")
	}
	if info.VectorSize != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, info.VectorSize)
	}

	logger.InfoContext(ctx, "collection validated", "collection", name, "vector_size", vectorSize)
	return nil
}

// DropCollection deletes the collection if it exists.
func (s *QdrantStore) DropCollection(ctx context.Context, collection string) error {
	name := s.name(collection)
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection dropped", "collection", name)
	return nil
}

// Commit is a no-op; Qdrant persists points on upsert.
func (s *QdrantStore) Commit(ctx context.Context, collection string) error {
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "collection committed", "collection", s.name(collection))
	return nil
}

// IsReady reports whether the collection exists and holds at least one point.
func (s *QdrantStore) IsReady(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, s.name(collection))
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return false, nil
	}
	info, err := s.CollectionInfo(ctx, collection)
	if err != nil {
		return false, err
	}
	return info.PointsCount > 0, nil
}

// CollectionInfo returns information about a collection including point count.
func (s *QdrantStore) CollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.name(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	var vectorSize int
	if config := info.Config; config != nil && config.Params != nil {
		if vectorsConfig := config.Params.GetVectorsConfig(); vectorsConfig != nil {
			if params := vectorsConfig.GetParams(); params != nil {
				vectorSize = int(params.Size)
			}
		}
	}

	var pointsCount int
	if info.PointsCount != nil {
		pointsCount = int(*info.PointsCount)
	}

	status := "unknown"
	if info.Status != 0 {
		status = info.Status.String()
	}

	return &CollectionInfo{
		VectorSize:  vectorSize,
		PointsCount: pointsCount,
		Status:      status,
	}, nil
}

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
