package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	indexBatchSize = 100
	scrollPageSize = 256
)

// qdrantIndex implements RetrievalIndex on a single Qdrant collection.
// Chunks carry their scope in the payload and every search filters on it,
// so one collection serves all jobs.
type qdrantIndex struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	vectorSize uint64
}

func NewQdrantIndex(urlStr, apiKey, collection string, vectorSize int, embedder Embedder) (RetrievalIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:     client,
		embedder:   embedder,
		collection: collection,
		vectorSize: uint64(vectorSize),
	}, nil
}

// Init implements RetrievalIndex.
func (q *qdrantIndex) Init() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collection)
	return nil
}

// IndexChunks implements RetrievalIndex. Point IDs are derived from the
// (job, candidate, chunk index) triple, so re-indexing the same résumé
// overwrites its chunks instead of duplicating them.
func (q *qdrantIndex) IndexChunks(ctx context.Context, chunks []IndexedChunk) error {
	points := make([]*qdrant.PointStruct, 0, len(chunks))

	for _, chunk := range chunks {
		embedding, err := q.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d for candidate %s: %w", chunk.ChunkIndex, chunk.CandidateID, err)
		}

		payload := map[string]interface{}{
			"job_id":         chunk.JobID,
			"candidate_id":   chunk.CandidateID,
			"candidate_name": chunk.CandidateName,
			"content":        chunk.Content,
			"chunk_index":    chunk.ChunkIndex,
			"total_chunks":   chunk.TotalChunks,
		}
		for k, v := range chunk.Metadata {
			if _, reserved := reservedPayloadKeys[k]; !reserved {
				payload[k] = v
			}
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunkPointID(chunk.JobID, chunk.CandidateID, chunk.ChunkIndex)),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	for start := 0; start < len(points); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(points) {
			end = len(points)
		}

		_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: q.collection,
			Points:         points[start:end],
		})
		if err != nil {
			return fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	return nil
}

// Search implements RetrievalIndex. An empty candidateID searches across
// all candidates of the job.
func (q *qdrantIndex) Search(ctx context.Context, jobID, candidateID, query string, limit int) ([]RetrievedChunk, error) {
	embedding, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         scopeFilter(jobID, candidateID),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]RetrievedChunk, 0, len(points))
	for _, point := range points {
		chunk := RetrievedChunk{Score: point.Score}

		if v, ok := point.Payload["content"]; ok {
			chunk.Content = v.GetStringValue()
		}
		if v, ok := point.Payload["candidate_id"]; ok {
			chunk.CandidateID = v.GetStringValue()
		}
		if v, ok := point.Payload["chunk_index"]; ok {
			chunk.ChunkIndex = int(v.GetIntegerValue())
		}

		results = append(results, chunk)
	}

	return results, nil
}

// ListCandidates implements RetrievalIndex. It scrolls all points of the
// job and collapses them to distinct candidates.
func (q *qdrantIndex) ListCandidates(ctx context.Context, jobID string) ([]CandidateRef, error) {
	seen := make(map[string]struct{})
	var refs []CandidateRef
	var offset *qdrant.PointId

	for {
		points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: q.collection,
			Filter:         scopeFilter(jobID, ""),
			Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scroll points: %w", err)
		}

		for _, point := range points {
			candidateID := point.Payload["candidate_id"].GetStringValue()
			if candidateID == "" {
				continue
			}
			if _, ok := seen[candidateID]; ok {
				continue
			}
			seen[candidateID] = struct{}{}

			ref := CandidateRef{
				CandidateID:   candidateID,
				CandidateName: point.Payload["candidate_name"].GetStringValue(),
				Metadata:      make(map[string]string),
			}
			for key, value := range point.Payload {
				if _, reserved := reservedPayloadKeys[key]; reserved {
					continue
				}
				if s := value.GetStringValue(); s != "" {
					ref.Metadata[key] = s
				}
			}
			refs = append(refs, ref)
		}

		if len(points) < scrollPageSize {
			break
		}
		offset = points[len(points)-1].Id
	}

	return refs, nil
}

// DeleteCandidate implements RetrievalIndex.
func (q *qdrantIndex) DeleteCandidate(ctx context.Context, jobID, candidateID string) error {
	return q.deleteByFilter(ctx, scopeFilter(jobID, candidateID))
}

// DeleteJob implements RetrievalIndex.
func (q *qdrantIndex) DeleteJob(ctx context.Context, jobID string) error {
	return q.deleteByFilter(ctx, scopeFilter(jobID, ""))
}

func (q *qdrantIndex) deleteByFilter(ctx context.Context, filter *qdrant.Filter) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

func scopeFilter(jobID, candidateID string) *qdrant.Filter {
	must := []*qdrant.Condition{
		qdrant.NewMatch("job_id", jobID),
	}
	if candidateID != "" {
		must = append(must, qdrant.NewMatch("candidate_id", candidateID))
	}
	return &qdrant.Filter{Must: must}
}

// chunkPointID derives a stable UUID from the chunk's scope so writes are
// idempotent.
func chunkPointID(jobID, candidateID string, chunkIndex int) string {
	key := fmt.Sprintf("%s_%s_chunk_%d", jobID, candidateID, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// reservedPayloadKeys are payload fields managed by the index itself;
// caller metadata may not shadow them.
var reservedPayloadKeys = map[string]struct{}{
	"job_id":         {},
	"candidate_id":   {},
	"candidate_name": {},
	"content":        {},
	"chunk_index":    {},
	"total_chunks":   {},
}
