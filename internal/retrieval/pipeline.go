package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/shirabe/internal/embedding"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/policy"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
	"go.uber.org/zap"
)

// Pipeline executes governed retrieval. It holds only immutable collaborator
// handles and configuration, so concurrent Retrieve calls are safe; each call
// is an independent, side-effect-free computation over the corpus snapshot.
type Pipeline struct {
	embedder  embedding.Embedder
	index     vector.VectorIndex
	store     storage.Storage
	policyCfg *policy.Config
	scorer    *policy.Scorer
	logger    *zap.Logger
}

// NewPipeline creates a pipeline with the given collaborators. cfg may be nil
// to use policy defaults; logger may be nil for silent operation.
func NewPipeline(
	embedder embedding.Embedder,
	index vector.VectorIndex,
	store storage.Storage,
	cfg *policy.Config,
	logger *zap.Logger,
) *Pipeline {
	if cfg == nil {
		cfg = policy.DefaultConfig()
	}
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		embedder:  embedder,
		index:     index,
		store:     store,
		policyCfg: cfg,
		scorer:    policy.NewScorer(policy.DefaultRules(cfg)),
		logger:    logger,
	}
}

// Retrieve runs the full pipeline for one request and returns the ordered
// citation list. Deterministic given fixed inputs and a fixed corpus/index
// snapshot. Collaborator calls respect ctx; bound them with a caller-supplied
// deadline to get ErrTimeout instead of an indefinite hang.
func (p *Pipeline) Retrieve(ctx context.Context, req *models.RetrieveRequest) (*models.RetrieveResponse, error) {
	startTime := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	intent := policy.AnalyzeIntent(req.Query)
	targetSystem := req.TargetSystem
	if targetSystem == "" {
		targetSystem = intent.System
	}
	quotas := req.Quotas
	if quotas == nil {
		quotas = intent.QuotasFor(p.policyCfg)
	}

	queryVec, err := p.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, stageError("embed query", ErrEmbedding, err)
	}

	candidates, err := p.retrieveCandidates(ctx, queryVec, req.CandidatePool)
	if err != nil {
		return nil, err
	}

	filter := policy.NewHardFilter(req.ExcludedStatuses, req.ExcludedDocTypes)
	candidates = filter.Apply(candidates)

	qctx := &policy.QueryContext{Intent: intent, TargetSystem: targetSystem, Now: now}
	p.scorer.Score(qctx, candidates)
	policy.SortCandidates(candidates)

	selected := policy.Select(candidates, req.TopK, quotas)

	p.logger.Debug("retrieval complete",
		zap.String("query", req.Query),
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)),
		zap.String("target_system", targetSystem),
	)

	return &models.RetrieveResponse{
		Query:     req.Query,
		Results:   assemble(selected),
		QueryTime: time.Since(startTime).Milliseconds(),
	}, nil
}

// retrieveCandidates issues the nearest-neighbor search and materializes
// candidates with resolved chunk and document metadata. Hits whose chunk or
// document is missing from the store are dangling index references: skipped
// and logged, never fatal.
func (p *Pipeline) retrieveCandidates(ctx context.Context, queryVec []float32, pool int) ([]*models.Candidate, error) {
	if pool <= 0 {
		return nil, fmt.Errorf("candidate pool must be positive, got %d", pool)
	}
	if p.index.Size() == 0 {
		return nil, fmt.Errorf("search index: %w: index is empty", ErrIndexUnavailable)
	}
	hits, err := p.index.Search(ctx, queryVec, pool)
	if err != nil {
		return nil, stageError("search index", ErrIndexUnavailable, err)
	}

	candidates := make([]*models.Candidate, 0, len(hits))
	for _, hit := range hits {
		chunk, err := p.store.GetChunk(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				p.logger.Warn("dangling chunk reference in index, skipping",
					zap.String("chunk_id", hit.ID))
				continue
			}
			return nil, fmt.Errorf("lookup chunk %s: %w", hit.ID, err)
		}
		doc, err := p.store.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				p.logger.Warn("chunk references missing document, skipping",
					zap.String("chunk_id", hit.ID),
					zap.String("doc_id", chunk.DocumentID))
				continue
			}
			return nil, fmt.Errorf("lookup document %s: %w", chunk.DocumentID, err)
		}
		candidates = append(candidates, &models.Candidate{
			ChunkID:  hit.ID,
			RawScore: hit.Score,
			Chunk:    chunk,
			Document: doc,
		})
	}
	return candidates, nil
}
