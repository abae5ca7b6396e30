package service

import (
	"context"
	"sort"
	"time"

	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/analyzer"
	"github.com/Anorak001/cide/internal/constants"
)

// BatchServiceImpl implements the hybrid batch comparator: a cheap MinHash/LSH
// candidate stage feeding an expensive exact comparator. Exact mode skips the
// pre-filter and scores every pair.
type BatchServiceImpl struct {
	comparator domain.ExactComparator
	progress   domain.ProgressReporter
}

// NewBatchService creates a batch service. A nil progress reporter disables
// progress output.
func NewBatchService(comparator domain.ExactComparator, progress domain.ProgressReporter) *BatchServiceImpl {
	return &BatchServiceImpl{
		comparator: comparator,
		progress:   progress,
	}
}

// resolveIndexConfig maps request tuning fields onto an index configuration.
// Zero values fall back to defaults. An explicit hash count without explicit
// band geometry derives (bands, rows) from the candidate threshold.
func resolveIndexConfig(req *domain.BatchRequest) (analyzer.IndexConfig, error) {
	config := analyzer.DefaultIndexConfig()

	if req.ShingleSize > 0 {
		config.ShingleSize = req.ShingleSize
	}
	if req.MinHashThreshold > 0 {
		config.SimilarityThreshold = req.MinHashThreshold
	}

	switch {
	case req.NumHashes > 0 && req.NumBands > 0 && req.RowsPerBand > 0:
		config.NumHashes = req.NumHashes
		config.NumBands = req.NumBands
		config.RowsPerBand = req.RowsPerBand
	case req.NumHashes > 0:
		bands, rows, err := analyzer.OptimalBandParameters(config.SimilarityThreshold, req.NumHashes)
		if err != nil {
			return config, err
		}
		config.NumHashes = req.NumHashes
		config.NumBands = bands
		config.RowsPerBand = rows
	case req.NumBands > 0 && req.RowsPerBand > 0:
		config.NumBands = req.NumBands
		config.RowsPerBand = req.RowsPerBand
		config.NumHashes = req.NumBands * req.RowsPerBand
	}

	return config, config.Validate()
}

// CompareAllPairs scores every document pair with the exact comparator and
// builds the full similarity matrix.
func (s *BatchServiceImpl) CompareAllPairs(ctx context.Context, documents []domain.Document, req *domain.BatchRequest) (*domain.BatchResponse, error) {
	start := time.Now()
	n := len(documents)
	matrix := identityMatrix(n)

	totalPairs := n * (n - 1) / 2
	s.startProgress(totalPairs)

	comparisons := make([]*domain.PairComparison, 0, totalPairs)
	processed := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := ctx.Err(); err != nil {
				s.finishProgress(false)
				return nil, err
			}

			pc := s.comparePair(ctx, documents, i, j, req.Language)
			comparisons = append(comparisons, pc)
			if !pc.Failed {
				matrix[i][j] = pc.Similarity
				matrix[j][i] = pc.Similarity
			}

			processed++
			s.updateProgress(processed, totalPairs)
		}
	}
	s.finishProgress(true)

	resp := s.buildResponse(documents, req, matrix, comparisons, start)
	resp.Mode = "exact"
	resp.TotalPossiblePairs = totalPairs
	return resp, nil
}

// CompareAllPairsOptimized runs the exact comparator only on pairs the
// MinHash/LSH stage surfaces as candidates. Non-candidate pairs are never
// touched by the comparator; their matrix cells stay zero.
func (s *BatchServiceImpl) CompareAllPairsOptimized(ctx context.Context, documents []domain.Document, req *domain.BatchRequest) (*domain.BatchResponse, error) {
	start := time.Now()
	n := len(documents)
	matrix := identityMatrix(n)

	config, err := resolveIndexConfig(req)
	if err != nil {
		return nil, err
	}

	// Fresh index per batch: no state survives between runs
	index, err := analyzer.NewSimilarityIndex(config)
	if err != nil {
		return nil, err
	}
	for _, doc := range documents {
		index.AddDocument(doc.Content, doc.Name)
	}

	candidates, err := index.AllSimilarPairs(config.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	s.startProgress(len(candidates))

	comparisons := make([]*domain.PairComparison, 0, len(candidates))
	for k, pair := range candidates {
		if err := ctx.Err(); err != nil {
			s.finishProgress(false)
			return nil, err
		}

		pc := s.comparePair(ctx, documents, pair.DocID1, pair.DocID2, req.Language)
		pc.MinHashEstimate = pair.Similarity
		comparisons = append(comparisons, pc)
		if !pc.Failed {
			matrix[pair.DocID1][pair.DocID2] = pc.Similarity
			matrix[pair.DocID2][pair.DocID1] = pc.Similarity
		}

		s.updateProgress(k+1, len(candidates))
	}
	s.finishProgress(true)

	resp := s.buildResponse(documents, req, matrix, comparisons, start)
	resp.Mode = "optimized"

	totalPairs := n * (n - 1) / 2
	resp.TotalPossiblePairs = totalPairs
	resp.ComparisonsSaved = totalPairs - len(candidates)
	if totalPairs > 0 {
		resp.EfficiencyPercent = float64(resp.ComparisonsSaved) / float64(totalPairs) * 100.0
	}

	speedup := 1.0
	if len(candidates) > 0 {
		speedup = float64(totalPairs) / float64(len(candidates))
	} else if totalPairs > 0 {
		speedup = float64(totalPairs)
	}
	resp.Optimization = &domain.OptimizationInfo{
		MinHashEnabled: true,
		Threshold:      config.SimilarityThreshold,
		Speedup:        speedup,
	}

	return resp, nil
}

// FindClusters groups documents into duplicate clusters. Similarities come
// from the optimized pipeline; grouping is greedy, seeding a cluster from the
// first unassigned document and absorbing every unassigned document whose
// similarity to the seed clears the cluster threshold.
func (s *BatchServiceImpl) FindClusters(ctx context.Context, documents []domain.Document, req *domain.BatchRequest) (*domain.BatchResponse, error) {
	threshold := req.ClusterThreshold
	if threshold <= 0 {
		threshold = constants.DefaultClusterThreshold
	}
	if threshold > 1.0 {
		return nil, domain.NewInvalidThresholdError(threshold)
	}

	// The candidate stage must not filter below the cluster threshold,
	// otherwise qualifying pairs never reach the comparator.
	clusterReq := *req
	if clusterReq.MinHashThreshold <= 0 || clusterReq.MinHashThreshold > threshold {
		clusterReq.MinHashThreshold = threshold * 0.8
	}

	resp, err := s.CompareAllPairsOptimized(ctx, documents, &clusterReq)
	if err != nil {
		return nil, err
	}

	resp.Clusters = greedyClusters(documents, resp.Matrix, threshold)
	resp.Mode = "clusters"
	return resp, nil
}

// QuickCheck estimates similarity between two documents from their MinHash
// signatures alone. No index is built and no exact comparison runs.
func (s *BatchServiceImpl) QuickCheck(ctx context.Context, content1, content2 string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hasher := analyzer.NewDefaultMinHasher()
	sig1 := hasher.ComputeSignature(content1)
	sig2 := hasher.ComputeSignature(content2)
	return analyzer.EstimateSimilarity(sig1, sig2)
}

// comparePair runs the exact comparator on one pair. Failures stay scoped to
// the pair: the batch continues and the pair surfaces as a partial result.
func (s *BatchServiceImpl) comparePair(ctx context.Context, documents []domain.Document, i, j int, language string) *domain.PairComparison {
	pc := &domain.PairComparison{
		DocID1: i,
		DocID2: j,
		File1:  documents[i].Name,
		File2:  documents[j].Name,
	}

	result, err := s.comparator.Compare(ctx, documents[i].Content, documents[j].Content, language)
	if err != nil {
		wrapped := domain.NewComparisonFailedError(documents[i].Name, documents[j].Name, err)
		pc.Failed = true
		pc.FailureReason = wrapped.Error()
		return pc
	}

	pc.Similarity = result.Similarity
	pc.IdenticalAST = result.IdenticalAST
	return pc
}

// buildResponse assembles statistics, rankings, and sorted comparisons
func (s *BatchServiceImpl) buildResponse(documents []domain.Document, req *domain.BatchRequest, matrix [][]float64, comparisons []*domain.PairComparison, start time.Time) *domain.BatchResponse {
	sortComparisons(comparisons, req.SortBy)

	files := make([]domain.FileSummary, len(documents))
	for i := range documents {
		files[i] = domain.FileSummary{Name: documents[i].Name, Lines: documents[i].LineCount()}
	}

	return &domain.BatchResponse{
		Language:        req.Language,
		FileCount:       len(documents),
		ComparisonCount: len(comparisons),
		Matrix:          matrix,
		Comparisons:     comparisons,
		Statistics:      computeStatistics(comparisons),
		FileRankings:    computeRankings(documents, matrix),
		Files:           files,
		Duration:        time.Since(start).Milliseconds(),
		Success:         true,
	}
}

// identityMatrix allocates an n*n matrix with 1.0 on the diagonal
func identityMatrix(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	return matrix
}

// computeStatistics summarizes successful comparisons. Failed pairs are
// excluded so a single parse error cannot skew the batch average.
func computeStatistics(comparisons []*domain.PairComparison) *domain.BatchStatistics {
	stats := &domain.BatchStatistics{}
	count := 0
	total := 0.0
	for _, pc := range comparisons {
		if pc.Failed {
			continue
		}
		if count == 0 {
			stats.MinSimilarity = pc.Similarity
			stats.MaxSimilarity = pc.Similarity
			stats.MostSimilarPair = pc
		}
		total += pc.Similarity
		if pc.Similarity < stats.MinSimilarity {
			stats.MinSimilarity = pc.Similarity
		}
		if pc.Similarity > stats.MaxSimilarity {
			stats.MaxSimilarity = pc.Similarity
			stats.MostSimilarPair = pc
		}
		count++
	}
	if count > 0 {
		stats.AverageSimilarity = total / float64(count)
	}
	return stats
}

// computeRankings ranks each file by its average similarity against the rest
// of the batch, highest first.
func computeRankings(documents []domain.Document, matrix [][]float64) []*domain.FileRanking {
	n := len(documents)
	if n < 2 {
		return nil
	}

	rankings := make([]*domain.FileRanking, 0, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < n; j++ {
			if i != j {
				total += matrix[i][j]
			}
		}
		rankings = append(rankings, &domain.FileRanking{
			File:              documents[i].Name,
			AverageSimilarity: total / float64(n-1),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].AverageSimilarity != rankings[j].AverageSimilarity {
			return rankings[i].AverageSimilarity > rankings[j].AverageSimilarity
		}
		return rankings[i].File < rankings[j].File
	})
	return rankings
}

// sortComparisons orders pairs per the requested criteria. Similarity sorts
// descending with failed pairs last; name sorts ascending by (File1, File2).
func sortComparisons(comparisons []*domain.PairComparison, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByName:
		sort.Slice(comparisons, func(i, j int) bool {
			if comparisons[i].File1 != comparisons[j].File1 {
				return comparisons[i].File1 < comparisons[j].File1
			}
			return comparisons[i].File2 < comparisons[j].File2
		})
	default:
		sort.Slice(comparisons, func(i, j int) bool {
			if comparisons[i].Failed != comparisons[j].Failed {
				return !comparisons[i].Failed
			}
			if comparisons[i].Similarity != comparisons[j].Similarity {
				return comparisons[i].Similarity > comparisons[j].Similarity
			}
			if comparisons[i].DocID1 != comparisons[j].DocID1 {
				return comparisons[i].DocID1 < comparisons[j].DocID1
			}
			return comparisons[i].DocID2 < comparisons[j].DocID2
		})
	}
}

// greedyClusters seeds each cluster from the lowest-id unassigned document
// and absorbs unassigned documents similar enough to the seed.
func greedyClusters(documents []domain.Document, matrix [][]float64, threshold float64) []*domain.Cluster {
	n := len(documents)
	assigned := make([]bool, n)
	var clusters []*domain.Cluster

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}

		members := []int{i}
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if !assigned[j] && matrix[i][j] >= threshold {
				members = append(members, j)
				assigned[j] = true
			}
		}

		if len(members) < 2 {
			continue
		}

		files := make([]string, len(members))
		for k, m := range members {
			files[k] = documents[m].Name
		}

		total := 0.0
		pairs := 0
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				total += matrix[members[a]][members[b]]
				pairs++
			}
		}

		clusters = append(clusters, &domain.Cluster{
			ID:                len(clusters) + 1,
			Files:             files,
			AverageSimilarity: total / float64(pairs),
		})
	}

	return clusters
}

func (s *BatchServiceImpl) startProgress(total int) {
	if s.progress == nil {
		return
	}
	s.progress.Initialize(total)
	s.progress.Start()
}

func (s *BatchServiceImpl) updateProgress(processed, total int) {
	if s.progress != nil {
		s.progress.Update(processed, total)
	}
}

func (s *BatchServiceImpl) finishProgress(success bool) {
	if s.progress != nil {
		s.progress.Complete(success)
	}
}
