package constants

// Engine tuning defaults for MinHash signature estimation and LSH banding.
//
// The signature agreement fraction is an unbiased estimator of Jaccard
// similarity with standard error 1/sqrt(N); N = 128 keeps the error near 9%
// while a signature still fits in one kilobyte. The banding split (B bands of
// R rows, B*R = N) shapes the candidate probability curve 1-(1-s^R)^B: more
// bands raise recall, more rows per band raise precision.
//
// References:
// - Broder, A. (1997). On the resemblance and containment of documents
// - Leskovec, Rajaraman, Ullman. Mining of Massive Datasets, ch. 3
const (
	// DefaultNumHashes is the MinHash signature length.
	DefaultNumHashes = 128

	// DefaultShingleSize is the character window width for shingling.
	// Three characters is small enough to survive identifier renames while
	// still carrying local structure.
	DefaultShingleSize = 3

	// DefaultNumBands is the LSH band count.
	DefaultNumBands = 16

	// DefaultRowsPerBand is the number of signature positions per band.
	// DefaultNumBands * DefaultRowsPerBand must equal DefaultNumHashes.
	DefaultRowsPerBand = 8

	// DefaultSimilarityThreshold is the minimum estimated similarity for a
	// candidate pair to survive the pre-filter.
	DefaultSimilarityThreshold = 0.5

	// DefaultClusterThreshold is the minimum exact similarity for files to
	// be grouped into one cluster.
	DefaultClusterThreshold = 0.75
)

// DefaultHashSeed seeds the deterministic generation of the hash function
// family so signatures are reproducible across processes.
const DefaultHashSeed = 0x5eed1234cafebabe
