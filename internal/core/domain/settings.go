package domain

import "time"

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendBruteForce scans every vector. Exact; suitable for
	// tests and small corpora.
	IndexBackendBruteForce IndexBackend = "bruteforce"

	// IndexBackendIVF partitions vectors into clusters and probes a
	// subset per query. Approximate; trades recall for speed.
	IndexBackendIVF IndexBackend = "ivf"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendBruteForce, IndexBackendIVF:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendBruteForce:
		return "Brute Force (exact scan)"
	case IndexBackendIVF:
		return "IVF (clustered approximate search)"
	default:
		return "Unknown"
	}
}

// Default index tuning values. NLists matches the reference deployment;
// NProbe balances recall against probe cost for corpora in the
// tens-of-thousands range.
const (
	DefaultNLists          = 100
	DefaultNProbe          = 8
	DefaultRetrainInterval = 5 * time.Minute
)

// Settings holds the store-wide configuration. Dimension is fixed at
// store creation; changing it requires a full reindex.
type Settings struct {
	// DataDir is the directory holding the SQLite database.
	DataDir string

	// Dimension is the embedding width enforced at every insert and
	// query boundary.
	Dimension int

	// Backend selects the vector index implementation.
	Backend IndexBackend

	// NLists is the IVF cluster count.
	NLists int

	// NProbe is the number of clusters probed per IVF query.
	NProbe int

	// RetrainInterval is the minimum spacing between IVF re-clustering
	// passes.
	RetrainInterval time.Duration

	// SimilarityThreshold is the default search threshold.
	SimilarityThreshold float64

	// MaxResults is the default search result cap.
	MaxResults int
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() Settings {
	return Settings{
		Dimension:           DefaultDimension,
		Backend:             IndexBackendIVF,
		NLists:              DefaultNLists,
		NProbe:              DefaultNProbe,
		RetrainInterval:     DefaultRetrainInterval,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxResults:          DefaultMaxResults,
	}
}

// Normalise fills unset fields with defaults and clamps NProbe to NLists.
func (s Settings) Normalise() Settings {
	def := DefaultSettings()
	if s.Dimension <= 0 {
		s.Dimension = def.Dimension
	}
	if !s.Backend.IsValid() {
		s.Backend = def.Backend
	}
	if s.NLists <= 0 {
		s.NLists = def.NLists
	}
	if s.NProbe <= 0 {
		s.NProbe = def.NProbe
	}
	if s.NProbe > s.NLists {
		s.NProbe = s.NLists
	}
	if s.RetrainInterval <= 0 {
		s.RetrainInterval = def.RetrainInterval
	}
	if s.SimilarityThreshold == 0 {
		s.SimilarityThreshold = def.SimilarityThreshold
	}
	if s.MaxResults <= 0 {
		s.MaxResults = def.MaxResults
	}
	return s
}
