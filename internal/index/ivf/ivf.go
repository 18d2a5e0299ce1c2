// Package ivf provides an inverted-file (IVF) approximate vector index.
//
// Vectors are partitioned into clusters by k-means; a query scores the
// cluster centroids and scans only the nearest NProbe posting lists.
// With NProbe == NLists the search is exact.
//
// Re-clustering runs in the background: a new generation of centroids
// and posting lists is trained from a snapshot while readers keep
// serving the last complete generation, then swapped in under a brief
// write lock. A failed training pass marks the index unavailable rather
// than serving a partial generation.
package ivf

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// trainSeed makes clustering deterministic for a given corpus.
const trainSeed = 1

// DefaultMinTrainSize is the corpus size below which the index scans
// flat instead of clustering. Clustering a tiny corpus costs more than
// it saves.
const DefaultMinTrainSize = 256

// Config tunes the index.
type Config struct {
	// Dimension is the required vector length.
	Dimension int

	// NLists is the cluster count. More lists mean finer partitions:
	// faster probes, lower recall at a fixed NProbe.
	NLists int

	// NProbe is the number of clusters scanned per query.
	NProbe int

	// RetrainInterval is the minimum spacing between background
	// re-clustering passes.
	RetrainInterval time.Duration

	// MinTrainSize defers clustering until the corpus reaches this size.
	MinTrainSize int
}

// generation is one complete clustering of the corpus. Immutable after
// the swap except for posting-list appends performed under the index
// write lock.
type generation struct {
	centroids [][]float32
	lists     [][]int64
}

// Index is an IVF vector index.
type Index struct {
	cfg Config

	mu          sync.RWMutex
	vecs        map[int64][]float32 // unit vectors, source of truth
	gen         *generation         // nil until first training
	assign      map[int64]int       // id -> posting list in gen
	dirty       int                 // mutations since last training
	unavailable bool
	closed      bool

	limiter *rate.Limiter
	wg      sync.WaitGroup

	// trainFn is swapped by tests to exercise training failures.
	trainFn func(ctx context.Context, vecs [][]float32, k int, seed int64) ([][]float32, error)
}

// New creates an IVF index.
func New(cfg Config) (*Index, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("ivf: dimension must be positive, got %d", cfg.Dimension)
	}
	if cfg.NLists <= 0 {
		cfg.NLists = domain.DefaultNLists
	}
	if cfg.NProbe <= 0 {
		cfg.NProbe = domain.DefaultNProbe
	}
	if cfg.NProbe > cfg.NLists {
		cfg.NProbe = cfg.NLists
	}
	if cfg.RetrainInterval <= 0 {
		cfg.RetrainInterval = domain.DefaultRetrainInterval
	}
	if cfg.MinTrainSize <= 0 {
		cfg.MinTrainSize = DefaultMinTrainSize
	}

	return &Index{
		cfg:     cfg,
		vecs:    make(map[int64][]float32),
		assign:  make(map[int64]int),
		limiter: rate.NewLimiter(rate.Every(cfg.RetrainInterval), 1),
		trainFn: kmeans,
	}, nil
}

// Add inserts or replaces the vector for the given id. When a trained
// generation exists the vector joins the posting list of its nearest
// centroid immediately; no rebuild is needed to make it searchable.
func (i *Index) Add(ctx context.Context, id int64, embedding []float32) error {
	if len(embedding) != i.cfg.Dimension {
		return fmt.Errorf("ivf: vector length %d: %w", len(embedding), domain.ErrDimensionMismatch)
	}
	unit := normalise(embedding)

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return fmt.Errorf("ivf: add after close: %w", domain.ErrIndexUnavailable)
	}
	_, existed := i.vecs[id]
	i.vecs[id] = unit
	if i.gen != nil {
		if existed {
			i.removeFromList(id)
		}
		list := nearestCentroid(unit, i.gen.centroids)
		i.gen.lists[list] = append(i.gen.lists[list], id)
		i.assign[id] = list
	}
	i.dirty++
	retrain := i.shouldRetrain()
	i.mu.Unlock()

	if retrain {
		i.retrainAsync(ctx)
	}
	return nil
}

// Delete removes a vector from the index. Unknown ids are a no-op.
func (i *Index) Delete(ctx context.Context, id int64) error {
	i.mu.Lock()
	if _, ok := i.vecs[id]; !ok {
		i.mu.Unlock()
		return nil
	}
	delete(i.vecs, id)
	i.removeFromList(id)
	i.dirty++
	retrain := i.shouldRetrain()
	i.mu.Unlock()

	if retrain {
		i.retrainAsync(ctx)
	}
	return nil
}

// Search returns up to k hits ordered by descending similarity, ties
// broken by ascending id. Before the first training pass, and for
// corpora below MinTrainSize, the scan is flat and therefore exact.
func (i *Index) Search(ctx context.Context, query []float32, k int, allow func(int64) bool) ([]driven.VectorHit, error) {
	if len(query) != i.cfg.Dimension {
		return nil, fmt.Errorf("ivf: query length %d: %w", len(query), domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}
	q := normalise(query)

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.unavailable {
		return nil, fmt.Errorf("ivf: last rebuild failed: %w", domain.ErrIndexUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hits []driven.VectorHit
	if i.gen == nil {
		hits = make([]driven.VectorHit, 0, len(i.vecs))
		for id, vec := range i.vecs {
			if allow != nil && !allow(id) {
				continue
			}
			hits = append(hits, driven.VectorHit{ID: id, Similarity: dot(q, vec)})
		}
	} else {
		hits = i.probe(ctx, q, allow)
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].ID < hits[b].ID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// probe scans the posting lists of the NProbe nearest centroids.
// Caller holds at least a read lock.
func (i *Index) probe(ctx context.Context, q []float32, allow func(int64) bool) []driven.VectorHit {
	type rankedList struct {
		list  int
		score float64
	}
	ranked := make([]rankedList, len(i.gen.centroids))
	for c, centroid := range i.gen.centroids {
		ranked[c] = rankedList{list: c, score: dot(q, centroid)}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].list < ranked[b].list
	})

	nprobe := i.cfg.NProbe
	if nprobe > len(ranked) {
		nprobe = len(ranked)
	}

	var hits []driven.VectorHit
	for p := 0; p < nprobe; p++ {
		if ctx.Err() != nil {
			return hits
		}
		for _, id := range i.gen.lists[ranked[p].list] {
			vec, ok := i.vecs[id]
			if !ok {
				continue // deleted since the list was built
			}
			if allow != nil && !allow(id) {
				continue
			}
			hits = append(hits, driven.VectorHit{ID: id, Similarity: dot(q, vec)})
		}
	}
	return hits
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vecs)
}

// Close stops background training and releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()
	i.wg.Wait()
	return nil
}

// Rebuild re-clusters the whole corpus synchronously. Queries keep
// serving the previous generation until the swap.
func (i *Index) Rebuild(ctx context.Context) error {
	i.mu.RLock()
	ids := make([]int64, 0, len(i.vecs))
	snapshot := make([][]float32, 0, len(i.vecs))
	for id, vec := range i.vecs {
		ids = append(ids, id)
		snapshot = append(snapshot, vec)
	}
	trainFn := i.trainFn
	i.mu.RUnlock()

	if len(ids) == 0 {
		i.mu.Lock()
		i.gen = nil
		i.assign = make(map[int64]int)
		i.dirty = 0
		i.mu.Unlock()
		return nil
	}

	centroids, err := trainFn(ctx, snapshot, i.cfg.NLists, trainSeed)
	if err != nil {
		i.mu.Lock()
		i.unavailable = true
		i.mu.Unlock()
		logger.Warn("IVF rebuild failed, index marked unavailable: %v", err)
		return fmt.Errorf("ivf: training: %v: %w", err, domain.ErrIndexUnavailable)
	}

	next := &generation{
		centroids: centroids,
		lists:     make([][]int64, len(centroids)),
	}
	assign := make(map[int64]int, len(ids))
	for n, id := range ids {
		list := nearestCentroid(snapshot[n], next.centroids)
		next.lists[list] = append(next.lists[list], id)
		assign[id] = list
	}

	i.mu.Lock()
	// Vectors added while training ran are not in the snapshot; place
	// them into the new generation before the swap.
	for id, vec := range i.vecs {
		if _, ok := assign[id]; ok {
			continue
		}
		list := nearestCentroid(vec, next.centroids)
		next.lists[list] = append(next.lists[list], id)
		assign[id] = list
	}
	i.gen = next
	i.assign = assign
	i.dirty = 0
	i.unavailable = false
	i.mu.Unlock()

	logger.Debug("IVF rebuild complete: %d vectors, %d lists", len(assign), len(centroids))
	return nil
}

// removeFromList drops id from its posting list. Caller holds the
// write lock.
func (i *Index) removeFromList(id int64) {
	list, ok := i.assign[id]
	if !ok || i.gen == nil {
		return
	}
	entries := i.gen.lists[list]
	for n, e := range entries {
		if e == id {
			i.gen.lists[list] = append(entries[:n], entries[n+1:]...)
			break
		}
	}
	delete(i.assign, id)
}

// shouldRetrain decides whether a background re-clustering is due and,
// if so, reserves the worker slot. Caller holds the write lock; a true
// return must be followed by retrainAsync.
func (i *Index) shouldRetrain() bool {
	if i.closed || i.unavailable {
		return false
	}
	if len(i.vecs) < i.cfg.MinTrainSize {
		return false
	}
	// Retrain once a quarter of the corpus has churned.
	if i.gen != nil && i.dirty*4 < len(i.vecs) {
		return false
	}
	if !i.limiter.Allow() {
		return false
	}
	// Reserve under the lock: Close checks closed and waits on the same
	// group, so it can never observe a zero counter between the decision
	// and the goroutine start.
	i.wg.Add(1)
	return true
}

// retrainAsync runs Rebuild in the background, completing the
// reservation made by shouldRetrain. The rebuild error is already
// reflected in the unavailable flag; subsequent searches surface it.
func (i *Index) retrainAsync(ctx context.Context) {
	go func() {
		defer i.wg.Done()
		// Detach from the caller's deadline; training outlives requests.
		_ = i.Rebuild(context.WithoutCancel(ctx))
	}()
}
