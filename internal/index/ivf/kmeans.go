package ivf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// lloydIterations bounds the refinement passes. Convergence beyond a
// handful of passes buys almost no recall for cosine partitioning.
const lloydIterations = 10

// kmeans partitions unit vectors into k clusters and returns the unit
// centroids. Seeding is k-means++ with a fixed seed so training is
// deterministic for a given input. Assignment passes are parallelised
// across CPUs.
func kmeans(ctx context.Context, vecs [][]float32, k int, seed int64) ([][]float32, error) {
	if len(vecs) == 0 {
		return nil, errors.New("kmeans: no vectors to train on")
	}
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: cluster count must be positive, got %d", k)
	}
	if k > len(vecs) {
		k = len(vecs)
	}
	dim := len(vecs[0])

	centroids := seedCentroids(vecs, k, seed)
	assign := make([]int, len(vecs))

	for iter := 0; iter < lloydIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := assignAll(ctx, vecs, centroids, assign); err != nil {
			return nil, err
		}

		// Recompute centroids as normalised means.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, c := range assign {
			counts[c]++
			for d, x := range vecs[i] {
				sums[c][d] += float64(x)
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // keep previous centroid for empty clusters
			}
			next := make([]float32, dim)
			for d := range next {
				next[d] = float32(sums[c][d] / float64(counts[c]))
			}
			centroids[c] = normalise(next)
		}
	}

	return centroids, nil
}

// assignAll writes the nearest-centroid index for every vector into
// assign, sharded across an errgroup.
func assignAll(ctx context.Context, vecs, centroids [][]float32, assign []int) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(vecs) {
		workers = len(vecs)
	}
	shard := (len(vecs) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > len(vecs) {
			hi = len(vecs)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				assign[i] = nearestCentroid(vecs[i], centroids)
			}
			return nil
		})
	}
	return g.Wait()
}

// nearestCentroid returns the index of the most similar centroid.
// Ties resolve to the lowest index.
func nearestCentroid(vec []float32, centroids [][]float32) int {
	best := 0
	bestScore := math.Inf(-1)
	for c, centroid := range centroids {
		if s := dot(vec, centroid); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best
}

// seedCentroids picks k initial centroids with k-means++: the first
// uniformly, each next with probability proportional to its squared
// cosine distance from the nearest chosen centroid.
func seedCentroids(vecs [][]float32, k int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, clone(vecs[rng.Intn(len(vecs))]))

	dists := make([]float64, len(vecs))
	for len(centroids) < k {
		var total float64
		for i, v := range vecs {
			d := 1 - dot(v, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dists[i] {
				dists[i] = d
			}
			total += dists[i] * dists[i]
		}
		if total == 0 {
			// All remaining vectors coincide with a centroid.
			centroids = append(centroids, clone(vecs[rng.Intn(len(vecs))]))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		pick := len(vecs) - 1
		for i := range vecs {
			acc += dists[i] * dists[i]
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, clone(vecs[pick]))
	}
	return centroids
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
