// Package index groups the vector index backends implementing the
// driven.VectorIndex port.
//
// Two backends exist, selected via configuration:
//
//   - bruteforce: exact scan over every vector. Used by tests and for
//     small corpora where the scan cost is negligible.
//   - ivf: inverted-file index. Vectors are partitioned into clusters
//     and only the nearest few clusters are probed per query, trading
//     recall for speed.
//
// Both backends normalise vectors to unit length on insert and query,
// so the similarity they report is the raw cosine in [-1, 1]. Ordering
// is deterministic: descending similarity, ascending id on ties.
package index
