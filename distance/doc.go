// Package distance holds sparse, symmetric pairwise-distance matrices over a
// fixed sample ordering and turns them into thresholded graphs.
//
// Indexing contract: a Matrix of dimension N describes samples 0..N-1, where
// index i is the i-th sample of the owning dataset's canonical order. Only
// stored entries exist; an entry may hold an explicit zero distance (identical
// genomes), which is distinct from an absent entry. Self-distances are never
// stored. Both (i, j) and (j, i) are stored so that rows can be scanned
// directly.
package distance
