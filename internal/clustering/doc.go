// Package clustering implements K-Means clustering with K-Means++ seeding
// over normalized observation feature vectors.
//
// A run is a single batch: seed k centroids, then alternate assignment
// (nearest centroid by squared Euclidean distance, ties to the lowest
// index) and update (per-dimension mean of members; empty clusters keep
// their previous centroid) until a full pass changes no assignment or the
// iteration cap is reached. Results are heuristic and depend on the seed.
//
// All randomness comes from the *rand.Rand handed to the engine, so a
// fixed seed reproduces assignments exactly. An Engine is not safe for
// concurrent use because *rand.Rand is not.
package clustering
