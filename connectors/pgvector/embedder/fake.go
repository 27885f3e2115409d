package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
)

// fakeClient produces deterministic pseudo-random unit vectors seeded by the text.
// It is meant for tests and for trying the destination without an embedding provider:
// identical texts always map to identical vectors.
type fakeClient struct {
	dimensions int
}

func (f fakeClient) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = f.embed(text)
	}
	return vectors, nil
}

func (f fakeClient) embed(text string) []float32 {
	seeder := fnv.New64a()
	_, _ = seeder.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(seeder.Sum64())))
	vector := make([]float32, f.dimensions)
	var norm float64
	for i := range vector {
		v := rng.Float64()*2 - 1
		vector[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vector
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}
