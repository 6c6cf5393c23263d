package embedding

import (
	"hash/fnv"
	"math"
	"strings"
)

// knuth multiplicative constant, spreads each word over several positions
const positionStride = 2654435761

// scatterSlots is how many vector positions each word contributes to
const scatterSlots = 3

// fillDimensions is how many low-index dimensions get a length/diversity
// signal when nothing else landed there
const fillDimensions = 8

// Fallback computes a deterministic offline embedding of exactly dim values.
// Each word's normalized frequency is scattered across hash-derived positions
// with a small cosine-based spread, still-zero low dimensions are filled from
// text length and character diversity, and the result is L2-normalized.
// Identical input text always yields a bit-identical vector; empty input
// yields the zero vector.
func Fallback(text string, dim int) []float32 {
	if dim <= 0 {
		return nil
	}
	vec := make([]float32, dim)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return vec
	}

	words := strings.Fields(strings.ToLower(trimmed))
	weight := 1.0 / float32(len(words))

	// Iterate the word list in order, not a frequency map, so float addition
	// order is stable and the output is bit-identical across calls.
	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		seed := h.Sum32()

		for k := uint32(0); k < scatterSlots; k++ {
			pos := int((seed + k*positionStride) % uint32(dim))
			spread := float32(math.Cos(float64((seed+k)%360) * math.Pi / 180))
			vec[pos] += weight * (1 + 0.25*spread)
		}
	}

	diversity := distinctRunes(trimmed)
	for i := 0; i < fillDimensions && i < dim; i++ {
		if vec[i] == 0 {
			vec[i] = float32((len(trimmed)%101)+diversity+i+1) / 1000
		}
	}

	normalize(vec)
	return vec
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// normalize scales the vector to unit L2 norm in place, skipping zero vectors
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
