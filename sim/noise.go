package sim

import (
	"math"
)

// Hash coefficients shared with the WGSL kernel. The classic fract-sin hash:
// fract(sin(dot(vec2(seed, time), vec2(12.9898, 78.233))) * 43758.5453).
const (
	hashCoeffSeed = 12.9898
	hashCoeffTime = 78.233
	hashScale     = 43758.5453
)

// Random maps (seed, time) to a reproducible pseudo-random value in [0, 1).
// Pure and stateless: identical inputs always produce identical outputs, so
// every parallel invocation can draw independent-looking randomness without
// shared RNG state.
func Random(seed, time float32) float32 {
	dot := float64(seed)*hashCoeffSeed + float64(time)*hashCoeffTime
	s := math.Sin(dot) * hashScale
	v := float32(s - math.Floor(s))
	if v < 0 {
		v += 1
	}
	if v >= 1 {
		v = 0
	}
	return v
}

// GenAbsRange draws from [0, magnitude).
func GenAbsRange(seed, magnitude, time float32) float32 {
	return float32(math.Abs(float64(Random(seed, time)))) * magnitude
}

// GenDynRange draws from a signed oscillating range bounded by magnitude.
// Used for diffusion perturbation of spawn velocity.
func GenDynRange(seed, magnitude, time float32) float32 {
	return float32(math.Sin(float64(Random(seed, time)*60.0))) * magnitude
}
