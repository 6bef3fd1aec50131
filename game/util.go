package game

import "math"

// mod returns positive modulo (Go's % can return negative).
func mod(a, b float32) float32 {
	return float32(math.Mod(float64(a)+float64(b), float64(b)))
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// normalizeAngle wraps angle to [-pi, pi] with single-step correction.
// Safe when angle changes are bounded per tick.
func normalizeAngle(a float32) float32 {
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001,
// avoids the float64 round trip of math.Sin in the movement hot path.
func fastSin(x float32) float32 {
	x = normalizeAngle(x)
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// mix64 is a splitmix64 step, used to derive per-creature per-tick
// random streams that are stable across worker scheduling.
func mix64(v uint64) uint64 {
	v += 0x9e3779b97f4a7c15
	v = (v ^ (v >> 30)) * 0xbf58476d1ce4e5b9
	v = (v ^ (v >> 27)) * 0x94d049bb133111eb
	return v ^ (v >> 31)
}

// tickRand is a tiny deterministic stream for one creature in one tick.
// Workers cannot share the game RNG, so each creature draws from a
// stream seeded by (world seed, creature ID, tick).
type tickRand struct {
	state uint64
}

func newTickRand(seed uint64, id uint32, tick int32) tickRand {
	return tickRand{state: mix64(seed ^ uint64(id)<<32 ^ uint64(uint32(tick)))}
}

// uniform returns a draw in [0, 1).
func (r *tickRand) uniform() float32 {
	r.state = mix64(r.state)
	return float32(r.state>>40) / float32(1<<24)
}

// signed returns a draw in [-1, 1).
func (r *tickRand) signed() float32 {
	return 2*r.uniform() - 1
}
