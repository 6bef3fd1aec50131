// Package genetics defines heritable creature traits and the pure scoring
// functions built on them: similarity, diversity, mate quality, and breeding
// success. Everything here is side-effect free.
package genetics

import "math/rand"

// Genetics holds a creature's heritable traits, all normalized to [0, 1].
type Genetics struct {
	Aggression   float32
	Sociability  float32
	Curiosity    float32
	Fertility    float32
	Metabolism   float32
	Size         float32
	Adaptability float32
	Dominance    float32
	Intelligence float32

	// Derived at creation (and after blending)
	Fitness     float32 // overall quality, weighted mean of traits
	ActiveGenes uint8   // traits expressed above the activation floor
	Rare        bool    // carries at least one extreme trait
}

// activationFloor is the value above which a trait counts as expressed.
const activationFloor = 0.15

// rareThreshold marks a trait as extreme for the rarity flag.
const rareThreshold = 0.95

// fitness weights: survival-relevant traits count slightly more.
const (
	wMetabolism   = 0.15
	wAdaptability = 0.15
	wIntelligence = 0.15
	wFertility    = 0.12
	wSize         = 0.11
	wAggression   = 0.08
	wSociability  = 0.08
	wCuriosity    = 0.08
	wDominance    = 0.08
)

// CompatVector is the subset of traits used for genetic compatibility.
// Temperament traits only; physiology is scored separately via fitness.
type CompatVector [5]float32

// Compat returns the compatibility trait vector.
func (g *Genetics) Compat() CompatVector {
	return CompatVector{g.Aggression, g.Sociability, g.Curiosity, g.Adaptability, g.Dominance}
}

// Summary is the trimmed genetic record carried by spatial index candidates.
type Summary struct {
	Compat    CompatVector
	Fertility float32
	Fitness   float32
}

// Summarize trims genetics down to what mate scoring needs.
func (g *Genetics) Summarize() Summary {
	return Summary{Compat: g.Compat(), Fertility: g.Fertility, Fitness: g.Fitness}
}

// traits returns all nine traits for iteration.
func (g *Genetics) traits() [9]float32 {
	return [9]float32{
		g.Aggression, g.Sociability, g.Curiosity, g.Fertility, g.Metabolism,
		g.Size, g.Adaptability, g.Dominance, g.Intelligence,
	}
}

// Derive recomputes Fitness, ActiveGenes, and Rare from the trait values.
// Call after any mutation of the raw traits.
func (g *Genetics) Derive() {
	g.Fitness = g.Aggression*wAggression +
		g.Sociability*wSociability +
		g.Curiosity*wCuriosity +
		g.Fertility*wFertility +
		g.Metabolism*wMetabolism +
		g.Size*wSize +
		g.Adaptability*wAdaptability +
		g.Dominance*wDominance +
		g.Intelligence*wIntelligence

	g.ActiveGenes = 0
	g.Rare = false
	for _, t := range g.traits() {
		if t > activationFloor {
			g.ActiveGenes++
		}
		if t >= rareThreshold {
			g.Rare = true
		}
	}
}

// Similarity returns the mean per-trait closeness of two compatibility
// vectors in [0, 1]. Symmetric; Similarity(v, v) == 1.
func Similarity(a, b CompatVector) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += 1 - d
	}
	return sum / float32(len(a))
}

// Diversity maps genetic similarity to a pairing bonus. The curve is
// deliberately non-monotonic: moderate divergence is ideal, near-clones
// carry inbreeding risk, and very dissimilar pairs are poor matches.
func Diversity(similarity float32) float32 {
	switch {
	case similarity < 0.3:
		return 0.5 // too different
	case similarity < 0.7:
		return 1.0 // ideal range
	case similarity < 0.9:
		return 0.8
	default:
		return 0.3 // inbreeding risk
	}
}

// MateScore rates a breeding candidate. Factors compose multiplicatively,
// so a zero in any one of them disqualifies the pairing outright.
func MateScore(self, cand Summary, selfAgeDays, candAgeDays, maxLifespanDays, distance, maxDistance, fitnessWeight float32) float32 {
	div := Diversity(Similarity(self.Compat, cand.Compat))
	fit := fitnessWeight*cand.Fitness + (1 - fitnessWeight)

	var distFactor float32
	if maxDistance > 0 {
		distFactor = Clamp01(1 - distance/maxDistance)
	}

	var ageGap float32
	if maxLifespanDays > 0 {
		d := selfAgeDays - candAgeDays
		if d < 0 {
			d = -d
		}
		ageGap = Clamp01(2 * d / maxLifespanDays)
	}

	return div * fit * distFactor * (1 - ageGap)
}

// AgeOptimality peaks at the midpoint of a creature's lifespan and falls
// off linearly toward birth and death.
func AgeOptimality(ageDays, lifespanDays float32) float32 {
	if lifespanDays <= 0 {
		return 0
	}
	ratio := Clamp01(ageDays / lifespanDays)
	d := ratio - 0.5
	if d < 0 {
		d = -d
	}
	return 1 - 2*d
}

// BreedingSuccessChance is the probability that a courtship between two
// adults produces a mating. Age optimality is floored at 0.3 so older
// pairs stay viable, just less so.
func BreedingSuccessChance(a, b Summary, ageA, ageB, lifespanA, lifespanB float32) float32 {
	meanFertility := (a.Fertility + b.Fertility) / 2
	meanOpt := (AgeOptimality(ageA, lifespanA) + AgeOptimality(ageB, lifespanB)) / 2
	if meanOpt < 0.3 {
		meanOpt = 0.3
	}
	div := Diversity(Similarity(a.Compat, b.Compat))
	return 0.7 * meanFertility * meanOpt * div
}

// Blend produces offspring genetics from two parents: per-trait midpoint
// plus bounded uniform jitter, clamped to [0, 1]. Derived values are
// recomputed before returning.
func Blend(a, b *Genetics, jitter float32, rng *rand.Rand) Genetics {
	mix := func(x, y float32) float32 {
		v := (x + y) / 2
		if jitter > 0 {
			v += (rng.Float32()*2 - 1) * jitter
		}
		return Clamp01(v)
	}

	child := Genetics{
		Aggression:   mix(a.Aggression, b.Aggression),
		Sociability:  mix(a.Sociability, b.Sociability),
		Curiosity:    mix(a.Curiosity, b.Curiosity),
		Fertility:    mix(a.Fertility, b.Fertility),
		Metabolism:   mix(a.Metabolism, b.Metabolism),
		Size:         mix(a.Size, b.Size),
		Adaptability: mix(a.Adaptability, b.Adaptability),
		Dominance:    mix(a.Dominance, b.Dominance),
		Intelligence: mix(a.Intelligence, b.Intelligence),
	}
	child.Derive()
	return child
}

// NewRandom generates genetics for a founding creature. Traits cluster
// around the middle of the range so early generations are viable.
func NewRandom(rng *rand.Rand) Genetics {
	roll := func() float32 {
		// mean of two uniforms: triangular distribution centered at 0.5
		return (rng.Float32() + rng.Float32()) / 2
	}
	g := Genetics{
		Aggression:   roll(),
		Sociability:  roll(),
		Curiosity:    roll(),
		Fertility:    roll(),
		Metabolism:   roll(),
		Size:         roll(),
		Adaptability: roll(),
		Dominance:    roll(),
		Intelligence: roll(),
	}
	g.Derive()
	return g
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
