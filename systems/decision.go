package systems

import (
	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// Decision is the outcome of one pass through the decision engine.
type Decision struct {
	Category   components.BehaviorCategory
	Intensity  float32
	Confidence float32
	Changed    bool // false when throttled; the current behavior continues
}

// ShouldDecide reports whether enough sim time has passed since the last
// decision. lastDecision and now are in sim seconds.
func ShouldDecide(lastDecision, now, interval float32) bool {
	return now-lastDecision >= interval
}

// SelectCategory picks a category by weighted random selection. roll is
// a uniform draw in [0, 1). Categories are walked in fixed declaration
// order so the same weights and roll always pick the same category.
// A non-positive total falls back to Idle.
func SelectCategory(weights [components.BehaviorCount]float32, roll float32) (components.BehaviorCategory, float32) {
	var total float32
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return components.BehaviorIdle, 0
	}
	target := roll * total
	var acc float32
	for i, w := range weights {
		acc += w
		if target < acc {
			return components.BehaviorCategory(i), w / total
		}
	}
	// roll == 1 or float accumulation fell short of total
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return components.BehaviorCategory(i), weights[i] / total
		}
	}
	return components.BehaviorIdle, 0
}

// Intensity maps the chosen category onto how hard the creature commits
// to it, driven by the unmet need or trait behind the category.
func Intensity(cat components.BehaviorCategory, g *genetics.Genetics, n *components.Needs) float32 {
	switch cat {
	case components.BehaviorIdle:
		return 0.2
	case components.BehaviorForaging:
		return genetics.Lerp(0.3, 1, 1-n.Hunger)
	case components.BehaviorDrinking:
		return genetics.Lerp(0.3, 1, 1-n.Thirst)
	case components.BehaviorResting:
		return genetics.Lerp(0.2, 1, 1-n.Energy)
	case components.BehaviorSocializing:
		return genetics.Lerp(0.3, 1, g.Sociability*(1-n.Social))
	case components.BehaviorExploring:
		return genetics.Lerp(0.3, 1, g.Curiosity*(1-n.Exploration))
	case components.BehaviorTerritorial:
		return genetics.Lerp(0.4, 1, g.Aggression)
	case components.BehaviorBreeding:
		return genetics.Lerp(0.4, 1, g.Fertility*(1-n.BreedingUrge))
	case components.BehaviorMigrating:
		return genetics.Lerp(0.3, 1, g.Adaptability)
	case components.BehaviorParenting:
		return genetics.Lerp(0.5, 1, g.Sociability)
	}
	return 0.2
}

// Decide runs one decision pass. now is sim time in seconds, roll a
// uniform draw in [0, 1). When the interval has not elapsed the current
// behavior is kept unchanged.
func Decide(bs *components.BehaviorState, in WeightInputs, p WeightParams, interval, now, roll float32, noise func() float32) Decision {
	if !ShouldDecide(bs.LastDecision, now, interval) {
		return Decision{Category: bs.Category, Intensity: bs.Intensity, Confidence: bs.Confidence}
	}
	weights := BehaviorWeights(in, p, noise)
	cat, conf := SelectCategory(weights, roll)
	return Decision{
		Category:   cat,
		Intensity:  Intensity(cat, in.Genes, in.Needs),
		Confidence: conf,
		Changed:    true,
	}
}
