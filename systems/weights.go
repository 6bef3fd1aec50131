package systems

import (
	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/config"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// Environment captures the local conditions a creature decides under.
// Values are normalized to [0, 1] and supplied per creature each tick.
type Environment struct {
	FoodAvailability  float32
	WaterAvailability float32
	Danger            float32
	Crowding          float32
}

// WeightInputs bundles everything the weight computation reads.
type WeightInputs struct {
	Genes        *genetics.Genetics
	Needs        *components.Needs
	Stage        components.LifeStage
	Stress       float32
	Satisfaction float32
	Caring       bool // currently raising offspring
	Env          Environment
	Territory    *components.Territory
}

// WeightParams holds the tunable coefficients of the weight computation,
// flattened from config into category order for table-driven access.
type WeightParams struct {
	Base           [components.BehaviorCount]float32
	NoiseAmplitude float32

	HighStress        float32
	LowSatisfaction   float32
	StressSuppression float32
	ScarcityBoost     float32
	ElderDiscount     float32
	ElderComfort      float32
}

// WeightParamsFromConfig flattens the behavior config into WeightParams.
func WeightParamsFromConfig(bc *config.BehaviorConfig) WeightParams {
	var p WeightParams
	p.Base[components.BehaviorIdle] = float32(bc.BaseWeights.Idle)
	p.Base[components.BehaviorForaging] = float32(bc.BaseWeights.Foraging)
	p.Base[components.BehaviorDrinking] = float32(bc.BaseWeights.Drinking)
	p.Base[components.BehaviorResting] = float32(bc.BaseWeights.Resting)
	p.Base[components.BehaviorSocializing] = float32(bc.BaseWeights.Socializing)
	p.Base[components.BehaviorExploring] = float32(bc.BaseWeights.Exploring)
	p.Base[components.BehaviorTerritorial] = float32(bc.BaseWeights.Territorial)
	p.Base[components.BehaviorBreeding] = float32(bc.BaseWeights.Breeding)
	p.Base[components.BehaviorMigrating] = float32(bc.BaseWeights.Migrating)
	p.Base[components.BehaviorParenting] = float32(bc.BaseWeights.Parenting)
	p.NoiseAmplitude = float32(bc.NoiseAmplitude)
	p.HighStress = float32(bc.HighStress)
	p.LowSatisfaction = float32(bc.LowSatisfaction)
	p.StressSuppression = float32(bc.StressSuppression)
	p.ScarcityBoost = float32(bc.ScarcityBoost)
	p.ElderDiscount = float32(bc.ElderDiscount)
	p.ElderComfort = float32(bc.ElderComfort)
	return p
}

// BehaviorWeights computes the per-category selection weights for one
// creature: base weight x genetics-need interaction x life-stage
// modifier x stress/satisfaction modifier x bounded curiosity noise,
// clamped to >= 0. noise must return values in [-1, 1]; pass nil to
// disable the noise term.
func BehaviorWeights(in WeightInputs, p WeightParams, noise func() float32) [components.BehaviorCount]float32 {
	g := in.Genes
	n := in.Needs
	w := p.Base

	// Genetics-need interaction. Needs store satisfaction; the drive
	// behind each behavior is the unmet remainder.
	w[components.BehaviorForaging] *= (1 - n.Hunger) * (1 + g.Metabolism) * (0.5 + 0.5*in.Env.FoodAvailability)
	w[components.BehaviorDrinking] *= (1 - n.Thirst) * (1 + g.Metabolism) * (0.5 + 0.5*in.Env.WaterAvailability)
	w[components.BehaviorResting] *= 1 - n.Energy
	w[components.BehaviorSocializing] *= g.Sociability * (1 + (1 - n.Social))
	w[components.BehaviorExploring] *= g.Curiosity * (1 + (1 - n.Exploration)) * (1 - 0.5*in.Env.Danger)
	w[components.BehaviorTerritorial] *= g.Aggression * (1 + (1 - n.Territorial))
	w[components.BehaviorBreeding] *= g.Fertility * (1 - n.BreedingUrge)
	w[components.BehaviorMigrating] *= g.Adaptability * (0.5 + in.Env.Crowding)
	if in.Caring {
		w[components.BehaviorParenting] *= 2
	} else {
		w[components.BehaviorParenting] *= 0.1
	}
	if in.Territory != nil && in.Territory.HasTerritory {
		w[components.BehaviorTerritorial] *= 1 + 0.5*in.Territory.DefenseCommitment
	}

	// Life-stage modifier
	switch in.Stage {
	case components.StageEmbryo, components.StageJuvenile:
		w[components.BehaviorBreeding] = 0
		w[components.BehaviorParenting] = 0
	case components.StageElder:
		w[components.BehaviorIdle] *= p.ElderComfort
		w[components.BehaviorParenting] *= p.ElderComfort
		w[components.BehaviorExploring] *= p.ElderDiscount
		w[components.BehaviorTerritorial] *= p.ElderDiscount
	}

	// Stress suppresses outgoing behaviors; scarcity boosts provisioning.
	if in.Stress > p.HighStress {
		w[components.BehaviorExploring] *= p.StressSuppression
		w[components.BehaviorSocializing] *= p.StressSuppression
		w[components.BehaviorBreeding] *= p.StressSuppression
	}
	if in.Satisfaction < p.LowSatisfaction {
		w[components.BehaviorForaging] *= p.ScarcityBoost
		w[components.BehaviorTerritorial] *= p.ScarcityBoost
	}

	// Bounded additive noise scaled by curiosity keeps decisions from
	// collapsing onto a single dominant category.
	if noise != nil && p.NoiseAmplitude > 0 {
		for i := range w {
			w[i] += noise() * p.NoiseAmplitude * g.Curiosity
		}
	}

	for i := range w {
		if w[i] < 0 {
			w[i] = 0
		}
	}
	return w
}
