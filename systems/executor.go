package systems

import (
	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/config"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// NeedRates holds decay and restoration rates in units per sim second.
type NeedRates struct {
	Decay       [components.NeedCount]float32
	SatisfyRate float32
	ActiveDrain float32
}

// NeedRatesFromConfig flattens the needs config into NeedRates,
// ordered to match Needs.AsArray.
func NeedRatesFromConfig(nc *config.NeedsConfig) NeedRates {
	return NeedRates{
		Decay: [components.NeedCount]float32{
			float32(nc.HungerDecay),
			float32(nc.ThirstDecay),
			float32(nc.EnergyDecay),
			float32(nc.SocialDecay),
			float32(nc.ExplorationDecay),
			float32(nc.TerritorialDecay),
			float32(nc.BreedingUrgeDecay),
		},
		SatisfyRate: float32(nc.SatisfyRate),
		ActiveDrain: float32(nc.ActiveDrain),
	}
}

// behaviorNeed maps each category onto the need it restores, or -1 when
// the category restores nothing directly.
var behaviorNeed = [components.BehaviorCount]int{
	components.BehaviorIdle:        -1,
	components.BehaviorForaging:    0, // hunger
	components.BehaviorDrinking:    1, // thirst
	components.BehaviorResting:     2, // energy
	components.BehaviorSocializing: 3, // social
	components.BehaviorExploring:   4, // exploration
	components.BehaviorTerritorial: 5, // territorial
	components.BehaviorBreeding:    6, // breeding urge
	components.BehaviorMigrating:   -1,
	components.BehaviorParenting:   -1,
}

// Execute advances one creature's needs and territory state for the
// current behavior over dt sim seconds. It writes only to the records
// passed in, so it is safe to run across creatures in parallel.
func Execute(bs *components.BehaviorState, n *components.Needs, terr *components.Territory, rates NeedRates, dt float32) {
	arr := n.AsArray()

	// All needs decay every tick regardless of behavior.
	for i := range arr {
		arr[i] -= rates.Decay[i] * dt
	}

	// The active behavior restores its need proportionally to intensity.
	if idx := behaviorNeed[bs.Category]; idx >= 0 {
		arr[idx] += rates.SatisfyRate * bs.Intensity * dt
	}

	// Everything but resting costs energy on top of the base decay.
	if bs.Category != components.BehaviorResting && bs.Category != components.BehaviorIdle {
		arr[2] -= rates.ActiveDrain * bs.Intensity * dt
	}

	for i := range arr {
		arr[i] = genetics.Clamp01(arr[i])
	}
	n.Set(arr)

	bs.Satisfaction = n.Overall()
	// Stress builds as needs go unmet and relaxes as they are satisfied.
	target := 1 - bs.Satisfaction
	bs.Stress += (target - bs.Stress) * 0.5 * dt
	bs.Stress = genetics.Clamp01(bs.Stress)

	if terr == nil {
		return
	}
	switch bs.Category {
	case components.BehaviorTerritorial:
		terr.DefenseCommitment = genetics.Clamp01(terr.DefenseCommitment + 0.1*bs.Intensity*dt)
		terr.HasTerritory = true
	case components.BehaviorSocializing:
		terr.PackLoyalty = genetics.Clamp01(terr.PackLoyalty + 0.1*bs.Intensity*dt)
	case components.BehaviorMigrating:
		// Migration abandons defended ground.
		terr.DefenseCommitment = genetics.Clamp01(terr.DefenseCommitment - 0.2*dt)
		if terr.DefenseCommitment == 0 {
			terr.HasTerritory = false
		}
	}
}
