// Package components defines ECS components for the simulation.
package components

import (
	"github.com/google/uuid"

	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// Position represents a creature's world position.
type Position struct {
	X, Y, Z float32
}

// LifeStage is a creature's coarse age bracket.
type LifeStage uint8

const (
	StageEmbryo LifeStage = iota
	StageJuvenile
	StageAdult
	StageElder
)

// String returns the display name for a life stage.
func (s LifeStage) String() string {
	names := [...]string{"Embryo", "Juvenile", "Adult", "Elder"}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// Identity bundles the immutable-ish identity of a creature.
type Identity struct {
	ID          uint32
	SpeciesID   uint8
	Generation  uint16
	Lineage     uuid.UUID // founding-line identifier, inherited from the mother
	AgeDays     float32
	Stage       LifeStage
	MaxLifespan float32 // days
}

// Genome is the heritable trait component.
type Genome struct {
	genetics.Genetics
}

// Needs tracks satisfaction of each drive in [0, 1]; 1 is fully satisfied.
// Values decay every tick and are restored by the matching behavior.
type Needs struct {
	Hunger       float32
	Thirst       float32
	Energy       float32
	Social       float32
	Exploration  float32
	Territorial  float32
	BreedingUrge float32
}

// NeedCount is the number of tracked needs.
const NeedCount = 7

// AsArray returns the needs in fixed order for table-driven processing.
// Order matches Set.
func (n *Needs) AsArray() [NeedCount]float32 {
	return [NeedCount]float32{n.Hunger, n.Thirst, n.Energy, n.Social, n.Exploration, n.Territorial, n.BreedingUrge}
}

// Set writes the needs back from fixed-order array form.
func (n *Needs) Set(v [NeedCount]float32) {
	n.Hunger, n.Thirst, n.Energy, n.Social, n.Exploration, n.Territorial, n.BreedingUrge =
		v[0], v[1], v[2], v[3], v[4], v[5], v[6]
}

// Overall returns mean need satisfaction.
func (n *Needs) Overall() float32 {
	a := n.AsArray()
	var sum float32
	for _, v := range a {
		sum += v
	}
	return sum / NeedCount
}

// BehaviorCategory is one of the fixed set of activities a creature
// can pursue. Selection order in the decision engine follows the
// constant order here.
type BehaviorCategory uint8

const (
	BehaviorIdle BehaviorCategory = iota
	BehaviorForaging
	BehaviorDrinking
	BehaviorResting
	BehaviorSocializing
	BehaviorExploring
	BehaviorTerritorial
	BehaviorBreeding
	BehaviorMigrating
	BehaviorParenting

	BehaviorCount = 10
)

// String returns the display name for a behavior category.
func (b BehaviorCategory) String() string {
	names := BehaviorNames()
	if int(b) < len(names) {
		return names[b]
	}
	return "Unknown"
}

// BehaviorNames returns display names in category order.
func BehaviorNames() []string {
	return []string{
		"Idle", "Foraging", "Drinking", "Resting", "Socializing",
		"Exploring", "Territorial", "Breeding", "Migrating", "Parenting",
	}
}

// BehaviorState holds the current decision and its quality metrics.
type BehaviorState struct {
	Category     BehaviorCategory
	Intensity    float32 // commitment to the activity, [0, 1]
	Confidence   float32 // chosen weight / total weight at decision time
	LastDecision float32 // sim-time seconds of the last decision
	TargetID     uint32  // 0 = no target; resolution is owned by an external collaborator
	Stress       float32
	Satisfaction float32
}

// Territory holds territorial and social standing counters.
type Territory struct {
	Radius            float32
	HasTerritory      bool
	DefenseCommitment float32
	PackLoyalty       float32
}

// BreedingStatus is the stage of the reproductive state machine.
type BreedingStatus uint8

const (
	BreedNotReady BreedingStatus = iota
	BreedSeeking
	BreedMating
	BreedPregnant
	BreedCaring
	BreedCooldown
)

// String returns the display name for a breeding status.
func (s BreedingStatus) String() string {
	names := [...]string{"NotReady", "Seeking", "Mating", "Pregnant", "Caring", "Cooldown"}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// Breeding holds reproductive state. Statuses are mutually exclusive;
// while Mating, partner references are reciprocal between both creatures.
type Breeding struct {
	Status            BreedingStatus
	PartnerID         uint32 // 0 = none
	Readiness         float32
	CourtshipProgress float32 // ramps 0 to 1 while Mating; 1 triggers conception
	CourtshipAttempts uint16
	PregnancyProgress float32 // [0, 1], fraction of gestation elapsed
	ExpectedOffspring uint8
	CooldownTimer     float32 // seconds; also the caring timer and the failed-attempt penalty while Seeking
}

// ClearPartner drops the partner reference and courtship progress.
func (b *Breeding) ClearPartner() {
	b.PartnerID = 0
	b.CourtshipProgress = 0
}
