package systems

import (
	"math"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/config"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// BreedingParams holds mate selection and gestation parameters
// flattened from config.
type BreedingParams struct {
	MaxDistance        float32
	ReadinessThreshold float32
	ReadinessGain      float32
	GestationSec       float32
	CaringSec          float32
	CooldownSec        float32
	CourtshipSec       float32
	FitnessWeight      float32
	RequireTerritory   bool
}

// BreedingParamsFromConfig flattens the breeding config.
func BreedingParamsFromConfig(bc *config.BreedingConfig) BreedingParams {
	return BreedingParams{
		MaxDistance:        float32(bc.MaxDistance),
		ReadinessThreshold: float32(bc.ReadinessThreshold),
		ReadinessGain:      float32(bc.ReadinessGain),
		GestationSec:       float32(bc.GestationSec),
		CaringSec:          float32(bc.CaringSec),
		CooldownSec:        float32(bc.CooldownSec),
		CourtshipSec:       float32(bc.CourtshipSec),
		FitnessWeight:      float32(bc.FitnessWeight),
		RequireTerritory:   bc.RequireTerritory,
	}
}

func distance(a, b components.Position) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// EligiblePartner reports whether cand can be courted by self: another
// creature of the same species, adult, and within courting range.
func EligiblePartner(self, cand Candidate, maxDistance float32) bool {
	if cand.ID == self.ID {
		return false
	}
	if cand.SpeciesID != self.SpeciesID {
		return false
	}
	if self.Stage != components.StageAdult || cand.Stage != components.StageAdult {
		return false
	}
	return distance(self.Pos, cand.Pos) <= maxDistance
}

// BestMate scores every eligible candidate and returns the index of the
// highest scoring one, or -1 when none qualifies.
func BestMate(self Candidate, cands []Candidate, p BreedingParams) (int, float32) {
	best := -1
	var bestScore float32
	for i := range cands {
		c := &cands[i]
		if !EligiblePartner(self, *c, p.MaxDistance) {
			continue
		}
		score := genetics.MateScore(self.Genes, c.Genes,
			self.AgeDays, c.AgeDays, self.MaxLifespan,
			distance(self.Pos, c.Pos), p.MaxDistance, p.FitnessWeight)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}

// SeekMate runs the mate attempt for one Seeking creature during the
// parallel phase. It only reads shared state and writes commands into
// the worker's queue; all state transitions happen at serial apply.
// roll is a uniform draw in [0, 1). The returned slice is scratch
// handed back for reuse.
func SeekMate(self Candidate, br *components.Breeding, behavior components.BehaviorCategory, hasTerritory bool, ix *SpatialIndex, scratch []Candidate, p BreedingParams, roll float32, q *MutationQueue) []Candidate {
	if br.Status != components.BreedSeeking {
		return scratch
	}
	if behavior != components.BehaviorBreeding {
		return scratch
	}
	if br.Readiness < p.ReadinessThreshold {
		return scratch
	}
	if p.RequireTerritory && !hasTerritory {
		return scratch
	}
	if br.CooldownTimer > 0 {
		// Still backing off from a failed attempt
		return scratch
	}

	scratch = ix.AppendNeighborhood(scratch[:0], self.Pos)
	best, _ := BestMate(self, scratch, p)
	if best < 0 {
		return scratch
	}
	mate := &scratch[best]

	chance := genetics.BreedingSuccessChance(self.Genes, mate.Genes,
		self.AgeDays, mate.AgeDays, self.MaxLifespan, mate.MaxLifespan)
	if roll < chance {
		q.Mates = append(q.Mates, MateCommand{SeekerID: self.ID, PartnerID: mate.ID})
	} else {
		q.Failures = append(q.Failures, CourtshipFailure{SeekerID: self.ID})
	}
	return scratch
}

// BeginMating moves one half of a matched pair into Mating. Called at
// serial apply for both partners with reciprocal IDs.
func BeginMating(br *components.Breeding, partnerID uint32) {
	br.Status = components.BreedMating
	br.PartnerID = partnerID
	br.CourtshipProgress = 0
	br.CooldownTimer = 0
	br.Readiness = 1
}

// FailCourtship records a rejected attempt. The seeker stays Seeking
// with the attempt counter incremented; a half-length penalty timer
// gates further attempts until it runs out.
func FailCourtship(br *components.Breeding, p BreedingParams) {
	br.CourtshipAttempts++
	br.CooldownTimer = p.CooldownSec * 0.5
}

// TickAttemptPenalty counts down a Seeking creature's failed-attempt
// penalty timer.
func TickAttemptPenalty(br *components.Breeding, dt float32) {
	if br.Status != components.BreedSeeking || br.CooldownTimer <= 0 {
		return
	}
	br.CooldownTimer -= dt
	if br.CooldownTimer < 0 {
		br.CooldownTimer = 0
	}
}

// AdvanceCourtship moves courtship forward and reports whether it
// completed this tick.
func AdvanceCourtship(br *components.Breeding, dt float32, p BreedingParams) bool {
	if br.Status != components.BreedMating {
		return false
	}
	if p.CourtshipSec <= 0 {
		br.CourtshipProgress = 1
		return true
	}
	br.CourtshipProgress += dt / p.CourtshipSec
	return br.CourtshipProgress >= 1
}

// Conceive completes courtship for the gestating partner.
func Conceive(br *components.Breeding, offspring uint8) {
	br.Status = components.BreedPregnant
	br.PregnancyProgress = 0
	br.ExpectedOffspring = offspring
}

// EndMating completes courtship for the non-gestating partner, sending
// it straight into cooldown.
func EndMating(br *components.Breeding, p BreedingParams) {
	br.ClearPartner()
	br.Status = components.BreedCooldown
	br.CooldownTimer = p.CooldownSec
}

// AdvanceGestation moves pregnancy forward and reports whether the
// offspring are due this tick.
func AdvanceGestation(br *components.Breeding, dt float32, p BreedingParams) bool {
	if br.Status != components.BreedPregnant {
		return false
	}
	if p.GestationSec <= 0 {
		br.PregnancyProgress = 1
		return true
	}
	br.PregnancyProgress += dt / p.GestationSec
	return br.PregnancyProgress >= 1
}

// Deliver transitions a due mother into Caring in the same tick the
// births are queued.
func Deliver(br *components.Breeding, p BreedingParams) {
	br.Status = components.BreedCaring
	br.PregnancyProgress = 0
	br.ExpectedOffspring = 0
	br.CooldownTimer = p.CaringSec
}

// AdvanceCaring counts down the caring period and reports whether it
// ended this tick, moving the parent into cooldown.
func AdvanceCaring(br *components.Breeding, dt float32, p BreedingParams) bool {
	if br.Status != components.BreedCaring {
		return false
	}
	br.CooldownTimer -= dt
	if br.CooldownTimer > 0 {
		return false
	}
	br.ClearPartner()
	br.Status = components.BreedCooldown
	br.CooldownTimer = p.CooldownSec
	return true
}

// AdvanceCooldown counts down the post-breeding cooldown and reports
// whether the creature is ready to seek again.
func AdvanceCooldown(br *components.Breeding, dt float32) bool {
	if br.Status != components.BreedCooldown {
		return false
	}
	br.CooldownTimer -= dt
	if br.CooldownTimer > 0 {
		return false
	}
	br.CooldownTimer = 0
	return true
}

// GainReadiness builds readiness toward the seeking threshold while the
// creature is available to breed.
func GainReadiness(br *components.Breeding, dt float32, p BreedingParams) {
	switch br.Status {
	case components.BreedNotReady, components.BreedSeeking:
		br.Readiness = genetics.Clamp01(br.Readiness + p.ReadinessGain*dt)
	}
}
