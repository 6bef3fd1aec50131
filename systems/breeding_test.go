package systems

import (
	"math/rand"
	"testing"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

func testBreedingParams() BreedingParams {
	return BreedingParams{
		MaxDistance:        15,
		ReadinessThreshold: 0.7,
		ReadinessGain:      0.02,
		GestationSec:       120,
		CaringSec:          90,
		CooldownSec:        60,
		CourtshipSec:       20,
		FitnessWeight:      0.4,
	}
}

func adultCandidate(id uint32, species uint8, pos components.Position) Candidate {
	g := midGenes()
	return Candidate{
		ID:          id,
		SpeciesID:   species,
		Stage:       components.StageAdult,
		AgeDays:     50,
		MaxLifespan: 100,
		Pos:         pos,
		Genes:       g.Summarize(),
	}
}

func seekingBreeding() components.Breeding {
	return components.Breeding{Status: components.BreedSeeking, Readiness: 1}
}

func TestEligiblePartnerRejectsCrossSpecies(t *testing.T) {
	self := adultCandidate(1, 0, components.Position{})
	other := adultCandidate(2, 1, components.Position{X: 1})
	if EligiblePartner(self, other, 15) {
		t.Error("cross-species pair reported eligible")
	}
	other.SpeciesID = 0
	if !EligiblePartner(self, other, 15) {
		t.Error("same-species adult pair reported ineligible")
	}
}

func TestEligiblePartnerRequiresAdults(t *testing.T) {
	self := adultCandidate(1, 0, components.Position{})
	other := adultCandidate(2, 0, components.Position{X: 1})
	other.Stage = components.StageJuvenile
	if EligiblePartner(self, other, 15) {
		t.Error("juvenile partner reported eligible")
	}
}

func TestEligiblePartnerRange(t *testing.T) {
	self := adultCandidate(1, 0, components.Position{})
	other := adultCandidate(2, 0, components.Position{X: 20})
	if EligiblePartner(self, other, 15) {
		t.Error("out-of-range partner reported eligible")
	}
}

func TestBestMatePrefersCloser(t *testing.T) {
	self := adultCandidate(1, 0, components.Position{})
	near := adultCandidate(2, 0, components.Position{X: 2})
	far := adultCandidate(3, 0, components.Position{X: 12})
	cands := []Candidate{far, near}

	best, score := BestMate(self, cands, testBreedingParams())
	if best != 1 {
		t.Fatalf("best = %d, want index of near candidate", best)
	}
	if score <= 0 {
		t.Errorf("score = %v, want > 0", score)
	}
}

func TestSeekMateSuccessQueuesMateCommand(t *testing.T) {
	p := testBreedingParams()
	ix := NewSpatialIndex(10, 16)
	ix.Reset()
	self := adultCandidate(1, 0, components.Position{X: 5, Y: 5})
	mate := adultCandidate(2, 0, components.Position{X: 7, Y: 5})
	ix.Insert(self)
	ix.Insert(mate)

	br := seekingBreeding()
	var q MutationQueue
	// identical genomes: chance = 0.7 * 0.5 * 1.0 * 0.3 = 0.105
	SeekMate(self, &br, components.BehaviorBreeding, true, ix, nil, p, 0.1, &q)

	if len(q.Mates) != 1 {
		t.Fatalf("queued mates = %d, want 1", len(q.Mates))
	}
	if q.Mates[0].SeekerID != 1 || q.Mates[0].PartnerID != 2 {
		t.Errorf("mate command = %+v", q.Mates[0])
	}
	if br.Status != components.BreedSeeking {
		t.Error("SeekMate mutated breeding state during parallel phase")
	}
}

func TestSeekMateFailureQueuesFailure(t *testing.T) {
	p := testBreedingParams()
	ix := NewSpatialIndex(10, 16)
	ix.Reset()
	self := adultCandidate(1, 0, components.Position{X: 5, Y: 5})
	ix.Insert(self)
	ix.Insert(adultCandidate(2, 0, components.Position{X: 7, Y: 5}))

	br := seekingBreeding()
	var q MutationQueue
	SeekMate(self, &br, components.BehaviorBreeding, true, ix, nil, p, 0.9, &q)

	if len(q.Mates) != 0 || len(q.Failures) != 1 {
		t.Fatalf("mates=%d failures=%d, want 0/1", len(q.Mates), len(q.Failures))
	}
}

func TestSeekMateGates(t *testing.T) {
	p := testBreedingParams()
	p.RequireTerritory = true
	ix := NewSpatialIndex(10, 16)
	ix.Reset()
	self := adultCandidate(1, 0, components.Position{X: 5, Y: 5})
	ix.Insert(self)
	ix.Insert(adultCandidate(2, 0, components.Position{X: 7, Y: 5}))

	cases := []struct {
		name      string
		status    components.BreedingStatus
		behavior  components.BehaviorCategory
		readiness float32
		territory bool
	}{
		{"not seeking", components.BreedCooldown, components.BehaviorBreeding, 1, true},
		{"wrong behavior", components.BreedSeeking, components.BehaviorForaging, 1, true},
		{"low readiness", components.BreedSeeking, components.BehaviorBreeding, 0.5, true},
		{"no territory", components.BreedSeeking, components.BehaviorBreeding, 1, false},
	}
	for _, tc := range cases {
		br := components.Breeding{Status: tc.status, Readiness: tc.readiness}
		var q MutationQueue
		SeekMate(self, &br, tc.behavior, tc.territory, ix, nil, p, 0, &q)
		if q.Len() != 0 {
			t.Errorf("%s: queued %d commands, want 0", tc.name, q.Len())
		}
	}
}

func TestSeekMateNeverPairsCrossSpecies(t *testing.T) {
	p := testBreedingParams()
	ix := NewSpatialIndex(10, 16)
	ix.Reset()
	self := adultCandidate(1, 0, components.Position{X: 5, Y: 5})
	ix.Insert(self)
	ix.Insert(adultCandidate(2, 1, components.Position{X: 6, Y: 5}))

	br := seekingBreeding()
	var q MutationQueue
	SeekMate(self, &br, components.BehaviorBreeding, true, ix, nil, p, 0, &q)
	if q.Len() != 0 {
		t.Errorf("queued %d commands against a cross-species neighbor, want 0", q.Len())
	}
}

func TestCourtshipLifecycle(t *testing.T) {
	p := testBreedingParams()
	p.CourtshipSec = 16
	br := seekingBreeding()
	BeginMating(&br, 7)
	if br.Status != components.BreedMating || br.PartnerID != 7 {
		t.Fatalf("after BeginMating: %+v", br)
	}

	const dt = 1.0
	ticks := 0
	for !AdvanceCourtship(&br, dt, p) {
		ticks++
		if ticks > 1000 {
			t.Fatal("courtship never completed")
		}
	}
	if ticks != 15 { // completes on the 16th call
		t.Errorf("courtship completed after %d extra ticks, want 15", ticks)
	}

	Conceive(&br, 3)
	if br.Status != components.BreedPregnant || br.ExpectedOffspring != 3 {
		t.Fatalf("after Conceive: %+v", br)
	}
}

func TestGestationTickCountExact(t *testing.T) {
	p := testBreedingParams()
	p.GestationSec = 16
	br := components.Breeding{Status: components.BreedPregnant, ExpectedOffspring: 2}

	const dt = 0.5
	due := 0
	ticks := 0
	for due == 0 {
		ticks++
		if AdvanceGestation(&br, dt, p) {
			due = ticks
		}
		if ticks > 100 {
			t.Fatal("gestation never completed")
		}
	}
	if due != 32 { // gestation seconds / dt
		t.Errorf("offspring due after %d ticks, want 32", due)
	}

	Deliver(&br, p)
	if br.Status != components.BreedCaring {
		t.Errorf("status after delivery = %s, want caring", br.Status)
	}
	if br.PregnancyProgress != 0 || br.ExpectedOffspring != 0 {
		t.Errorf("delivery did not reset pregnancy state: %+v", br)
	}
}

func TestCaringThenCooldown(t *testing.T) {
	p := testBreedingParams()
	p.CaringSec = 3
	p.CooldownSec = 2
	br := components.Breeding{Status: components.BreedCaring, PartnerID: 9, CooldownTimer: p.CaringSec}

	for i := 0; i < 2; i++ {
		if AdvanceCaring(&br, 1, p) {
			t.Fatalf("caring ended after %d seconds, want 3", i+1)
		}
	}
	if !AdvanceCaring(&br, 1, p) {
		t.Fatal("caring did not end at its deadline")
	}
	if br.Status != components.BreedCooldown || br.PartnerID != 0 {
		t.Fatalf("after caring: %+v", br)
	}

	if AdvanceCooldown(&br, 1) {
		t.Fatal("cooldown ended early")
	}
	if !AdvanceCooldown(&br, 1) {
		t.Fatal("cooldown did not end at its deadline")
	}
}

func TestFailCourtshipStaysSeeking(t *testing.T) {
	p := testBreedingParams()
	br := seekingBreeding()

	FailCourtship(&br, p)
	if br.Status != components.BreedSeeking {
		t.Errorf("status = %s after failed attempt, want seeking", br.Status)
	}
	if br.CourtshipAttempts != 1 {
		t.Errorf("attempts = %d, want 1", br.CourtshipAttempts)
	}
	if !close32(br.CooldownTimer, p.CooldownSec*0.5) {
		t.Errorf("penalty timer = %v, want half of %v", br.CooldownTimer, p.CooldownSec)
	}

	// Attempts accumulate across repeated failures
	FailCourtship(&br, p)
	FailCourtship(&br, p)
	if br.CourtshipAttempts != 3 {
		t.Errorf("attempts = %d after three failures, want 3", br.CourtshipAttempts)
	}
}

func TestAttemptPenaltyGatesSeekMate(t *testing.T) {
	p := testBreedingParams()
	p.CooldownSec = 8
	ix := NewSpatialIndex(10, 16)
	ix.Reset()
	self := adultCandidate(1, 0, components.Position{X: 5, Y: 5})
	ix.Insert(self)
	ix.Insert(adultCandidate(2, 0, components.Position{X: 7, Y: 5}))

	br := seekingBreeding()
	FailCourtship(&br, p)

	// Gated while the penalty runs
	var q MutationQueue
	SeekMate(self, &br, components.BehaviorBreeding, true, ix, nil, p, 0, &q)
	if q.Len() != 0 {
		t.Fatalf("queued %d commands while penalized, want 0", q.Len())
	}

	// 4 sim seconds of penalty at dt=1
	for i := 0; i < 4; i++ {
		TickAttemptPenalty(&br, 1)
	}
	if br.CooldownTimer != 0 {
		t.Fatalf("penalty timer = %v after full countdown, want 0", br.CooldownTimer)
	}
	if br.Status != components.BreedSeeking {
		t.Fatalf("status = %s after penalty, want seeking", br.Status)
	}

	SeekMate(self, &br, components.BehaviorBreeding, true, ix, nil, p, 0, &q)
	if q.Len() != 1 {
		t.Errorf("queued %d commands after penalty expired, want 1", q.Len())
	}
}

func TestGainReadinessOnlyWhileAvailable(t *testing.T) {
	p := testBreedingParams()
	br := components.Breeding{Status: components.BreedNotReady}
	GainReadiness(&br, 10, p)
	if br.Readiness <= 0 {
		t.Error("readiness did not build while not ready")
	}

	br = components.Breeding{Status: components.BreedPregnant}
	GainReadiness(&br, 10, p)
	if br.Readiness != 0 {
		t.Error("readiness built while pregnant")
	}
}

func TestBlendedOffspringStayInRange(t *testing.T) {
	a := midGenes()
	b := midGenes()
	b.Aggression = 1
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		child := genetics.Blend(&a, &b, 0.05, rng)
		if child.Aggression < 0 || child.Aggression > 1 {
			t.Fatalf("blended aggression = %v out of range", child.Aggression)
		}
	}
}
