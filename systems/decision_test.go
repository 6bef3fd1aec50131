package systems

import (
	"testing"

	"github.com/kkingfung/Laboratory-sub000/components"
)

func TestSelectCategorySingleWeight(t *testing.T) {
	var w [components.BehaviorCount]float32
	w[components.BehaviorIdle] = 1

	for _, roll := range []float32{0, 0.25, 0.5, 0.999} {
		cat, conf := SelectCategory(w, roll)
		if cat != components.BehaviorIdle {
			t.Errorf("roll %v: got %s, want idle", roll, cat)
		}
		if conf != 1 {
			t.Errorf("roll %v: confidence = %v, want 1", roll, conf)
		}
	}
}

func TestSelectCategoryAllZeroFallsBackToIdle(t *testing.T) {
	var w [components.BehaviorCount]float32
	cat, conf := SelectCategory(w, 0.5)
	if cat != components.BehaviorIdle {
		t.Errorf("got %s, want idle", cat)
	}
	if conf != 0 {
		t.Errorf("confidence = %v, want 0", conf)
	}
}

func TestSelectCategoryWalksFixedOrder(t *testing.T) {
	var w [components.BehaviorCount]float32
	w[components.BehaviorForaging] = 1
	w[components.BehaviorResting] = 1
	w[components.BehaviorBreeding] = 2

	tests := []struct {
		roll float32
		want components.BehaviorCategory
	}{
		{0, components.BehaviorForaging},
		{0.24, components.BehaviorForaging},
		{0.25, components.BehaviorResting},
		{0.49, components.BehaviorResting},
		{0.5, components.BehaviorBreeding},
		{0.99, components.BehaviorBreeding},
	}
	for _, tc := range tests {
		cat, _ := SelectCategory(w, tc.roll)
		if cat != tc.want {
			t.Errorf("roll %v: got %s, want %s", tc.roll, cat, tc.want)
		}
	}
}

func TestSelectCategoryRollAtOne(t *testing.T) {
	var w [components.BehaviorCount]float32
	w[components.BehaviorForaging] = 1
	w[components.BehaviorResting] = 3

	cat, _ := SelectCategory(w, 1)
	if cat != components.BehaviorResting {
		t.Errorf("got %s, want last positive-weight category", cat)
	}
}

func TestDecideThrottled(t *testing.T) {
	g := midGenes()
	n := satisfiedNeeds()
	bs := components.BehaviorState{
		Category:     components.BehaviorForaging,
		Intensity:    0.7,
		Confidence:   0.4,
		LastDecision: 10,
	}
	in := WeightInputs{Genes: &g, Needs: &n, Stage: components.StageAdult, Satisfaction: 0.8}

	d := Decide(&bs, in, flatParams(), 2, 11.5, 0.5, nil)
	if d.Changed {
		t.Fatal("decision fired before interval elapsed")
	}
	if d.Category != components.BehaviorForaging || d.Intensity != 0.7 {
		t.Errorf("throttled decision altered state: %+v", d)
	}

	d = Decide(&bs, in, flatParams(), 2, 12, 0.5, nil)
	if !d.Changed {
		t.Error("decision did not fire at interval boundary")
	}
}

func TestIntensityTracksNeedDeficit(t *testing.T) {
	g := midGenes()
	low := satisfiedNeeds()
	low.Hunger = 0
	high := satisfiedNeeds()

	iLow := Intensity(components.BehaviorForaging, &g, &low)
	iHigh := Intensity(components.BehaviorForaging, &g, &high)
	if iLow != 1 {
		t.Errorf("starving foraging intensity = %v, want 1", iLow)
	}
	if !close32(iHigh, 0.3) {
		t.Errorf("satisfied foraging intensity = %v, want 0.3", iHigh)
	}
}
