package telemetry

import (
	"testing"

	"github.com/kkingfung/Laboratory-sub000/components"
)

func TestCollectorWindowDuration(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	if c.WindowDurationTicks() != 60 {
		t.Errorf("window duration = %d ticks, want 60", c.WindowDurationTicks())
	}

	if c.ShouldFlush(59) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(60) {
		t.Error("did not flush at window boundary")
	}
}

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	c.RecordDecision(components.BehaviorForaging)
	c.RecordDecision(components.BehaviorForaging)
	c.RecordDecision(components.BehaviorBreeding)
	c.RecordMating()
	c.RecordCourtshipFailure()
	c.RecordBirth()
	c.RecordDeath()

	stats := c.Flush(60, PopulationSample{Population: 10})
	if stats.DecForaging != 2 || stats.DecBreeding != 1 {
		t.Errorf("decision counts = %d/%d, want 2/1", stats.DecForaging, stats.DecBreeding)
	}
	if stats.Matings != 1 || stats.CourtshipFailures != 1 {
		t.Errorf("matings=%d failures=%d, want 1/1", stats.Matings, stats.CourtshipFailures)
	}
	if stats.Births != 1 || stats.Deaths != 1 {
		t.Errorf("births=%d deaths=%d, want 1/1", stats.Births, stats.Deaths)
	}

	next := c.Flush(120, PopulationSample{Population: 10})
	if next.DecForaging != 0 || next.Matings != 0 || next.Births != 0 {
		t.Errorf("counters survived flush: %+v", next)
	}
	if next.WindowStartTick != 60 {
		t.Errorf("window start = %d, want 60", next.WindowStartTick)
	}
}

func TestCollectorFlushCarriesSpeciesCounts(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	sample := PopulationSample{Population: 7, SpeciesCount: []int{4, 3}}

	stats := c.Flush(60, sample)
	if len(stats.SpeciesCounts) != 2 || stats.SpeciesCounts[0] != 4 || stats.SpeciesCounts[1] != 3 {
		t.Errorf("species counts = %v, want [4 3]", stats.SpeciesCounts)
	}

	// The stats own their copy; later sample reuse must not alias
	sample.SpeciesCount[0] = 99
	if stats.SpeciesCounts[0] != 4 {
		t.Errorf("species counts aliased the sample slice: %v", stats.SpeciesCounts)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0.0001, 1.0/60.0)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window duration = %d ticks, want 1", c.WindowDurationTicks())
	}
}
