package systems

import (
	"math/rand"
	"testing"

	"github.com/kkingfung/Laboratory-sub000/components"
)

func TestKeyForNegativeCoordinates(t *testing.T) {
	ix := NewSpatialIndex(10, 0)

	tests := []struct {
		pos  components.Position
		want CellKey
	}{
		{components.Position{X: 0, Y: 0, Z: 0}, CellKey{0, 0, 0}},
		{components.Position{X: 9.99, Y: 9.99, Z: 0}, CellKey{0, 0, 0}},
		{components.Position{X: 10, Y: 0, Z: 0}, CellKey{1, 0, 0}},
		{components.Position{X: -0.01, Y: 0, Z: 0}, CellKey{-1, 0, 0}},
		{components.Position{X: -10, Y: -20, Z: 35}, CellKey{-1, -2, 3}},
	}

	for _, tt := range tests {
		if got := ix.KeyFor(tt.pos); got != tt.want {
			t.Errorf("KeyFor(%+v) = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
}

func TestInsertRetrievableOnlyNearby(t *testing.T) {
	ix := NewSpatialIndex(10, 0)
	pos := components.Position{X: 55, Y: 55}
	ix.Insert(Candidate{ID: 1, Pos: pos})

	center := ix.KeyFor(pos)

	// Queries centered on the cell itself and all 8 planar neighbors
	// must see the candidate.
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			origin := components.Position{
				X: float32(center.X+dx)*10 + 5,
				Y: float32(center.Y+dy)*10 + 5,
			}
			got := ix.AppendNeighborhood(nil, origin)
			if len(got) != 1 || got[0].ID != 1 {
				t.Errorf("neighborhood at offset (%d,%d): got %d candidates, want 1", dx, dy, len(got))
			}
		}
	}

	// Queries two or more cells away must never see it.
	for _, off := range [][2]int32{{2, 0}, {0, 2}, {-2, 0}, {0, -2}, {2, 2}, {-2, -2}, {3, 1}} {
		origin := components.Position{
			X: float32(center.X+off[0])*10 + 5,
			Y: float32(center.Y+off[1])*10 + 5,
		}
		got := ix.AppendNeighborhood(nil, origin)
		if len(got) != 0 {
			t.Errorf("neighborhood %d cells away saw the candidate", off)
		}
	}
}

func TestUniformPopulationCountExact(t *testing.T) {
	const n = 10000
	ix := NewSpatialIndex(10, n)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < n; i++ {
		ix.Insert(Candidate{
			ID:  uint32(i + 1),
			Pos: components.Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000},
		})
	}

	if got := ix.Count(); got != n {
		t.Errorf("Count() = %d, want %d: candidates were duplicated or lost", got, n)
	}
}

func TestResetClearsWithoutReallocating(t *testing.T) {
	ix := NewSpatialIndex(10, 0)
	pos := components.Position{X: 5, Y: 5}

	ix.Insert(Candidate{ID: 1, Pos: pos})
	if got := ix.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}

	ix.Reset()
	if got := ix.Count(); got != 0 {
		t.Errorf("Count() after Reset = %d, want 0", got)
	}
	if got := ix.Cell(ix.KeyFor(pos)); got != nil {
		t.Errorf("stale bucket visible after Reset: %v", got)
	}

	// Reused bucket works normally in the new generation.
	ix.Insert(Candidate{ID: 2, Pos: pos})
	got := ix.Cell(ix.KeyFor(pos))
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("post-reset insert: got %v", got)
	}
}

func TestShardMergeMatchesDirectInsert(t *testing.T) {
	const n = 1000
	rng := rand.New(rand.NewSource(4))

	direct := NewSpatialIndex(10, n)
	sharded := NewSpatialIndex(10, n)
	shards := []*IndexShard{{}, {}, {}, {}}

	for i := 0; i < n; i++ {
		c := Candidate{
			ID:  uint32(i + 1),
			Pos: components.Position{X: rng.Float32() * 500, Y: rng.Float32() * 500},
		}
		direct.Insert(c)
		shards[i%len(shards)].Add(sharded, c)
	}
	sharded.Merge(shards...)

	if direct.Count() != sharded.Count() {
		t.Fatalf("sharded count %d != direct count %d", sharded.Count(), direct.Count())
	}

	// Spot-check per-cell contents by ID set.
	for i := 0; i < 50; i++ {
		pos := components.Position{X: rng.Float32() * 500, Y: rng.Float32() * 500}
		key := direct.KeyFor(pos)
		a := direct.Cell(key)
		b := sharded.Cell(key)
		if len(a) != len(b) {
			t.Fatalf("cell %+v: direct %d candidates, sharded %d", key, len(a), len(b))
		}
		ids := make(map[uint32]bool, len(a))
		for _, c := range a {
			ids[c.ID] = true
		}
		for _, c := range b {
			if !ids[c.ID] {
				t.Fatalf("cell %+v: sharded has unexpected ID %d", key, c.ID)
			}
		}
	}
}

func TestShardResetKeepsCapacity(t *testing.T) {
	ix := NewSpatialIndex(10, 0)
	var s IndexShard
	for i := 0; i < 100; i++ {
		s.Add(ix, Candidate{ID: uint32(i), Pos: components.Position{X: float32(i)}})
	}
	capBefore := cap(s.entries)
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}
	if cap(s.entries) != capBefore {
		t.Errorf("Reset reallocated: cap %d -> %d", capBefore, cap(s.entries))
	}
}
