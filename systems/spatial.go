// Package systems provides the per-tick simulation systems: spatial
// indexing, behavior decisions, behavior execution, and breeding.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/kkingfung/Laboratory-sub000/components"
	"github.com/kkingfung/Laboratory-sub000/genetics"
)

// CellKey identifies a grid cell by per-axis integer coordinates.
// A tuple key cannot collide for any world coordinate range, unlike
// packed scalar keys whose axis strides silently bound the world.
type CellKey struct {
	X, Y, Z int32
}

// Candidate is the lightweight record stored per creature in the index:
// enough to filter and score a proximity query without touching the ECS.
type Candidate struct {
	Entity      ecs.Entity
	ID          uint32
	SpeciesID   uint8
	Stage       components.LifeStage
	AgeDays     float32
	MaxLifespan float32
	Pos         components.Position
	Genes       genetics.Summary
}

// bucket holds the candidates of one cell. The generation tag makes
// clearing O(1): stale buckets are treated as empty and recycled on the
// next insert instead of being deallocated.
type bucket struct {
	gen   uint32
	items []Candidate
}

// SpatialIndex is a grid-bucketed lookup structure rebuilt every tick.
// It has a single-writer fast path (Insert) and a shard merge path for
// parallel builds; readers may query freely once building is done.
type SpatialIndex struct {
	cellSize float32
	gen      uint32
	buckets  map[CellKey]*bucket
}

// NewSpatialIndex creates an index with the given cell size.
func NewSpatialIndex(cellSize float32, capacityHint int) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialIndex{
		cellSize: cellSize,
		gen:      1,
		buckets:  make(map[CellKey]*bucket, capacityHint),
	}
}

// CellSize returns the grid cell size.
func (ix *SpatialIndex) CellSize() float32 {
	return ix.cellSize
}

// Reset clears the index by bumping the generation. Bucket storage from
// the previous tick is kept and reused, so a stable population causes
// no per-tick allocation.
func (ix *SpatialIndex) Reset() {
	ix.gen++
}

// KeyFor returns the cell key containing a world position.
func (ix *SpatialIndex) KeyFor(p components.Position) CellKey {
	return CellKey{
		X: floorDiv(p.X, ix.cellSize),
		Y: floorDiv(p.Y, ix.cellSize),
		Z: floorDiv(p.Z, ix.cellSize),
	}
}

// Insert adds a candidate. Single writer only; parallel builders go
// through IndexShard and Merge instead.
func (ix *SpatialIndex) Insert(c Candidate) {
	ix.insert(ix.KeyFor(c.Pos), c)
}

func (ix *SpatialIndex) insert(key CellKey, c Candidate) {
	b, ok := ix.buckets[key]
	if !ok {
		b = &bucket{gen: ix.gen, items: make([]Candidate, 0, 8)}
		ix.buckets[key] = b
	} else if b.gen != ix.gen {
		b.gen = ix.gen
		b.items = b.items[:0]
	}
	b.items = append(b.items, c)
}

// Cell returns the candidates in one cell, or nil if the cell is empty
// this tick. The returned slice is owned by the index; do not retain it
// past the current tick.
func (ix *SpatialIndex) Cell(key CellKey) []Candidate {
	b, ok := ix.buckets[key]
	if !ok || b.gen != ix.gen {
		return nil
	}
	return b.items
}

// AppendNeighborhood appends the candidates of the cell containing pos
// and its 8 planar neighbors to dst and returns the updated slice.
// Reuse dst across calls to avoid allocations.
func (ix *SpatialIndex) AppendNeighborhood(dst []Candidate, pos components.Position) []Candidate {
	center := ix.KeyFor(pos)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			key := CellKey{X: center.X + dx, Y: center.Y + dy, Z: center.Z}
			dst = append(dst, ix.Cell(key)...)
		}
	}
	return dst
}

// Count returns the total number of candidates in the current generation.
func (ix *SpatialIndex) Count() int {
	total := 0
	for _, b := range ix.buckets {
		if b.gen == ix.gen {
			total += len(b.items)
		}
	}
	return total
}

// shardEntry pairs a precomputed key with its candidate.
type shardEntry struct {
	key  CellKey
	cand Candidate
}

// IndexShard is a per-worker accumulation buffer. Workers fill their own
// shard during the parallel build phase with no shared writes; shards
// are merged into the index serially afterwards. The backing slice grows
// geometrically and is retained across ticks.
type IndexShard struct {
	entries []shardEntry
}

// Reset empties the shard, keeping capacity.
func (s *IndexShard) Reset() {
	s.entries = s.entries[:0]
}

// Add records a candidate for later merging. The key is computed here,
// on the worker, so the serial merge is pure appends.
func (s *IndexShard) Add(ix *SpatialIndex, c Candidate) {
	s.entries = append(s.entries, shardEntry{key: ix.KeyFor(c.Pos), cand: c})
}

// Len returns the number of buffered entries.
func (s *IndexShard) Len() int {
	return len(s.entries)
}

// Merge folds worker shards into the index. Must be called from a single
// goroutine after all shard writers have finished.
func (ix *SpatialIndex) Merge(shards ...*IndexShard) {
	for _, s := range shards {
		for i := range s.entries {
			ix.insert(s.entries[i].key, s.entries[i].cand)
		}
	}
}

// floorDiv returns floor(v/size) as an int32 cell coordinate.
func floorDiv(v, size float32) int32 {
	q := v / size
	i := int32(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}
