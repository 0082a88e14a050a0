package stations

import (
	h3 "github.com/uber/h3-go/v4"
)

const (
	// DefaultDuplicateThreshold is the distance in meters below which a
	// secondary station is considered to be the same site as a primary one.
	DefaultDuplicateThreshold = 20.0

	// Resolution 9 cells are more than 100 m across, so any point closer
	// than maxIndexedThreshold lies in the same cell or a direct neighbour.
	dedupCellResolution = 9
	// Above this threshold the neighbour disk no longer covers every
	// candidate and the index falls back to a full scan.
	maxIndexedThreshold = 50.0
)

// Deduplicator merges the station lists of two providers. Primary stations
// always win: a secondary station closer than Threshold meters to any primary
// station is dropped, never merged field by field.
type Deduplicator struct {
	Threshold float64
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{Threshold: DefaultDuplicateThreshold}
}

// Merge deduplicates with the default threshold.
func Merge(primary, secondary []Station) []Station {
	return NewDeduplicator().Merge(primary, secondary)
}

// Merge returns primary followed by the secondary stations that have no
// primary station within the threshold. Both input orders are preserved.
// Lite stations are neither used as anchors nor dropped.
func (d *Deduplicator) Merge(primary, secondary []Station) []Station {
	merged := make([]Station, 0, len(primary)+len(secondary))
	merged = append(merged, primary...)

	idx := newCellIndex(primary)
	for _, s := range secondary {
		if !s.Lite && idx.hasNeighbour(s.Coordinate(), d.Threshold) {
			log.Debugf("dropping duplicate station %s/%s", s.Adapter, s.ID)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Dropped reports how many secondary stations a Merge of the same inputs
// removed.
func Dropped(primary, secondary, merged []Station) int {
	return len(primary) + len(secondary) - len(merged)
}

type cellIndex struct {
	cells map[h3.Cell][]Coordinate
	// fallback holds anchors that could not be indexed; they are compared
	// against every candidate.
	fallback []Coordinate
}

func newCellIndex(anchors []Station) *cellIndex {
	idx := &cellIndex{cells: make(map[h3.Cell][]Coordinate)}
	for _, s := range anchors {
		if s.Lite {
			continue
		}
		c := s.Coordinate()
		cell, err := h3.LatLngToCell(h3.NewLatLng(c.Latitude, c.Longitude), dedupCellResolution)
		if err != nil {
			idx.fallback = append(idx.fallback, c)
			continue
		}
		idx.cells[cell] = append(idx.cells[cell], c)
	}
	return idx
}

func (idx *cellIndex) hasNeighbour(c Coordinate, threshold float64) bool {
	for _, a := range idx.fallback {
		if DistanceMeters(a, c) < threshold {
			return true
		}
	}
	if len(idx.cells) == 0 {
		return false
	}
	if threshold > maxIndexedThreshold {
		return idx.scan(c, threshold)
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(c.Latitude, c.Longitude), dedupCellResolution)
	if err != nil {
		return idx.scan(c, threshold)
	}
	disk, err := h3.GridDisk(cell, 1)
	if err != nil {
		// Pentagon distortion; compare against everything.
		return idx.scan(c, threshold)
	}
	for _, n := range disk {
		for _, a := range idx.cells[n] {
			if DistanceMeters(a, c) < threshold {
				return true
			}
		}
	}
	return false
}

func (idx *cellIndex) scan(c Coordinate, threshold float64) bool {
	for _, anchors := range idx.cells {
		for _, a := range anchors {
			if DistanceMeters(a, c) < threshold {
				return true
			}
		}
	}
	return false
}
