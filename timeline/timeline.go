package timeline

import (
	"math"
	"sort"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/util"
)

// BarGroup holds the items whose onsets fall inside one bar's half-open tick
// range [StartTick, EndTick).
type BarGroup struct {
	StartTick int64
	EndTick   int64
	Items     []model.Item
}

// Notes returns the note items of the group.
func (g BarGroup) Notes() []model.NoteItem {
	var res []model.NoteItem
	for _, item := range g.Items {
		if n, ok := item.(model.NoteItem); ok {
			res = append(res, n)
		}
	}
	return res
}

// Quantize snaps every note onset onto the position grid, shifting start and
// end by the same delta. The grid has spacing resolution/PosPerQuarter ticks
// starting at 0; each onset moves to the largest grid point at or before it.
func Quantize(resolution int64, notes []model.NoteItem) []model.NoteItem {
	if len(notes) == 0 {
		return notes
	}
	step := float64(resolution) / float64(constants.PosPerQuarter)
	endTick := resolution
	for _, n := range notes {
		endTick = util.Max(endTick, n.EndTick)
	}
	numGrids := int(math.Ceil(float64(endTick) / step))

	res := make([]model.NoteItem, len(notes))
	for i, n := range notes {
		start := float64(n.StartTick)
		idx := sort.Search(numGrids, func(k int) bool {
			return float64(k)*step > start
		})
		if idx > 0 {
			idx--
		}
		shift := int64(math.RoundToEven(float64(idx)*step)) - n.StartTick
		n.StartTick += shift
		n.EndTick += shift
		res[i] = n
	}
	return res
}

// itemLess is the canonical ordering: start tick, then kind priority
// (chord < tempo < note), then instrument with drums first, then pitch.
func itemLess(a, b model.Item) bool {
	if a.Start() != b.Start() {
		return a.Start() < b.Start()
	}
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	switch x := a.(type) {
	case model.NoteItem:
		y := b.(model.NoteItem)
		if x.Instrument.SortKey() != y.Instrument.SortKey() {
			return x.Instrument.SortKey() < y.Instrument.SortKey()
		}
		return x.Pitch < y.Pitch
	case model.ChordItem:
		return x.Label < b.(model.ChordItem).Label
	case model.TempoItem:
		return x.BPM < b.(model.TempoItem).BPM
	}
	return false
}

// Merge combines chord, tempo and note items into one list for grouping.
// When no chords were extracted, only tempo and note items are merged.
func Merge(chords []model.ChordItem, tempos []model.TempoItem, notes []model.NoteItem) []model.Item {
	var items []model.Item
	if len(chords) > 0 {
		for _, c := range chords {
			items = append(items, c)
		}
	}
	for _, t := range tempos {
		items = append(items, t)
	}
	for _, n := range notes {
		items = append(items, n)
	}
	return items
}

// Group buckets items into bar groups delimited by downbeat ticks, with the
// piece end closing the last bar. Leading and trailing bars that contain no
// notes are trimmed.
func Group(items []model.Item, downbeats []int64, endTick int64) []BarGroup {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return itemLess(sorted[i], sorted[j])
	})

	boundaries := make([]int64, 0, len(downbeats)+1)
	boundaries = append(boundaries, downbeats...)
	boundaries = append(boundaries, endTick)

	var groups []BarGroup
	for i := 0; i+1 < len(boundaries); i++ {
		db1, db2 := boundaries[i], boundaries[i+1]
		var insiders []model.Item
		for _, item := range sorted {
			if item.Start() >= db1 && item.Start() < db2 {
				insiders = append(insiders, item)
			}
		}
		groups = append(groups, BarGroup{StartTick: db1, EndTick: db2, Items: insiders})
	}

	for len(groups) > 0 && len(groups[0].Notes()) == 0 {
		groups = groups[1:]
	}
	for len(groups) > 0 && len(groups[len(groups)-1].Notes()) == 0 {
		groups = groups[:len(groups)-1]
	}
	return groups
}

// PositionsPerBar reports how many position slots a bar in the given meter
// holds.
func PositionsPerBar(sig model.TimeSignature) int {
	quartersPerBar := 4 * float64(sig.Numerator) / float64(sig.Denominator)
	return int(constants.PosPerQuarter * quartersPerBar)
}

// TicksPerBar reports the tick length of a bar in the given meter.
func TicksPerBar(resolution int64, sig model.TimeSignature) float64 {
	quartersPerBar := 4 * float64(sig.Numerator) / float64(sig.Denominator)
	return float64(resolution) * quartersPerBar
}

// TickToPosition converts a tick delta into position units.
func TickToPosition(tick, resolution int64) int {
	return int(math.RoundToEven(float64(tick) / float64(resolution) * constants.PosPerQuarter))
}
