package chord

import (
	"math"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
)

// DefaultThreshold is the chroma energy above which a pitch class counts as
// active in a window.
const DefaultThreshold = 10

// SilenceLabel is the no-chord label.
const SilenceLabel = "N:N"

// Candidate is a scored chord hypothesis for one analysis window. Root and
// Bass are pitch classes, or -1 for the silence chord.
type Candidate struct {
	Root    int
	Quality string
	Bass    int
	Score   int
}

// Label renders "root:quality", "root:quality/bass" when the bass differs
// from the root, or "N:N" for silence.
func (c Candidate) Label() string {
	if c.Root < 0 {
		return SilenceLabel
	}
	root := constants.PitchClasses[c.Root] + ":" + c.Quality
	if c.Root == c.Bass {
		return root
	}
	return root + "/" + constants.PitchClasses[c.Bass]
}

// Segment is a chord spanning a half-open beat range.
type Segment struct {
	Start int
	End   int
	Label string
}

// sequencing rotates the binary activity vector so each active pitch class in
// turn sits at index 0, yielding that root's interval set.
func sequencing(active [12]bool) map[int][]int {
	candidates := make(map[int][]int)
	for root := 0; root < 12; root++ {
		if !active[root] {
			continue
		}
		var intervals []int
		for offset := 0; offset < 12; offset++ {
			if active[(root+offset)%12] {
				intervals = append(intervals, offset)
			}
		}
		candidates[root] = intervals
	}
	return candidates
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// scoring resolves the quality of an interval set and scores it. A set that
// holds both or neither of the minor and major third is invalid.
func scoring(intervals []int) (string, int) {
	hasMin3 := contains(intervals, 3)
	hasMaj3 := contains(intervals, 4)
	if hasMin3 == hasMaj3 {
		return "None", -100
	}

	var quality string
	if hasMin3 {
		switch {
		case contains(intervals, 6):
			quality = "dim"
		case contains(intervals, 10):
			quality = "min7"
		default:
			quality = "min"
		}
	} else {
		switch {
		case contains(intervals, 8):
			quality = "aug"
		case contains(intervals, 10):
			quality = "dom7"
		case contains(intervals, 11):
			quality = "maj7"
		default:
			quality = "maj"
		}
	}

	core := constants.ChordMaps[quality]
	score := 0
	for _, n := range intervals {
		if contains(core, n) {
			continue
		}
		switch {
		case contains(constants.ChordOutsiders1[quality], n):
			score--
		case contains(constants.ChordOutsiders2[quality], n):
			score -= 2
		case contains(constants.ChordInsiders[quality], n):
			score += 10
		}
	}
	return quality, score
}

// FindChord picks the best chord for one window of summed chroma energy.
// With no active pitch class it returns the silence chord with score 10.
// The bass is the lowest active pitch class; the root is the best-scoring
// candidate, ties broken by the earliest active pitch class.
func FindChord(window [12]float64, threshold float64) Candidate {
	var active [12]bool
	anyActive := false
	for i, energy := range window {
		if energy > threshold {
			active[i] = true
			anyActive = true
		}
	}
	if !anyActive {
		return Candidate{Root: -1, Quality: "N", Bass: -1, Score: 10}
	}

	candidates := sequencing(active)
	scores := make(map[int]int)
	qualities := make(map[int]string)
	for root, intervals := range candidates {
		qualities[root], scores[root] = scoring(intervals)
	}

	var sortedNotes []int
	for pc := 0; pc < 12; pc++ {
		if active[pc] {
			sortedNotes = append(sortedNotes, pc)
		}
	}
	bass := sortedNotes[0]

	max := math.MinInt32
	for _, score := range scores {
		if score > max {
			max = score
		}
	}
	root := -1
	for _, pc := range sortedNotes {
		if scores[pc] == max {
			root = pc
			break
		}
	}

	return Candidate{Root: root, Quality: qualities[root], Bass: bass, Score: scores[root]}
}

// spanCandidate pairs a candidate with the end beat of its window.
type spanCandidate struct {
	End  int
	Cand Candidate
}

// Candidates maps a start beat to its window candidates, kept in ascending
// end-beat order so downstream tie-breaking is deterministic.
type Candidates map[int][]spanCandidate

func sumWindow(chroma model.Chroma, start, end int) [12]float64 {
	var sum [12]float64
	for pc := 0; pc < 12; pc++ {
		for col := start; col < end && col < len(chroma[pc]); col++ {
			sum[pc] += chroma[pc][col]
		}
	}
	return sum
}

// GetCandidates scans every window of 1-4 beats starting at each beat index,
// clamped at the piece end, and records the best chord per window.
func GetCandidates(chroma model.Chroma, maxBeat int, intervals []int) Candidates {
	if intervals == nil {
		intervals = []int{1, 2, 3, 4}
	}
	candidates := make(Candidates)
	for _, interval := range intervals {
		for start := 0; start < maxBeat; start++ {
			end := minInt(start+interval, maxBeat)
			cand := FindChord(sumWindow(chroma, start, end), DefaultThreshold)

			spans := candidates[start]
			replaced := false
			for i := range spans {
				if spans[i].End == end {
					spans[i].Cand = cand
					replaced = true
					break
				}
			}
			if !replaced {
				spans = append(spans, spanCandidate{End: end, Cand: cand})
			}
			candidates[start] = spans
		}
	}
	return candidates
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Dynamic picks the best non-overlapping, fully covering chord segment
// sequence by weighted-interval dynamic programming over beat positions.
func Dynamic(candidates Candidates, maxBeat int) []Segment {
	if maxBeat <= 0 {
		return nil
	}
	scores := make([]float64, maxBeat+1)
	for i := 1; i <= maxBeat; i++ {
		scores[i] = math.Inf(-1)
	}
	preds := make([]*Segment, maxBeat+1)

	for start := 0; start < maxBeat; start++ {
		for _, span := range candidates[start] {
			if scores[span.End] < scores[start]+float64(span.Cand.Score) {
				scores[span.End] = scores[start] + float64(span.Cand.Score)
				preds[span.End] = &Segment{Start: start, End: span.End, Label: span.Cand.Label()}
			}
		}
	}

	var results []Segment
	for at := maxBeat; at > 0; {
		seg := preds[at]
		if seg == nil {
			break
		}
		results = append(results, *seg)
		at = seg.Start
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results
}

// Dedupe merges consecutive segments whose label matches the running label of
// the segment being extended. Only the next segment's label is compared
// against the running one.
func Dedupe(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	var deduped []Segment
	cur := segments[0]
	for i := 0; i+1 < len(segments); i++ {
		next := segments[i+1]
		if cur.Label == next.Label {
			cur.End = next.End
		} else {
			deduped = append(deduped, cur)
			cur = next
		}
	}
	return append(deduped, cur)
}
