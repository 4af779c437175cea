package chord

import (
	"strings"

	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/score"
)

// Extract runs the full recognition pipeline over a score: per-window
// candidates, segmentation by dynamic programming, merging of equal
// neighbors, and mapping of beat indices back to ticks. A piece shorter than
// one quarter note yields no chords. When the first detected chord starts
// after tick 0, a leading no-chord item fills the gap.
func Extract(sc *score.Score) []model.ChordItem {
	endTick := sc.EndTick()
	if endTick < sc.Resolution {
		return nil
	}

	beats := sc.Beats()
	chroma := sc.Chroma(beats)
	maxBeat := chroma.Cols()
	candidates := GetCandidates(chroma, maxBeat, nil)
	segments := Dedupe(Dynamic(candidates, maxBeat))

	var output []model.ChordItem
	for _, seg := range segments {
		startTime := beats[seg.Start]
		endTime := sc.EndTime()
		if seg.End < maxBeat {
			endTime = beats[seg.End]
		}
		// the bass voicing is dropped from the emitted label
		label := strings.SplitN(seg.Label, "/", 2)[0]
		output = append(output, model.ChordItem{
			StartTick: sc.TimeToTick(startTime),
			EndTick:   sc.TimeToTick(endTime),
			Label:     label,
		})
	}

	if len(output) == 0 || output[0].StartTick > 0 {
		end := endTick
		if len(output) > 0 {
			end = output[0].StartTick
		}
		output = append([]model.ChordItem{{StartTick: 0, EndTick: end, Label: SilenceLabel}}, output...)
	}
	return output
}
