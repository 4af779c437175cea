package remi

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/timeline"
	"github.com/jsphweid/remitok/util"
)

// DescribeOptions selects which parts of the bar-level description stream to
// emit.
type DescribeOptions struct {
	OmitTimeSig     bool
	OmitInstruments bool
	OmitChords      bool
	OmitMeta        bool
}

// Description emits the bar-level summary stream: per bar, its meter, note
// density, mean velocity/pitch/duration bins, the instrument set and the
// effective chords. A bar without notes bins NaN means, which lands on
// index 0.
func (e *Encoder) Description(opts DescribeOptions) ([]string, error) {
	var events []model.Event
	var currentChord *model.ChordItem

	for i, group := range e.groups {
		nDownbeat := i + 1
		sig := e.score.TimeSignatureAt(group.StartTick)
		positionsPerBar := timeline.PositionsPerBar(sig)
		if positionsPerBar <= 0 {
			return nil, errors.Wrapf(ErrBarGeometry, "bar %d", nDownbeat)
		}

		events = append(events, model.Event{
			Name:  constants.BarKey,
			Time:  -1,
			Value: strconv.Itoa(nDownbeat),
			Text:  strconv.Itoa(nDownbeat),
		})

		if !opts.OmitTimeSig {
			events = append(events, model.Event{
				Name:  constants.TimeSignatureKey,
				Time:  -1,
				Value: fmt.Sprintf("%d/%d", sig.Numerator, sig.Denominator),
				Text:  fmt.Sprintf("%d/%d", sig.Numerator, sig.Denominator),
			})
		}

		notes := group.Notes()

		if !opts.OmitMeta {
			density := float64(len(notes)) / float64(positionsPerBar)
			index := util.NearestIndex(constants.NoteDensityBins, density)
			events = append(events, model.Event{
				Name:  constants.NoteDensityKey,
				Time:  -1,
				Value: strconv.Itoa(index),
				Text:  fmt.Sprintf("%.2f/%.2f", density, constants.NoteDensityBins[index]),
			})

			var velocitySum, pitchSum, durationSum float64
			for _, n := range notes {
				velocitySum += float64(n.Velocity)
				pitchSum += float64(n.Pitch)
				durationSum += float64(n.EndTick - n.StartTick)
			}
			count := float64(len(notes))
			meanVelocity, meanPitch, meanDuration := math.NaN(), math.NaN(), math.NaN()
			if count > 0 {
				meanVelocity = velocitySum / count
				meanPitch = pitchSum / count
				meanDuration = durationSum / count
			}

			for _, m := range []struct {
				key  string
				mean float64
				bins []float64
			}{
				{constants.MeanVelocityKey, meanVelocity, constants.MeanVelocityBins},
				{constants.MeanPitchKey, meanPitch, constants.MeanPitchBins},
				{constants.MeanDurationKey, meanDuration, constants.MeanDurationBins},
			} {
				index := util.NearestIndex(m.bins, m.mean)
				events = append(events, model.Event{
					Name:  m.key,
					Time:  -1,
					Value: strconv.Itoa(index),
					Text:  fmt.Sprintf("%.2f/%.2f", m.mean, m.bins[index]),
				})
			}
		}

		if !opts.OmitInstruments {
			seen := make(map[string]bool)
			var instruments []model.Instrument
			for _, n := range notes {
				name := n.Instrument.Name()
				if !seen[name] {
					seen[name] = true
					instruments = append(instruments, n.Instrument)
				}
			}
			sort.SliceStable(instruments, func(i, j int) bool {
				return instruments[i].SortKey() < instruments[j].SortKey()
			})
			for _, instr := range instruments {
				events = append(events, model.Event{
					Name:  constants.InstrumentKey,
					Time:  -1,
					Value: instr.Name(),
					Text:  instr.Name(),
				})
			}
		}

		if !opts.OmitChords {
			var chords []model.ChordItem
			for _, item := range group.Items {
				if c, ok := item.(model.ChordItem); ok {
					chords = append(chords, c)
				}
			}
			if len(chords) == 0 && currentChord != nil {
				chords = []model.ChordItem{*currentChord}
			} else if len(chords) > 0 {
				if chords[0].StartTick > group.StartTick && currentChord != nil {
					chords = append([]model.ChordItem{*currentChord}, chords...)
				}
				last := chords[len(chords)-1]
				currentChord = &last
			}

			for _, c := range chords {
				events = append(events, model.Event{
					Name:  constants.ChordKey,
					Time:  -1,
					Value: c.Label,
					Text:  c.Label,
				})
			}
		}
	}

	tokens := make([]string, len(events))
	for i, ev := range events {
		tokens[i] = ev.Token()
	}
	return tokens, nil
}
