package score

import (
	"math"
	"sort"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/timeline"
)

// Note is a sounding note in absolute seconds.
type Note struct {
	Start    float64
	End      float64
	Pitch    uint8
	Velocity uint8
}

// Span is a half-open time range in seconds.
type Span struct {
	Start float64
	End   float64
}

// Track holds one instrument's notes and sustain-pedal holds.
type Track struct {
	Instrument model.Instrument
	Notes      []Note
	Pedals     []Span
}

// Score is a parsed multi-track piece: notes and pedal spans per instrument,
// tempo and meter changes, and a tick resolution anchoring the grid.
type Score struct {
	Resolution     int64
	Tracks         []Track
	TimeSignatures []model.TimeSignature
	TempoChanges   []model.TempoChange
	End            float64

	tm tempoMap
}

// New builds a Score and its tempo map. A piece without tempo changes gets
// 120 BPM from time zero; one without time signatures gets 4/4.
func New(resolution int64, tracks []Track, tempos []model.TempoChange, sigs []model.TimeSignature, end float64) *Score {
	if len(tempos) == 0 || tempos[0].Time > 0 {
		tempos = append([]model.TempoChange{{Time: 0, BPM: 120}}, tempos...)
	}
	if len(sigs) == 0 {
		sigs = []model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}
	}
	return &Score{
		Resolution:     resolution,
		Tracks:         tracks,
		TimeSignatures: sigs,
		TempoChanges:   tempos,
		End:            end,
		tm:             newTempoMap(resolution, tempos),
	}
}

func (s *Score) EndTime() float64 { return s.End }

func (s *Score) EndTick() int64 { return s.TimeToTick(s.End) }

func (s *Score) TimeToTick(t float64) int64 { return s.tm.timeToTick(t) }

func (s *Score) TickToTime(tick int64) float64 { return s.tm.tickToTime(tick) }

// TimeSignatureAt returns the signature in effect at a tick. Changes are
// assumed to land on bar boundaries.
func (s *Score) TimeSignatureAt(tick int64) model.TimeSignature {
	sigs := s.TimeSignatures
	for i := 0; i+1 < len(sigs); i++ {
		if s.TimeToTick(sigs[i].Time) <= tick && tick < s.TimeToTick(sigs[i+1].Time) {
			return sigs[i]
		}
	}
	return sigs[len(sigs)-1]
}

// DownbeatTicks lists every bar start tick up to the piece end.
func (s *Score) DownbeatTicks() []int64 {
	endTick := s.EndTick()
	var res []int64
	for i, sig := range s.TimeSignatures {
		segStart := s.TimeToTick(sig.Time)
		segEnd := endTick
		if i+1 < len(s.TimeSignatures) {
			segEnd = s.TimeToTick(s.TimeSignatures[i+1].Time)
		}
		ticksPerBar := timeline.TicksPerBar(s.Resolution, sig)
		for b := float64(segStart); b < float64(segEnd); b += ticksPerBar {
			res = append(res, int64(math.Round(b)))
		}
	}
	return res
}

// Beats lists beat times in seconds, one beat per denominator unit of the
// effective signature.
func (s *Score) Beats() []float64 {
	endTick := s.EndTick()
	var res []float64
	for i, sig := range s.TimeSignatures {
		segStart := s.TimeToTick(sig.Time)
		segEnd := endTick
		if i+1 < len(s.TimeSignatures) {
			segEnd = s.TimeToTick(s.TimeSignatures[i+1].Time)
		}
		step := 4 * float64(s.Resolution) / float64(sig.Denominator)
		for b := float64(segStart); b < float64(segEnd); b += step {
			res = append(res, s.TickToTime(int64(math.Round(b))))
		}
	}
	return res
}

// Chroma samples pitch-class energy at each beat time: for every melodic note
// sounding at the beat, its velocity is added to the note's pitch class.
// Drum tracks carry no pitch information and are excluded.
func (s *Score) Chroma(beats []float64) model.Chroma {
	var chroma model.Chroma
	for pc := range chroma {
		chroma[pc] = make([]float64, len(beats))
	}
	for _, tr := range s.Tracks {
		if tr.Instrument.IsDrum {
			continue
		}
		for _, n := range tr.Notes {
			for col, t := range beats {
				if n.Start <= t && t < n.End {
					chroma[n.Pitch%12][col] += float64(n.Velocity)
				}
			}
		}
	}
	return chroma
}

// NoteItems converts every track's notes to quantized tick-domain items.
// Notes overlapped by a sustain-pedal hold have their ends extended to the
// pedal release.
func (s *Score) NoteItems() []model.NoteItem {
	var items []model.NoteItem
	for _, tr := range s.Tracks {
		pedals := make([]model.PedalItem, 0, len(tr.Pedals))
		for _, p := range tr.Pedals {
			pedals = append(pedals, model.PedalItem{
				StartTick: s.TimeToTick(p.Start),
				EndTick:   s.TimeToTick(p.End),
			})
		}

		notes := make([]Note, len(tr.Notes))
		copy(notes, tr.Notes)
		sort.SliceStable(notes, func(i, j int) bool {
			if notes[i].Start != notes[j].Start {
				return notes[i].Start < notes[j].Start
			}
			return notes[i].Pitch < notes[j].Pitch
		})

		pedalIdx := 0
		for _, n := range notes {
			startTick := s.TimeToTick(n.Start)
			endTick := s.TimeToTick(n.End)

			var hold *model.PedalItem
			for i := pedalIdx; i < len(pedals); i++ {
				p := pedals[i]
				if endTick >= p.StartTick && startTick < p.EndTick {
					if hold == nil {
						pedalIdx = i
					}
					hold = &pedals[i]
				}
			}
			if hold != nil && hold.EndTick > endTick {
				endTick = hold.EndTick
			}

			items = append(items, model.NoteItem{
				StartTick:  startTick,
				EndTick:    endTick,
				Pitch:      n.Pitch,
				Velocity:   n.Velocity,
				Instrument: tr.Instrument,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTick != items[j].StartTick {
			return items[i].StartTick < items[j].StartTick
		}
		return items[i].Pitch < items[j].Pitch
	})
	return timeline.Quantize(s.Resolution, items)
}

// TempoItems expands the tempo changes onto a regular tick grid, carrying the
// last value forward so every grid point states the effective tempo.
func (s *Score) TempoItems() []model.TempoItem {
	existing := make(map[int64]int, len(s.TempoChanges))
	for _, tc := range s.TempoChanges {
		existing[s.TimeToTick(tc.Time)] = int(tc.BPM)
	}

	maxTick := s.EndTick()
	var res []model.TempoItem
	for tick := int64(0); tick <= maxTick; tick += constants.DefaultResolution {
		bpm, ok := existing[tick]
		if !ok {
			if len(res) == 0 {
				bpm = int(s.TempoChanges[0].BPM)
			} else {
				bpm = res[len(res)-1].BPM
			}
		}
		res = append(res, model.TempoItem{StartTick: tick, BPM: bpm})
	}
	return res
}

// tempoMap anchors piecewise-constant tempo segments for time<->tick
// conversion.
type tempoMap struct {
	resolution int64
	anchors    []tempoAnchor
}

type tempoAnchor struct {
	time float64
	tick float64
	bpm  float64
}

func newTempoMap(resolution int64, tempos []model.TempoChange) tempoMap {
	anchors := make([]tempoAnchor, 0, len(tempos))
	tick := 0.0
	for i, tc := range tempos {
		if i > 0 {
			prev := tempos[i-1]
			tick += (tc.Time - prev.Time) * prev.BPM / 60 * float64(resolution)
		}
		anchors = append(anchors, tempoAnchor{time: tc.Time, tick: tick, bpm: tc.BPM})
	}
	return tempoMap{resolution: resolution, anchors: anchors}
}

func (tm tempoMap) timeToTick(t float64) int64 {
	a := tm.anchors[0]
	for _, anchor := range tm.anchors {
		if anchor.time > t {
			break
		}
		a = anchor
	}
	return int64(math.Round(a.tick + (t-a.time)*a.bpm/60*float64(tm.resolution)))
}

func (tm tempoMap) tickToTime(tick int64) float64 {
	a := tm.anchors[0]
	for _, anchor := range tm.anchors {
		if anchor.tick > float64(tick) {
			break
		}
		a = anchor
	}
	return a.time + (float64(tick)-a.tick)/float64(tm.resolution)*60/a.bpm
}
