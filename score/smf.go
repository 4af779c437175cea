package score

import (
	"bytes"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/remitok/model"
)

// ErrNoTimeSignature is returned in strict mode when a file defines no meter.
var ErrNoTimeSignature = errors.New("score: no time signature defined")

const drumChannel = 9

// Load reads and parses a standard MIDI file.
func Load(path string, strict bool) (s *Score, e error) {
	// the smf reader panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return Parse(parsed, strict)
}

type trackKey struct {
	channel uint8
	program uint8
	drum    bool
}

// Parse walks every SMF track and assembles a Score: notes and pedal spans
// grouped per (channel, program), tempo and meter changes, and the piece end
// time.
func Parse(mf *smf.SMF, strict bool) (*Score, error) {
	metricTicks, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Errorf("unsupported time format %v", mf.TimeFormat)
	}
	resolution := int64(metricTicks.Resolution())

	tracks := make(map[trackKey]*Track)
	var order []trackKey
	trackFor := func(key trackKey) *Track {
		if tr, ok := tracks[key]; ok {
			return tr
		}
		tr := &Track{Instrument: model.Instrument{Program: key.program, IsDrum: key.drum}}
		tracks[key] = tr
		order = append(order, key)
		return tr
	}

	var tempos []model.TempoChange
	var sigs []model.TimeSignature
	var end float64

	type pending struct {
		start    float64
		velocity uint8
		key      trackKey
	}

	for _, events := range mf.Tracks {
		var absTicks int64
		programs := make(map[uint8]uint8)
		sounding := make(map[[2]uint8][]pending)
		pedalDown := make(map[uint8]float64)
		pedalHeld := make(map[uint8]bool)

		for _, ev := range events {
			absTicks += int64(ev.Delta)
			at := float64(mf.TimeAt(absTicks)) / 1e6
			if at > end {
				end = at
			}

			var channel, key, velocity, program uint8
			var cc, ccVal uint8
			var bpm float64
			var num, denom uint8

			msg := ev.Message
			switch {
			case msg.GetMetaTempo(&bpm):
				tempos = append(tempos, model.TempoChange{Time: at, BPM: bpm})
			case msg.GetMetaMeter(&num, &denom):
				sigs = append(sigs, model.TimeSignature{
					Numerator:   int(num),
					Denominator: int(denom),
					Time:        at,
				})
			case msg.GetProgramChange(&channel, &program):
				programs[channel] = program
			case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				tk := trackKey{channel: channel, program: programs[channel], drum: channel == drumChannel}
				id := [2]uint8{channel, key}
				sounding[id] = append(sounding[id], pending{start: at, velocity: velocity, key: tk})
			case msg.GetNoteOff(&channel, &key, &velocity),
				msg.GetNoteOn(&channel, &key, &velocity): // velocity 0 note-on
				id := [2]uint8{channel, key}
				if held := sounding[id]; len(held) > 0 {
					p := held[0]
					sounding[id] = held[1:]
					tr := trackFor(p.key)
					tr.Notes = append(tr.Notes, Note{
						Start:    p.start,
						End:      at,
						Pitch:    key,
						Velocity: p.velocity,
					})
				}
			case msg.GetControlChange(&channel, &cc, &ccVal) && cc == 64:
				switch {
				case ccVal >= 64 && !pedalHeld[channel]:
					pedalHeld[channel] = true
					pedalDown[channel] = at
				case ccVal < 64 && pedalHeld[channel]:
					pedalHeld[channel] = false
					tk := trackKey{channel: channel, program: programs[channel], drum: channel == drumChannel}
					tr := trackFor(tk)
					tr.Pedals = append(tr.Pedals, Span{Start: pedalDown[channel], End: at})
				}
			}
		}
	}

	if strict && len(sigs) == 0 {
		return nil, ErrNoTimeSignature
	}

	sort.SliceStable(tempos, func(i, j int) bool { return tempos[i].Time < tempos[j].Time })
	sort.SliceStable(sigs, func(i, j int) bool { return sigs[i].Time < sigs[j].Time })

	res := make([]Track, 0, len(order))
	for _, key := range order {
		res = append(res, *tracks[key])
	}
	return New(resolution, res, tempos, sigs, end), nil
}
