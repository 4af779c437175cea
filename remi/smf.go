package remi

import (
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/remitok/constants"
)

const drumChannel = 9

// ToSMF renders a decoded result as a standard MIDI file: one meta track with
// the initial tempo and the meter changes, then one track per instrument.
// Decoded note times are absolute seconds, so ticks are laid out at the
// initial tempo.
func (r *Result) ToSMF() *smf.SMF {
	resolution := int64(constants.DefaultResolution)
	secToTick := func(t float64) int64 {
		return int64(math.Round(t * r.InitialBPM / 60 * float64(resolution)))
	}

	var out smf.SMF
	out.TimeFormat = smf.MetricTicks(resolution)

	var meta smf.Track
	meta.Add(0, smf.MetaTempo(r.InitialBPM))
	var lastTick int64
	for _, sig := range r.TimeSignatures {
		tick := secToTick(sig.Time)
		meta.Add(uint32(tick-lastTick), smf.MetaMeter(uint8(sig.Numerator), uint8(sig.Denominator)))
		lastTick = tick
	}
	meta.Close(0)
	out.Tracks = append(out.Tracks, meta)

	channel := uint8(0)
	for _, tr := range r.Tracks {
		ch := drumChannel
		if !tr.Instrument.IsDrum {
			if channel == drumChannel {
				channel++
			}
			ch = int(channel)
			if channel < 15 {
				channel++
			}
		}

		type noteEvent struct {
			tick int64
			on   bool
			msg  midi.Message
		}
		var events []noteEvent
		for _, n := range tr.Notes {
			events = append(events,
				noteEvent{tick: secToTick(n.Start), on: true, msg: midi.NoteOn(uint8(ch), n.Pitch, n.Velocity)},
				noteEvent{tick: secToTick(n.End), on: false, msg: midi.NoteOff(uint8(ch), n.Pitch)},
			)
		}
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].tick != events[j].tick {
				return events[i].tick < events[j].tick
			}
			return !events[i].on && events[j].on
		})

		var track smf.Track
		if !tr.Instrument.IsDrum {
			track.Add(0, midi.ProgramChange(uint8(ch), tr.Instrument.Program))
		}
		var last int64
		for _, ev := range events {
			track.Add(uint32(ev.tick-last), ev.msg)
			last = ev.tick
		}
		track.Close(0)
		out.Tracks = append(out.Tracks, track)
	}
	return &out
}
