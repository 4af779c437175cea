package remi

import (
	"strconv"
	"strings"

	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/score"
	"github.com/jsphweid/remitok/util"
)

// token is a parsed category/value pair.
type token struct {
	key   string
	value string
}

// categoryKeys lists every recognized token category. Description-only keys
// are parsed so they are cleanly skipped rather than mistaken for other
// categories.
var categoryKeys = []string{
	constants.TimeSignatureKey,
	constants.BarKey,
	constants.PositionKey,
	constants.InstrumentKey,
	constants.NoteDensityKey,
	constants.MeanPitchKey,
	constants.MeanVelocityKey,
	constants.MeanDurationKey,
	constants.PitchKey,
	constants.VelocityKey,
	constants.DurationKey,
	constants.TempoKey,
	constants.ChordKey,
}

func parseToken(s string) (token, bool) {
	for _, key := range categoryKeys {
		if strings.HasPrefix(s, key+"_") {
			return token{key: key, value: s[len(key)+1:]}, true
		}
	}
	return token{}, false
}

// refFrame anchors the running timeline at the last tempo or meter change.
// Positions after the anchor are linear extrapolations at constant tempo.
type refFrame struct {
	time float64
	bar  int
	pos  int
	sig  model.TimeSignature
	bpm  float64
}

// getTime converts a bar/position to absolute seconds relative to the frame.
func getTime(ref refFrame, bar, pos int) float64 {
	quartersPerBar := 4 * float64(ref.sig.Numerator) / float64(ref.sig.Denominator)
	deltaBars := bar - ref.bar
	deltaPos := float64(pos-ref.pos) + float64(deltaBars)*quartersPerBar*constants.PosPerQuarter
	deltaQuarters := deltaPos / constants.PosPerQuarter
	return ref.time + deltaQuarters/ref.bpm*60
}

// DecodeOptions sets the timeline defaults used before the stream declares
// its own tempo and meter.
type DecodeOptions struct {
	BPM            float64
	TimeSignature  model.TimeSignature
	PolyphonyLimit int
}

// Track is one decoded instrument's notes in absolute seconds.
type Track struct {
	Instrument model.Instrument
	Notes      []score.Note
}

// Result is the decoded piece: per-instrument note lists in first-use order
// and the accumulated time-signature changes. NotesAdmitted over NotesTotal
// gives the polyphony drop rate.
type Result struct {
	Tracks         []*Track
	TimeSignatures []model.TimeSignature
	InitialBPM     float64
	NotesAdmitted  int
	NotesTotal     int
}

// Decode scans the token stream left to right with a fixed-window matcher,
// rebuilding absolute timing from the running reference frame. Tokens not
// matching a pattern head are skipped; scanning halts at the end-of-sequence
// token. Notes beyond the per-(bar, position, instrument) polyphony limit are
// silently dropped.
func Decode(tokens []string, opts *DecodeOptions) *Result {
	bpm := 120.0
	sig := model.TimeSignature{Numerator: 4, Denominator: 4}
	limit := constants.DefaultPolyphonyLimit
	if opts != nil {
		if opts.BPM > 0 {
			bpm = opts.BPM
		}
		if opts.TimeSignature.Numerator > 0 && opts.TimeSignature.Denominator > 0 {
			sig = opts.TimeSignature
		}
		if opts.PolyphonyLimit > 0 {
			limit = opts.PolyphonyLimit
		}
	}

	// the first tempo token anywhere in the stream sets the initial tempo
	for _, s := range tokens {
		tok, ok := parseToken(s)
		if !ok || tok.key != constants.TempoKey {
			continue
		}
		if idx, err := strconv.Atoi(tok.value); err == nil && idx >= 0 && idx < len(constants.TempoBins) {
			bpm = float64(constants.TempoBins[idx])
		}
		break
	}

	res := &Result{
		TimeSignatures: []model.TimeSignature{{Numerator: sig.Numerator, Denominator: sig.Denominator, Time: 0}},
		InitialBPM:     bpm,
	}
	ref := refFrame{time: 0, bar: 0, pos: 0, sig: sig, bpm: bpm}

	tracks := make(map[string]*Track)
	trackFor := func(name string) (*Track, bool) {
		if tr, ok := tracks[name]; ok {
			return tr, true
		}
		instr := model.Instrument{IsDrum: true}
		if name != "drum" {
			program, ok := constants.ProgramByName(name)
			if !ok {
				return nil, false
			}
			instr = model.Instrument{Program: program}
		}
		tr := &Track{Instrument: instr}
		tracks[name] = tr
		res.Tracks = append(res.Tracks, tr)
		return tr, true
	}

	polyphony := make(map[int]map[int]map[string]int)
	bar := -1

	for i := 0; i < len(tokens); i++ {
		if tokens[i] == constants.EosToken {
			break
		}
		if polyphony[bar] == nil {
			polyphony[bar] = make(map[int]map[string]int)
		}

		tok, ok := parseToken(tokens[i])
		if !ok {
			continue
		}

		switch tok.key {
		case constants.BarKey:
			bar++
			polyphony[bar] = make(map[int]map[string]int)

			next, ok := lookahead(tokens, i+1, constants.TimeSignatureKey)
			if !ok {
				continue
			}
			num, denom, ok := parseTimeSignature(next.value)
			if !ok {
				continue
			}
			if num != ref.sig.Numerator || denom != ref.sig.Denominator {
				t := getTime(ref, bar, 0)
				change := model.TimeSignature{Numerator: num, Denominator: denom, Time: t}
				res.TimeSignatures = append(res.TimeSignatures, change)
				ref = refFrame{time: t, bar: bar, pos: 0, sig: change, bpm: ref.bpm}
			}

		case constants.PositionKey:
			position, err := strconv.Atoi(tok.value)
			if err != nil {
				continue
			}

			if next, ok := lookahead(tokens, i+1, constants.TempoKey); ok {
				idx, err := strconv.Atoi(next.value)
				if err != nil || idx < 0 || idx >= len(constants.TempoBins) {
					continue
				}
				tempo := float64(constants.TempoBins[idx])
				if tempo != ref.bpm {
					t := getTime(ref, bar, position)
					ref = refFrame{time: t, bar: bar, pos: position, sig: ref.sig, bpm: tempo}
				}
				continue
			}

			note, ok := matchNoteGroup(tokens, i)
			if !ok {
				continue
			}
			res.NotesTotal++

			if polyphony[bar][position] == nil {
				polyphony[bar][position] = make(map[string]int)
			}
			if _, seen := polyphony[bar][position][note.instrument]; !seen {
				polyphony[bar][position][note.instrument] = 0
			} else if polyphony[bar][position][note.instrument] >= limit {
				continue
			}

			tr, ok := trackFor(note.instrument)
			if !ok {
				continue
			}

			start := getTime(ref, bar, position)
			end := getTime(ref, bar, position+note.duration)
			tr.Notes = append(tr.Notes, score.Note{
				Start:    start,
				End:      end,
				Pitch:    note.pitch,
				Velocity: note.velocity,
			})
			res.NotesAdmitted++
			polyphony[bar][position][note.instrument]++
		}
	}
	return res
}

func lookahead(tokens []string, i int, key string) (token, bool) {
	if i >= len(tokens) {
		return token{}, false
	}
	tok, ok := parseToken(tokens[i])
	if !ok || tok.key != key {
		return token{}, false
	}
	return tok, true
}

func parseTimeSignature(value string) (int, int, bool) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	num, err1 := strconv.Atoi(parts[0])
	denom, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || denom == 0 {
		return 0, 0, false
	}
	return num, denom, true
}

type noteGroup struct {
	instrument string
	pitch      uint8
	velocity   uint8
	duration   int
}

// matchNoteGroup checks whether the tokens at i form the 5-token
// Position/Instrument/Pitch/Velocity/Duration note pattern and resolves the
// binned values.
func matchNoteGroup(tokens []string, i int) (noteGroup, bool) {
	var g noteGroup
	if i+4 >= len(tokens) {
		return g, false
	}
	instr, ok1 := lookahead(tokens, i+1, constants.InstrumentKey)
	pitch, ok2 := lookahead(tokens, i+2, constants.PitchKey)
	velocity, ok3 := lookahead(tokens, i+3, constants.VelocityKey)
	duration, ok4 := lookahead(tokens, i+4, constants.DurationKey)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return g, false
	}

	g.instrument = instr.value

	p, err := strconv.Atoi(strings.TrimPrefix(pitch.value, "drum_"))
	if err != nil || p < 0 || p > 127 {
		return g, false
	}
	g.pitch = uint8(p)

	vidx, err := strconv.Atoi(velocity.value)
	if err != nil || vidx < 0 || vidx >= len(constants.VelocityBins) {
		return g, false
	}
	g.velocity = uint8(util.Min(127, constants.VelocityBins[vidx]))

	didx, err := strconv.Atoi(duration.value)
	if err != nil || didx < 0 || didx >= len(constants.DurationBins) {
		return g, false
	}
	g.duration = constants.DurationBins[didx]
	return g, true
}
