package remi

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jsphweid/remitok/chord"
	"github.com/jsphweid/remitok/constants"
	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/score"
	"github.com/jsphweid/remitok/timeline"
	"github.com/jsphweid/remitok/util"
)

var (
	// ErrNoNotes is returned in strict mode for a piece without notes.
	ErrNoNotes = errors.New("remi: no notes found, empty file")
	// ErrBarGeometry signals a meter yielding zero positions per bar.
	ErrBarGeometry = errors.New("remi: there must be at least 1 position per bar")
)

// Encoder walks the bar groups of one score and serializes them to REMI+
// events.
type Encoder struct {
	score  *score.Score
	groups []timeline.BarGroup
}

// NewEncoder quantizes and groups the score's items, optionally running
// chord extraction first. In strict mode a score without notes is rejected.
func NewEncoder(sc *score.Score, extractChords, strict bool) (*Encoder, error) {
	notes := sc.NoteItems()
	if strict && len(notes) == 0 {
		return nil, ErrNoNotes
	}
	var chords []model.ChordItem
	if extractChords {
		chords = chord.Extract(sc)
	}
	items := timeline.Merge(chords, sc.TempoItems(), notes)
	groups := timeline.Group(items, sc.DownbeatTicks(), sc.EndTick())
	return &Encoder{score: sc, groups: groups}, nil
}

// Groups exposes the bar groups the encoder reads.
func (e *Encoder) Groups() []timeline.BarGroup {
	return e.groups
}

// encodeState is the carry-forward state threaded through the bars: the last
// chord and tempo emitted, possibly in an earlier bar.
type encodeState struct {
	currentChord *model.ChordItem
	currentTempo *model.TempoItem
}

// Events runs the single forward pass over all bar groups.
func (e *Encoder) Events() ([]model.Event, error) {
	var events []model.Event
	var state encodeState
	for i, group := range e.groups {
		barEvents, err := e.encodeBar(group, i+1, &state)
		if err != nil {
			return nil, err
		}
		events = append(events, barEvents...)
	}
	return events, nil
}

// Tokens renders the event stream in the wire format.
func (e *Encoder) Tokens() ([]string, error) {
	events, err := e.Events()
	if err != nil {
		return nil, err
	}
	tokens := make([]string, len(events))
	for i, ev := range events {
		tokens[i] = ev.Token()
	}
	return tokens, nil
}

func (e *Encoder) encodeBar(group timeline.BarGroup, nDownbeat int, state *encodeState) ([]model.Event, error) {
	sig := e.score.TimeSignatureAt(group.StartTick)
	positionsPerBar := timeline.PositionsPerBar(sig)
	if positionsPerBar <= 0 {
		return nil, errors.Wrapf(ErrBarGeometry, "bar %d", nDownbeat)
	}

	events := []model.Event{
		{
			Name:  constants.BarKey,
			Time:  -1,
			Value: strconv.Itoa(nDownbeat),
			Text:  strconv.Itoa(nDownbeat),
		},
		{
			Name:  constants.TimeSignatureKey,
			Time:  -1,
			Value: fmt.Sprintf("%d/%d", sig.Numerator, sig.Denominator),
			Text:  fmt.Sprintf("%d/%d", sig.Numerator, sig.Denominator),
		},
	}

	// restate the carried chord and tempo so each bar is self-describing
	if state.currentChord != nil {
		events = append(events,
			positionEvent(0, 0, positionsPerBar),
			model.Event{
				Name:  constants.ChordKey,
				Time:  state.currentChord.StartTick,
				Value: state.currentChord.Label,
				Text:  state.currentChord.Label,
			})
	}
	if state.currentTempo != nil {
		events = append(events,
			positionEvent(0, 0, positionsPerBar),
			tempoEvent(*state.currentTempo))
	}

	ticksPerBar := timeline.TicksPerBar(e.score.Resolution, sig)
	flags := make([]float64, positionsPerBar)
	for k := range flags {
		flags[k] = float64(group.StartTick) + float64(k)*ticksPerBar/float64(positionsPerBar)
	}

	for _, item := range group.Items {
		index := util.NearestIndex(flags, float64(item.Start()))
		posEvent := positionEvent(index, item.Start(), positionsPerBar)

		switch it := item.(type) {
		case model.NoteItem:
			events = append(events, posEvent)
			events = append(events, e.noteEvents(it)...)
		case model.ChordItem:
			if state.currentChord == nil || it.Label != state.currentChord.Label {
				events = append(events, posEvent, model.Event{
					Name:  constants.ChordKey,
					Time:  it.StartTick,
					Value: it.Label,
					Text:  it.Label,
				})
				c := it
				state.currentChord = &c
			}
		case model.TempoItem:
			if state.currentTempo == nil || it.BPM != state.currentTempo.BPM {
				events = append(events, posEvent, tempoEvent(it))
				t := it
				state.currentTempo = &t
			}
		}
	}
	return events, nil
}

// noteEvents emits the fixed Instrument/Pitch/Velocity/Duration tail of a
// note's 5-token group.
func (e *Encoder) noteEvents(n model.NoteItem) []model.Event {
	name := n.Instrument.Name()

	pitchValue := strconv.Itoa(int(n.Pitch))
	if n.Instrument.IsDrum {
		pitchValue = "drum_" + pitchValue
	}

	velocityIndex := util.NearestIndex(constants.VelocityBins, float64(n.Velocity))
	duration := timeline.TickToPosition(n.EndTick-n.StartTick, e.score.Resolution)
	durationIndex := util.NearestIndex(constants.DurationBins, float64(duration))

	return []model.Event{
		{
			Name:  constants.InstrumentKey,
			Time:  n.StartTick,
			Value: name,
			Text:  name,
		},
		{
			Name:  constants.PitchKey,
			Time:  n.StartTick,
			Value: pitchValue,
			Text:  noteName(n.Pitch),
		},
		{
			Name:  constants.VelocityKey,
			Time:  n.StartTick,
			Value: strconv.Itoa(velocityIndex),
			Text:  fmt.Sprintf("%d/%d", n.Velocity, constants.VelocityBins[velocityIndex]),
		},
		{
			Name:  constants.DurationKey,
			Time:  n.StartTick,
			Value: strconv.Itoa(durationIndex),
			Text:  fmt.Sprintf("%d/%d", duration, constants.DurationBins[durationIndex]),
		},
	}
}

func positionEvent(index int, time int64, positionsPerBar int) model.Event {
	return model.Event{
		Name:  constants.PositionKey,
		Time:  time,
		Value: strconv.Itoa(index),
		Text:  fmt.Sprintf("%d/%d", index+1, positionsPerBar),
	}
}

func tempoEvent(t model.TempoItem) model.Event {
	index := util.NearestIndex(constants.TempoBins, float64(t.BPM))
	return model.Event{
		Name:  constants.TempoKey,
		Time:  t.StartTick,
		Value: strconv.Itoa(index),
		Text:  fmt.Sprintf("%d/%d", t.BPM, constants.TempoBins[index]),
	}
}

// noteName renders a MIDI pitch as its note name, middle C being C4.
func noteName(pitch uint8) string {
	return fmt.Sprintf("%s%d", constants.PitchClasses[pitch%12], int(pitch)/12-1)
}
