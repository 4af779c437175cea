package remi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/score"
)

func oneBarDrumScore() *score.Score {
	drums := score.Track{
		Instrument: model.Instrument{IsDrum: true},
		Notes:      []score.Note{{Start: 0, End: 0.5, Pitch: 38, Velocity: 64}},
	}
	return score.New(480, []score.Track{drums},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 2)
}

func TestTokensSingleBar(t *testing.T) {
	enc, err := NewEncoder(oneBarDrumScore(), true, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	tokens, err := enc.Tokens()

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{
		"Bar_1",
		"Time Signature_4/4",
		"Position_0",
		"Chord_N:N",
		"Position_0",
		"Tempo_16",
		"Position_0",
		"Instrument_drum",
		"Pitch_drum_38",
		"Velocity_16",
		"Duration_11",
	}, tokens)
}

func TestTokensCarriedChordAndTempo(t *testing.T) {
	piano := score.Track{
		Instrument: model.Instrument{Program: 0},
		Notes: []score.Note{
			{Start: 0, End: 4, Pitch: 60, Velocity: 80},
			{Start: 0, End: 4, Pitch: 64, Velocity: 80},
			{Start: 0, End: 4, Pitch: 67, Velocity: 80},
			{Start: 2, End: 2.5, Pitch: 72, Velocity: 80},
		},
	}
	sc := score.New(480, []score.Track{piano},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 4)

	enc, err := NewEncoder(sc, true, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	tokens, err := enc.Tokens()

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{
		"Bar_1",
		"Time Signature_4/4",
		"Position_0",
		"Chord_C:maj",
		"Position_0",
		"Tempo_16",
		"Position_0",
		"Instrument_Acoustic Grand Piano",
		"Pitch_60",
		"Velocity_20",
		"Duration_25",
		"Position_0",
		"Instrument_Acoustic Grand Piano",
		"Pitch_64",
		"Velocity_20",
		"Duration_25",
		"Position_0",
		"Instrument_Acoustic Grand Piano",
		"Pitch_67",
		"Velocity_20",
		"Duration_25",
		"Bar_2",
		"Time Signature_4/4",
		// the running chord and tempo are restated so the bar stands alone
		"Position_0",
		"Chord_C:maj",
		"Position_0",
		"Tempo_16",
		"Position_0",
		"Instrument_Acoustic Grand Piano",
		"Pitch_72",
		"Velocity_20",
		"Duration_11",
	}, tokens)
}

func TestTokensShortPieceHasNoChords(t *testing.T) {
	drums := score.Track{
		Instrument: model.Instrument{IsDrum: true},
		Notes:      []score.Note{{Start: 0, End: 0.2, Pitch: 38, Velocity: 64}},
	}
	// shorter than one quarter note, so chord extraction yields nothing
	sc := score.New(480, []score.Track{drums},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 0.2)

	enc, err := NewEncoder(sc, true, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	tokens, err := enc.Tokens()

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotEmpty(tokens)
	for _, tok := range tokens {
		assert.False(strings.HasPrefix(tok, "Chord_"), tok)
	}
}

func TestTokensWithoutChordExtraction(t *testing.T) {
	enc, err := NewEncoder(oneBarDrumScore(), false, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	tokens, err := enc.Tokens()

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotContains(tokens, "Chord_N:N")
	assert.Contains(tokens, "Pitch_drum_38")
}

func TestNewEncoderStrictRejectsEmptyScore(t *testing.T) {
	sc := score.New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}}, nil, 2)

	_, err := NewEncoder(sc, false, true)
	assert.ErrorIs(t, err, ErrNoNotes)

	enc, err := NewEncoder(sc, false, false)
	assert.NoError(t, err)
	assert.Empty(t, enc.Groups())
}

func TestEventsRejectsDegenerateMeter(t *testing.T) {
	piano := score.Track{
		Instrument: model.Instrument{Program: 0},
		Notes:      []score.Note{{Start: 0, End: 0.05, Pitch: 60, Velocity: 80}},
	}
	// 1/64 yields less than one position slot per bar
	sc := score.New(480, []score.Track{piano},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 1, Denominator: 64, Time: 0}}, 0.1)

	enc, err := NewEncoder(sc, false, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	_, err = enc.Events()
	assert.ErrorIs(t, err, ErrBarGeometry)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc, err := NewEncoder(oneBarDrumScore(), true, true)
	if err != nil {
		t.Fatalf("could not build encoder: %v", err)
	}
	tokens, err := enc.Tokens()
	if err != nil {
		t.Fatalf("could not encode: %v", err)
	}

	res := Decode(tokens, nil)

	assert := assert.New(t)
	assert.Equal(120.0, res.InitialBPM)
	assert.Equal(1, res.NotesAdmitted)
	assert.Equal(1, res.NotesTotal)
	assert.Len(res.Tracks, 1)
	assert.True(res.Tracks[0].Instrument.IsDrum)
	assert.Len(res.Tracks[0].Notes, 1)

	note := res.Tracks[0].Notes[0]
	assert.Equal(uint8(38), note.Pitch)
	assert.Equal(uint8(64), note.Velocity)
	assert.InDelta(0.0, note.Start, 1e-9)
	assert.InDelta(0.5, note.End, 1e-9)
}
