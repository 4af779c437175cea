package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/remitok/model"
	"github.com/jsphweid/remitok/score"
)

func TestExtractShortPieceYieldsNothing(t *testing.T) {
	piano := score.Track{
		Instrument: model.Instrument{Program: 0},
		Notes:      []score.Note{{Start: 0, End: 0.2, Pitch: 60, Velocity: 80}},
	}
	// 0.2s at 120 BPM is 192 ticks, less than one quarter note
	sc := score.New(480, []score.Track{piano},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 0.2)

	assert.Empty(t, Extract(sc))
}

func TestExtractLeadingSilence(t *testing.T) {
	piano := score.Track{
		Instrument: model.Instrument{Program: 0},
		Notes: []score.Note{
			{Start: 2, End: 4, Pitch: 60, Velocity: 80},
			{Start: 2, End: 4, Pitch: 64, Velocity: 80},
			{Start: 2, End: 4, Pitch: 67, Velocity: 80},
		},
	}
	sc := score.New(480, []score.Track{piano},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 4)

	items := Extract(sc)

	// the silent opening bar is covered by a no-chord item from tick 0
	assert.Equal(t, []model.ChordItem{
		{StartTick: 0, EndTick: 1920, Label: "N:N"},
		{StartTick: 1920, EndTick: 3840, Label: "C:maj"},
	}, items)
}

func TestExtractChordFromStart(t *testing.T) {
	piano := score.Track{
		Instrument: model.Instrument{Program: 0},
		Notes: []score.Note{
			{Start: 0, End: 2, Pitch: 60, Velocity: 80},
			{Start: 0, End: 2, Pitch: 64, Velocity: 80},
			{Start: 0, End: 2, Pitch: 67, Velocity: 80},
		},
	}
	sc := score.New(480, []score.Track{piano},
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 2)

	items := Extract(sc)

	assert := assert.New(t)
	assert.Len(items, 1)
	assert.Equal(model.ChordItem{StartTick: 0, EndTick: 1920, Label: "C:maj"}, items[0])
}
