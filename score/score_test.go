package score

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/remitok/model"
)

func TestTempoMapConversions(t *testing.T) {
	sc := New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}, {Time: 2, BPM: 60}},
		nil, 3)

	assert := assert.New(t)
	assert.Equal(int64(0), sc.TimeToTick(0))
	assert.Equal(int64(960), sc.TimeToTick(1))
	assert.Equal(int64(1920), sc.TimeToTick(2))
	// only one quarter note elapses per second at 60 BPM
	assert.Equal(int64(2400), sc.TimeToTick(3))

	assert.InDelta(0.0, sc.TickToTime(0), 1e-9)
	assert.InDelta(1.0, sc.TickToTime(960), 1e-9)
	assert.InDelta(3.0, sc.TickToTime(2400), 1e-9)
}

func TestDefaultsWhenUnspecified(t *testing.T) {
	sc := New(480, nil, nil, nil, 2)

	assert := assert.New(t)
	assert.Equal(120.0, sc.TempoChanges[0].BPM)
	assert.Equal(4, sc.TimeSignatureAt(0).Numerator)
	assert.Equal(4, sc.TimeSignatureAt(0).Denominator)
}

func TestDownbeatTicksAcrossMeterChange(t *testing.T) {
	sc := New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{
			{Numerator: 4, Denominator: 4, Time: 0},
			{Numerator: 3, Denominator: 4, Time: 4},
		}, 6)

	assert.Equal(t, []int64{0, 1920, 3840, 5280}, sc.DownbeatTicks())
}

func TestBeatsFollowDenominator(t *testing.T) {
	sc := New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{{Numerator: 4, Denominator: 4, Time: 0}}, 2)

	beats := sc.Beats()
	assert := assert.New(t)
	assert.Len(beats, 4)
	assert.InDelta(0.0, beats[0], 1e-9)
	assert.InDelta(0.5, beats[1], 1e-9)
	assert.InDelta(1.5, beats[3], 1e-9)
}

func TestTimeSignatureAt(t *testing.T) {
	sc := New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}},
		[]model.TimeSignature{
			{Numerator: 4, Denominator: 4, Time: 0},
			{Numerator: 3, Denominator: 4, Time: 4},
		}, 8)

	assert := assert.New(t)
	assert.Equal(4, sc.TimeSignatureAt(0).Numerator)
	assert.Equal(4, sc.TimeSignatureAt(3839).Numerator)
	assert.Equal(3, sc.TimeSignatureAt(3840).Numerator)
	assert.Equal(3, sc.TimeSignatureAt(5000).Numerator)
}

func TestChromaSamplesSoundingNotes(t *testing.T) {
	piano := Track{
		Instrument: model.Instrument{Program: 0},
		Notes: []Note{
			{Start: 0, End: 1, Pitch: 60, Velocity: 80},
			{Start: 0, End: 0.4, Pitch: 67, Velocity: 70},
		},
	}
	drums := Track{
		Instrument: model.Instrument{IsDrum: true},
		Notes:      []Note{{Start: 0, End: 1, Pitch: 38, Velocity: 127}},
	}
	sc := New(480, []Track{piano, drums},
		[]model.TempoChange{{Time: 0, BPM: 120}}, nil, 2)

	chroma := sc.Chroma([]float64{0, 0.5})

	assert := assert.New(t)
	assert.Equal(80.0, chroma[0][0])
	assert.Equal(70.0, chroma[7][0])
	assert.Equal(80.0, chroma[0][1])
	assert.Equal(0.0, chroma[7][1], "note released before second beat")
	assert.Equal(0.0, chroma[2][0], "drum pitches carry no harmony")
}

func TestNoteItemsExtendsUnderPedal(t *testing.T) {
	tr := Track{
		Instrument: model.Instrument{Program: 0},
		Notes:      []Note{{Start: 0.5, End: 1.0, Pitch: 60, Velocity: 80}},
		Pedals:     []Span{{Start: 0.4, End: 1.5}},
	}
	sc := New(480, []Track{tr},
		[]model.TempoChange{{Time: 0, BPM: 120}}, nil, 2)

	items := sc.NoteItems()

	assert := assert.New(t)
	assert.Len(items, 1)
	assert.Equal(int64(480), items[0].StartTick)
	assert.Equal(int64(1440), items[0].EndTick)
}

func TestTempoItemsCarryForward(t *testing.T) {
	sc := New(480, nil,
		[]model.TempoChange{{Time: 0, BPM: 120}, {Time: 1, BPM: 60}},
		nil, 2)

	items := sc.TempoItems()

	assert := assert.New(t)
	assert.Equal([]int{120, 120, 60, 60}, []int{items[0].BPM, items[1].BPM, items[2].BPM, items[3].BPM})
	assert.Equal(int64(960), items[2].StartTick)
}

func TestParseRoundTrip(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, midi.ProgramChange(0, 42))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Close(0)

	var mf smf.SMF
	mf.TimeFormat = smf.MetricTicks(480)
	mf.Tracks = append(mf.Tracks, tr)

	var buf bytes.Buffer
	_, err := mf.WriteTo(&buf)
	if err != nil {
		t.Fatalf("could not write test file: %v", err)
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("could not read test file: %v", err)
	}

	sc, err := Parse(parsed, true)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(int64(480), sc.Resolution)
	assert.Len(sc.Tracks, 1)
	assert.Equal(uint8(42), sc.Tracks[0].Instrument.Program)
	assert.False(sc.Tracks[0].Instrument.IsDrum)
	assert.Len(sc.Tracks[0].Notes, 1)

	note := sc.Tracks[0].Notes[0]
	assert.Equal(uint8(60), note.Pitch)
	assert.Equal(uint8(100), note.Velocity)
	assert.InDelta(0.0, note.Start, 1e-6)
	assert.InDelta(1.0, note.End, 1e-6)

	assert.Len(sc.TimeSignatures, 1)
	assert.Equal(4, sc.TimeSignatures[0].Numerator)
}

func TestParseStrictRequiresTimeSignature(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Close(0)

	var mf smf.SMF
	mf.TimeFormat = smf.MetricTicks(480)
	mf.Tracks = append(mf.Tracks, tr)

	var buf bytes.Buffer
	if _, err := mf.WriteTo(&buf); err != nil {
		t.Fatalf("could not write test file: %v", err)
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("could not read test file: %v", err)
	}

	_, err = Parse(parsed, true)
	assert.ErrorIs(t, err, ErrNoTimeSignature)
}
