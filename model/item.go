package model

import "github.com/jsphweid/remitok/constants"

// ItemKind tags the concrete type of an Item. The numeric order doubles as
// the sort priority when items share a start tick.
type ItemKind int

const (
	KindChord ItemKind = iota
	KindTempo
	KindNote
	KindPedal
)

func (k ItemKind) String() string {
	switch k {
	case KindChord:
		return "Chord"
	case KindTempo:
		return "Tempo"
	case KindNote:
		return "Note"
	case KindPedal:
		return "Pedal"
	}
	return "Unknown"
}

// Item is a single musical fact on the tick timeline. Each kind carries only
// the fields that mean something for it.
type Item interface {
	Kind() ItemKind
	Start() int64
	End() int64
}

// Instrument identifies either a melodic GM program or the drum kit.
type Instrument struct {
	Program uint8
	IsDrum  bool
}

// SortKey orders drums below every melodic program number.
func (i Instrument) SortKey() int {
	if i.IsDrum {
		return -1
	}
	return int(i.Program)
}

// Name returns the GM instrument name, or "drum" for the drum kit.
func (i Instrument) Name() string {
	if i.IsDrum {
		return "drum"
	}
	return constants.ProgramName(i.Program)
}

// NoteItem is a pitched or percussive note in ticks.
type NoteItem struct {
	StartTick  int64
	EndTick    int64
	Pitch      uint8
	Velocity   uint8
	Instrument Instrument
}

func (n NoteItem) Kind() ItemKind { return KindNote }
func (n NoteItem) Start() int64   { return n.StartTick }
func (n NoteItem) End() int64     { return n.EndTick }

// ChordItem is a recognized harmony over a half-open tick span. Label is
// "root:quality" or the silence label "N:N".
type ChordItem struct {
	StartTick int64
	EndTick   int64
	Label     string
}

func (c ChordItem) Kind() ItemKind { return KindChord }
func (c ChordItem) Start() int64   { return c.StartTick }
func (c ChordItem) End() int64     { return c.EndTick }

// TempoItem marks the tempo in effect from its start tick.
type TempoItem struct {
	StartTick int64
	BPM       int
}

func (t TempoItem) Kind() ItemKind { return KindTempo }
func (t TempoItem) Start() int64   { return t.StartTick }
func (t TempoItem) End() int64     { return t.StartTick }

// PedalItem is a sustain-pedal hold span.
type PedalItem struct {
	StartTick int64
	EndTick   int64
}

func (p PedalItem) Kind() ItemKind { return KindPedal }
func (p PedalItem) Start() int64   { return p.StartTick }
func (p PedalItem) End() int64     { return p.EndTick }
