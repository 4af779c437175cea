package constants

import "os"

// Number of discrete positions per quarter note in the token representation.
const PosPerQuarter = 12

// Tick grid used when expanding tempo changes onto a regular grid.
const DefaultResolution = 480

// Default number of simultaneous notes admitted per bar/position/instrument
// when decoding.
const DefaultPolyphonyLimit = 16

// Token category keys.
const (
	TimeSignatureKey = "Time Signature"
	BarKey           = "Bar"
	PositionKey      = "Position"
	InstrumentKey    = "Instrument"
	PitchKey         = "Pitch"
	VelocityKey      = "Velocity"
	DurationKey      = "Duration"
	TempoKey         = "Tempo"
	ChordKey         = "Chord"

	NoteDensityKey  = "Note Density"
	MeanPitchKey    = "Mean Pitch"
	MeanVelocityKey = "Mean Velocity"
	MeanDurationKey = "Mean Duration"
)

// Special tokens shared with the vocabulary layer.
const (
	PadToken  = "<pad>"
	UnkToken  = "<unk>"
	BosToken  = "<bos>"
	EosToken  = "<eos>"
	MaskToken = "<mask>"
)

func GetServeAddr() string {
	addr := os.Getenv("REMITOK_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}
