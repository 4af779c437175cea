package model

// Event is one emission unit of the token stream. Time is a tick and is -1
// for bar-scoped events; Text is a human-readable annotation that plays no
// role in decoding.
type Event struct {
	Name  string
	Time  int64
	Value string
	Text  string
}

// Token renders the event in the wire format "<Category>_<Value>".
func (e Event) Token() string {
	return e.Name + "_" + e.Value
}

// TimeSignature is a meter change at an absolute time in seconds.
type TimeSignature struct {
	Numerator   int
	Denominator int
	Time        float64
}

// TempoChange is a tempo change at an absolute time in seconds.
type TempoChange struct {
	Time float64
	BPM  float64
}

// Chroma is pitch-class energy per beat-delimited column, 12 rows.
type Chroma [12][]float64

// Cols reports the number of beat columns.
func (c Chroma) Cols() int {
	return len(c[0])
}
