package constants

// PitchClasses names the 12 pitch classes, C first.
var PitchClasses = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ChordQualities lists every quality label the recognizer can emit.
var ChordQualities = []string{"maj", "min", "dim", "aug", "dom7", "maj7", "min7", "None"}

// ChordMaps gives the defining semitone intervals for each quality.
var ChordMaps = map[string][]int{
	"maj":  {0, 4},
	"min":  {0, 3},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"dom7": {0, 4, 10},
	"maj7": {0, 4, 11},
	"min7": {0, 3, 10},
}

// ChordInsiders are extensions that strengthen a quality (scored +10).
var ChordInsiders = map[string][]int{
	"maj":  {7},
	"min":  {7},
	"dim":  {9},
	"aug":  {},
	"dom7": {7},
	"maj7": {7},
	"min7": {7},
}

// ChordOutsiders1 are mildly foreign intervals (scored -1).
var ChordOutsiders1 = map[string][]int{
	"maj":  {2, 5, 9},
	"min":  {2, 5, 8},
	"dim":  {2, 5, 10},
	"aug":  {2, 5, 9},
	"dom7": {2, 5, 9},
	"maj7": {2, 5, 9},
	"min7": {2, 5, 8},
}

// ChordOutsiders2 are strongly foreign intervals (scored -2).
var ChordOutsiders2 = map[string][]int{
	"maj":  {1, 3, 6, 8, 10, 11},
	"min":  {1, 4, 6, 9, 11},
	"dim":  {1, 4, 7, 8, 11},
	"aug":  {1, 3, 6, 7, 10},
	"dom7": {1, 3, 6, 8, 11},
	"maj7": {1, 3, 6, 8, 10},
	"min7": {1, 4, 6, 9, 11},
}
