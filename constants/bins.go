package constants

import "math"

// VelocityBins maps MIDI velocities (0-128) onto 33 evenly spaced values.
var VelocityBins = []int{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64,
	68, 72, 76, 80, 84, 88, 92, 96, 100, 104, 108, 112, 116, 120, 124, 128,
}

// DurationBins holds note durations in position units: every position up to a
// quarter note, 16th notes and triplets up to a bar, 8th notes up to 2 bars,
// quarter notes up to 8 bars and half notes up to 16 bars. The value 21
// appears twice because the 16th-note and triplet series meet there; nearest
// lookups always take the first hit.
var DurationBins = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
	15, 17, 18, 21, 21,
	24, 30, 36, 42,
	48, 60, 72, 84, 96, 108, 120, 132, 144, 156, 168, 180,
	192, 216, 240, 264, 288, 312, 336, 360, 384, 408, 432, 456, 480,
	504, 528, 552, 576, 600, 624, 648, 672, 696, 720, 744, 768,
}

// TempoBins covers 0-240 BPM in 33 steps, truncated to whole BPM.
var TempoBins = []int{
	0, 7, 15, 22, 30, 37, 45, 52, 60, 67, 75, 82, 90, 97, 105, 112, 120,
	127, 135, 142, 150, 157, 165, 172, 180, 187, 195, 202, 210, 217, 225, 232, 240,
}

// Bar-level description bins.
var (
	NoteDensityBins  = linspace(0, 12, 33)
	MeanVelocityBins = linspace(0, 128, 33)
	MeanPitchBins    = linspace(0, 128, 33)
	MeanDurationBins = logspace2(0, 7, 33)
)

func linspace(start, stop float64, num int) []float64 {
	res := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range res {
		res[i] = start + float64(i)*step
	}
	return res
}

// logspace2 returns num values spaced evenly on a log scale with base 2.
func logspace2(start, stop float64, num int) []float64 {
	res := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range res {
		res[i] = math.Pow(2, start+float64(i)*step)
	}
	return res
}
