package util

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestIndex(t *testing.T) {
	bins := []int{0, 4, 8, 12}

	assert := assert.New(t)
	assert.Equal(0, NearestIndex(bins, 0))
	assert.Equal(1, NearestIndex(bins, 5))
	assert.Equal(3, NearestIndex(bins, 100))
	// ties break toward the earlier bin
	assert.Equal(0, NearestIndex(bins, 2))
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 7))
	assert.Equal(7, Max(3, 7))
	assert.Equal(int64(5), Max(int64(5), int64(5)))
}

func TestNearestIndexNaN(t *testing.T) {
	bins := []float64{0, 4, 8}
	assert.Equal(t, 0, NearestIndex(bins, math.NaN()))
}

func TestReadWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.remi")
	lines := []string{"Bar_1", "Time Signature_4/4", "Position_0"}

	err := WriteLines(path, lines)
	assert.NoError(t, err)

	got, err := ReadLines(path)
	assert.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.remi"))
	assert.Error(t, err)
}
