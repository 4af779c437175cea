package util

import (
	"bufio"
	"math"
	"os"
	"strings"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// NearestIndex returns the index of the bin value closest to target by
// absolute difference. Ties and NaN targets resolve to the first minimum
// found scanning left to right.
func NearestIndex[A Number](bins []A, target float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, b := range bins {
		diff := math.Abs(float64(b) - target)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

func Min[A constraints.Ordered](a, b A) A {
	if a < b {
		return a
	}
	return b
}

func Max[A constraints.Ordered](a, b A) A {
	if a > b {
		return a
	}
	return b
}

// ReadLines loads a token file, one token per line, skipping blanks.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var res []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			res = append(res, line)
		}
	}
	return res, scanner.Err()
}

// WriteLines writes tokens to a file, one per line.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
