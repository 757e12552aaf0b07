// Package unitcode builds the 10-digit numbers printed on rental units.
//
// A code is laid out as BBBB FF SSSS: a four digit block prefix derived from
// the block reference, the floor number modulo 100 and a four digit sequence
// that is unique inside the block. Two units of the same block therefore never
// share a code as long as the caller hands out distinct sequences.
package unitcode

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

const (
	Length      = 10
	MaxSequence = 9999
)

var (
	ErrSequenceRange = errors.New("unitcode: sequence must be between 1 and 9999")
	ErrFloorRange    = errors.New("unitcode: floor must not be negative")
	ErrInvalidCode   = errors.New("unitcode: code must be exactly 10 digits")
)

// BlockPrefix maps a block reference onto 1000..9999.
func BlockPrefix(blockRef string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(blockRef))
	return int(h.Sum32()%9000) + 1000
}

// Generate returns the code for one unit. The result is deterministic for the
// same (blockRef, floor, sequence).
func Generate(blockRef string, floor, sequence int) (string, error) {
	if sequence < 1 || sequence > MaxSequence {
		return "", ErrSequenceRange
	}
	if floor < 0 {
		return "", ErrFloorRange
	}
	return fmt.Sprintf("%04d%02d%04d", BlockPrefix(blockRef), floor%100, sequence), nil
}

// Format groups a code for display, e.g. 4821-03-0012. Input that is not a
// valid code is returned unchanged.
func Format(code string) string {
	normalized, err := Parse(code)
	if err != nil {
		return code
	}
	return normalized[:4] + "-" + normalized[4:6] + "-" + normalized[6:]
}

// Parse strips grouping characters and checks the digits.
func Parse(s string) (string, error) {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if len(s) != Length {
		return "", ErrInvalidCode
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidCode
		}
	}
	return s, nil
}
