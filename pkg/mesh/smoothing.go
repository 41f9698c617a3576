package mesh

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// EncodeSmoothing converts a group id (0 = off, 1..32) into a bit mask.
func EncodeSmoothing(group int) (uint32, error) {
	if group == 0 {
		return 0, nil
	}
	if group < 1 || group > 32 {
		return 0, fmt.Errorf("group %d: %w", group, ErrSmoothingGroup)
	}
	return 1 << uint(group-1), nil
}

// DecodeSmoothing returns the group of the lowest set bit, 0 for an empty mask.
// Masks with several bits lose all but the lowest one.
func DecodeSmoothing(mask uint32) int {
	if mask == 0 {
		return 0
	}
	return bits.TrailingZeros32(mask) + 1
}

// ParseSmoothing parses a textual group: "off", "0" or a number 1..32.
func ParseSmoothing(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "off") {
		return 0, nil
	}
	g, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("smoothing %q: %w", s, ErrSmoothingGroup)
	}
	if _, err := EncodeSmoothing(g); err != nil {
		return 0, err
	}
	return g, nil
}
