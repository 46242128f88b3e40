package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate system:
// - Columns: a-o, left to right (x = 0..14)
// - Rows: 1-10, top to bottom (y = 0..9)
// - Example: "a,2" is (0, 1), "o,10" is (14, 9)

// ErrInvalidCoord is wrapped by every ParseCoord failure.
var ErrInvalidCoord = errors.New("invalid coordinate")

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// ColumnLetter returns the letter naming column x.
func ColumnLetter(x int) string {
	return string(rune('a' + x))
}

// FormatCoord converts board coordinates to "letter,row" notation.
func FormatCoord(x, y int) string {
	return fmt.Sprintf("%s,%d", ColumnLetter(x), y+1)
}

// ParseCoord converts "letter,row" notation to board coordinates.
func ParseCoord(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoord, s)
	}
	col := strings.ToLower(strings.TrimSpace(parts[0]))
	if len(col) != 1 || col[0] < 'a' || int(col[0]-'a') >= Width {
		return 0, 0, fmt.Errorf("%w: column %q", ErrInvalidCoord, parts[0])
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row %q", ErrInvalidCoord, parts[1])
	}
	x, y := int(col[0]-'a'), row-1
	if !InBounds(x, y) {
		return 0, 0, fmt.Errorf("%w: %q is off the board", ErrInvalidCoord, s)
	}
	return x, y, nil
}
