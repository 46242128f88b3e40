package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"battleship-tui/board"
)

// ProtocolError reports a line that is not a valid message. It is fatal
// to the session that received it.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	line := e.Line
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return fmt.Sprintf("protocol error: %s: %q", e.Reason, line)
}

// fieldCounts is the number of fields after the tag for each type.
// Negative entries are handled in Parse.
var fieldCounts = map[Type]int{
	Handshake:   -1,
	EnemyName:   1,
	NameExists:  0,
	ClientBoard: board.Width * board.Height,
	Setup:       1,
	MoveMsg:     2,
	Update:      7,
	GameOver:    2,
	Exit:        0,
}

// Parse decodes one line. Trailing CR/LF are ignored.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Separator)
	m := Message{Type: Type(parts[0])}
	fields := parts[1:]

	want, ok := fieldCounts[m.Type]
	if !ok {
		return Message{}, &ProtocolError{line, "unknown message type"}
	}
	if m.Type == Handshake {
		if len(fields) > 1 {
			return Message{}, &ProtocolError{line, "HANDSHAKE takes at most one field"}
		}
		if len(fields) == 1 {
			if fields[0] == "" {
				return Message{}, &ProtocolError{line, "empty player name"}
			}
			m.Name = fields[0]
		}
		return m, nil
	}
	if len(fields) != want {
		return Message{}, &ProtocolError{line, fmt.Sprintf("%s takes %d fields, got %d", m.Type, want, len(fields))}
	}

	var err error
	switch m.Type {
	case EnemyName, Setup:
		m.Name = fields[0]
		if m.Name == "" {
			return Message{}, &ProtocolError{line, "empty player name"}
		}
	case ClientBoard:
		m.Board = fields
	case MoveMsg:
		if m.X, m.Y, err = parseXY(fields[0], fields[1]); err != nil {
			return Message{}, &ProtocolError{line, err.Error()}
		}
	case Update:
		if m.X, m.Y, err = parseXY(fields[0], fields[1]); err != nil {
			return Message{}, &ProtocolError{line, err.Error()}
		}
		flags := make([]bool, 3)
		for i := range flags {
			if flags[i], err = strconv.ParseBool(fields[2+i]); err != nil {
				return Message{}, &ProtocolError{line, fmt.Sprintf("bad flag %q", fields[2+i])}
			}
		}
		m.Hit, m.Sunk, m.Late = flags[0], flags[1], flags[2]
		m.Who, m.Next = fields[5], fields[6]
	case GameOver:
		m.Name = fields[0]
		if m.WinType, err = strconv.ParseBool(fields[1]); err != nil {
			return Message{}, &ProtocolError{line, fmt.Sprintf("bad win type %q", fields[1])}
		}
	}
	return m, nil
}

func parseXY(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q", ys)
	}
	if !board.InBounds(x, y) {
		return 0, 0, fmt.Errorf("%d,%d is off the board", x, y)
	}
	return x, y, nil
}
