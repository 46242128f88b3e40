package protocol

import (
	"strconv"
	"strings"
)

// Encode renders m as a single line without the trailing newline.
func (m Message) Encode() string {
	fields := []string{string(m.Type)}
	switch m.Type {
	case Handshake:
		if m.Name != "" {
			fields = append(fields, m.Name)
		}
	case EnemyName, Setup:
		fields = append(fields, m.Name)
	case ClientBoard:
		fields = append(fields, m.Board...)
	case MoveMsg:
		fields = append(fields, strconv.Itoa(m.X), strconv.Itoa(m.Y))
	case Update:
		fields = append(fields,
			strconv.Itoa(m.X),
			strconv.Itoa(m.Y),
			strconv.FormatBool(m.Hit),
			strconv.FormatBool(m.Sunk),
			strconv.FormatBool(m.Late),
			m.Who,
			m.Next,
		)
	case GameOver:
		fields = append(fields, m.Name, strconv.FormatBool(m.WinType))
	}
	return strings.Join(fields, Separator)
}

// String is Encode, for logging.
func (m Message) String() string {
	if m.Type == ClientBoard {
		return string(ClientBoard) + Separator + "<" + strconv.Itoa(len(m.Board)) + " cells>"
	}
	return m.Encode()
}
