// Package protocol implements the multiplayer wire format: semicolon
// separated fields, one message per newline terminated line.
package protocol

// Type is the leading tag of a message.
type Type string

const (
	Handshake   Type = "HANDSHAKE"
	EnemyName   Type = "ENEMYNAME"
	NameExists  Type = "NAME_EXISTS"
	ClientBoard Type = "CLIENTBOARD"
	Setup       Type = "SETUP"
	MoveMsg     Type = "MOVE"
	Update      Type = "UPDATE"
	GameOver    Type = "GAMEOVER"
	Exit        Type = "EXIT"
)

// Separator splits the fields of a line.
const Separator = ";"

// Message is any protocol message. Only the fields used by Type are set.
type Message struct {
	Type Type

	// Name is the player name for HANDSHAKE, ENEMYNAME and SETUP, and the
	// winner for GAMEOVER. An empty HANDSHAKE name is the server's ack.
	Name string

	// Board holds the CLIENTBOARD cell tokens, row by row.
	Board []string

	// X and Y are the target of MOVE and UPDATE.
	X, Y int

	// UPDATE outcome and the players who moved and move next.
	Hit, Sunk, Late bool
	Who, Next       string

	// WinType is false on GAMEOVER when the opponent left the match.
	WinType bool
}

// HandshakeMsg introduces a client by name.
func HandshakeMsg(name string) Message {
	return Message{Type: Handshake, Name: name}
}

// HandshakeAck is the server's reply to an accepted HANDSHAKE.
func HandshakeAck() Message {
	return Message{Type: Handshake}
}

// EnemyNameMsg tells a client who it plays against.
func EnemyNameMsg(name string) Message {
	return Message{Type: EnemyName, Name: name}
}

// NameExistsMsg asks a client to pick another name.
func NameExistsMsg() Message {
	return Message{Type: NameExists}
}

// ClientBoardMsg carries a client's fleet.
func ClientBoardMsg(tokens []string) Message {
	return Message{Type: ClientBoard, Board: tokens}
}

// SetupMsg names the player who moves first.
func SetupMsg(first string) Message {
	return Message{Type: Setup, Name: first}
}

// MoveMsgAt fires at (x, y).
func MoveMsgAt(x, y int) Message {
	return Message{Type: MoveMsg, X: x, Y: y}
}

// UpdateMsg reports a resolved move to both clients.
func UpdateMsg(x, y int, hit, sunk, late bool, who, next string) Message {
	return Message{Type: Update, X: x, Y: y, Hit: hit, Sunk: sunk, Late: late, Who: who, Next: next}
}

// GameOverMsg ends the match. An empty winner is a tie.
func GameOverMsg(winner string, winType bool) Message {
	return Message{Type: GameOver, Name: winner, WinType: winType}
}

// ExitMsg tells the server the client is leaving.
func ExitMsg() Message {
	return Message{Type: Exit}
}
