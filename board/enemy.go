package board

// Mark is what a player knows about one cell of the opponent's board.
type Mark int

const (
	Unknown Mark = iota
	Miss
	ShipHit
)

func (m Mark) String() string {
	switch m {
	case Miss:
		return "WATER_HIT"
	case ShipHit:
		return "SHIP_HIT"
	}
	return "WATER"
}

// Marks is a value copy of an EnemyBoard, indexed as Marks[y][x].
type Marks [Height][Width]Mark

// EnemyBoard records shots fired at the opponent and their outcomes.
// It never knows ship identity or boundaries.
type EnemyBoard struct {
	marks Marks
	score int
}

// NewEnemyBoard returns a board with no shots recorded.
func NewEnemyBoard() *EnemyBoard {
	return &EnemyBoard{}
}

// IsValidMove reports whether (x, y) is on the board and not fired at yet.
func (e *EnemyBoard) IsValidMove(x, y int) bool {
	return InBounds(x, y) && e.marks[y][x] == Unknown
}

// MakeMove records the outcome of a shot at (x, y).
func (e *EnemyBoard) MakeMove(x, y int, isHit bool) {
	if !InBounds(x, y) {
		return
	}
	if isHit {
		e.marks[y][x] = ShipHit
	} else {
		e.marks[y][x] = Miss
	}
}

// At returns the mark at (x, y).
func (e *EnemyBoard) At(x, y int) Mark {
	if !InBounds(x, y) {
		return Unknown
	}
	return e.marks[y][x]
}

// Marks returns a copy of every mark.
func (e *EnemyBoard) Marks() Marks {
	return e.marks
}

// AddScore credits one point for a hit and one more for a sink.
func (e *EnemyBoard) AddScore(isHit, isSunk bool) {
	e.score += points(isHit, isSunk)
}

// Score returns the accumulated score.
func (e *EnemyBoard) Score() int {
	return e.score
}

// Shots returns how many shots were recorded and how many of them hit.
func (e *EnemyBoard) Shots() (fired, hits int) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			switch e.marks[y][x] {
			case Miss:
				fired++
			case ShipHit:
				fired++
				hits++
			}
		}
	}
	return fired, hits
}
