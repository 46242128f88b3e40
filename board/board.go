package board

import (
	"errors"
	"fmt"
	"math/rand"
)

// Grid is a value copy of a board's cells, indexed as Grid[y][x].
type Grid [Height][Width]Cell

// Board is one side's own fleet. It is owned by a single player and is not
// safe for concurrent use.
type Board struct {
	cells Grid
	score int
	ships []PlacedShip
}

// Shot is the authoritative outcome of firing at a Board.
type Shot struct {
	Hit          bool
	Sunk         bool
	AllDestroyed bool
}

// New returns an all-water board.
func New() *Board {
	return &Board{}
}

// maxBoardAttempts bounds how often Generate starts over after a
// placement search runs dry.
const maxBoardAttempts = 20

// Generate returns a board carrying the full fleet at random positions.
func Generate(rng *rand.Rand) (*Board, error) {
	var err error
	for attempt := 0; attempt < maxBoardAttempts; attempt++ {
		b := New()
		if err = b.placeFleet(rng); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("generate board: %w", err)
}

func (b *Board) placeFleet(rng *rand.Rand) error {
	for _, class := range Fleet {
		if err := b.FindPlaceOnBoard(class.Kind, rng); err != nil {
			return err
		}
	}
	return nil
}

// At returns the cell at (x, y). Out of range coordinates read as water.
func (b *Board) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Cell{}
	}
	return b.cells[y][x]
}

// Grid returns a copy of all cells.
func (b *Board) Grid() Grid {
	return b.cells
}

// Ships returns the placed ships in placement order.
func (b *Board) Ships() []PlacedShip {
	out := make([]PlacedShip, len(b.ships))
	copy(out, b.ships)
	return out
}

// MakeMove marks (x, y) as hit. Firing at a hit cell again changes nothing.
func (b *Board) MakeMove(x, y int) {
	if !InBounds(x, y) {
		return
	}
	b.cells[y][x].Hit = true
}

// SinglePlayerMakeMove fires at (x, y) and reports what happened.
// A repeat shot at the same cell is never a hit.
func (b *Board) SinglePlayerMakeMove(x, y int) Shot {
	c := b.At(x, y)
	isHit := c.IsShip() && !c.Hit
	b.MakeMove(x, y)

	var shot Shot
	shot.Hit = isHit
	if isHit {
		shot.Sunk = b.HasSunk(x, y)
	}
	shot.AllDestroyed = b.AllShipsDestroyed()
	return shot
}

// HasSunk reports whether every segment of the ship covering (x, y) is hit.
// Water never counts as sunk.
func (b *Board) HasSunk(x, y int) bool {
	c := b.At(x, y)
	if !c.IsShip() {
		return false
	}
	x1, x2 := span(c, x)
	for i := x1; i <= x2; i++ {
		if !b.At(i, y).Hit {
			return false
		}
	}
	return true
}

// AllShipsDestroyed reports whether no un-hit ship segment is left.
func (b *Board) AllShipsDestroyed() bool {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := b.cells[y][x]
			if c.IsShip() && !c.Hit {
				return false
			}
		}
	}
	return true
}

// AddScore credits one point for a hit and one more for a sink.
func (b *Board) AddScore(isHit, isSunk bool) {
	b.score += points(isHit, isSunk)
}

// Score returns the accumulated score.
func (b *Board) Score() int {
	return b.score
}

func points(isHit, isSunk bool) int {
	if !isHit {
		return 0
	}
	if isSunk {
		return 2
	}
	return 1
}

// ShipCells counts cells occupied by ship segments, hit or not.
func (b *Board) ShipCells() int {
	n := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if b.cells[y][x].IsShip() {
				n++
			}
		}
	}
	return n
}

// Encode returns the cell tokens row by row: y = 0..9, then x = 0..14.
func (b *Board) Encode() []string {
	tokens := make([]string, 0, Width*Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			tokens = append(tokens, b.cells[y][x].Token())
		}
	}
	return tokens
}

// ErrBadFleet is returned by Decode for boards that break the fleet rules.
var ErrBadFleet = errors.New("board does not hold the classic fleet")

// Decode rebuilds a board from tokens produced by Encode and checks that
// it holds exactly the classic fleet, with every ship laid out intact.
func Decode(tokens []string) (*Board, error) {
	if len(tokens) != Width*Height {
		return nil, fmt.Errorf("decode board: got %d cells, want %d", len(tokens), Width*Height)
	}
	b := New()
	for i, tok := range tokens {
		c, err := ParseCell(tok)
		if err != nil {
			return nil, fmt.Errorf("decode board: cell %d: %w", i, err)
		}
		b.cells[i/Width][i%Width] = c
	}
	if err := b.collectShips(); err != nil {
		return nil, err
	}
	return b, nil
}

// collectShips walks each row, rebuilding ships from their segment roles.
func (b *Board) collectShips() error {
	counts := map[Kind]int{}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; {
			c := b.cells[y][x]
			if !c.IsShip() {
				x++
				continue
			}
			roles := roleTable[c.Kind.Size()]
			if x+len(roles) > Width {
				return fmt.Errorf("%w: %s at %s runs off the board", ErrBadFleet, c.Kind, FormatCoord(x, y))
			}
			ship := PlacedShip{Kind: c.Kind}
			for i, r := range roles {
				seg := b.cells[y][x+i]
				if seg.Kind != c.Kind || seg.Role != r {
					return fmt.Errorf("%w: broken %s at %s", ErrBadFleet, c.Kind, FormatCoord(x, y))
				}
				ship.Cells = append(ship.Cells, Pos{X: x + i, Y: y})
			}
			b.ships = append(b.ships, ship)
			counts[c.Kind]++
			x += len(roles)
		}
	}
	for _, class := range Fleet {
		if counts[class.Kind] != class.Count {
			return fmt.Errorf("%w: %d %s, want %d", ErrBadFleet, counts[class.Kind], class.Kind, class.Count)
		}
	}
	return nil
}
