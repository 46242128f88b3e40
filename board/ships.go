package board

import (
	"errors"
	"fmt"
	"math/rand"
)

// ShipClass is the immutable definition of a ship kind.
type ShipClass struct {
	Kind  Kind
	Size  int
	Count int
}

// Fleet lists the classic fleet in placement order, largest first.
var Fleet = []ShipClass{
	{Carrier, 5, 2},
	{Battleship, 4, 3},
	{Destroyer, 3, 5},
	{SuperPatrol, 2, 8},
	{Patrol, 1, 10},
}

// FleetCells is the number of ship segments on a fully generated board.
const FleetCells = 5*2 + 4*3 + 3*5 + 2*8 + 1*10

// roleTable maps a ship size to the roles of its cells, front to back.
var roleTable = map[int][]Role{
	1: {Single},
	2: {Front, Back},
	3: {Front, Mid, Back},
	4: {Front, FrontMid, BackMid, Back},
	5: {Front, FrontMid, Mid, BackMid, Back},
}

// maxPlacementTries bounds the random search for a single ship.
const maxPlacementTries = 10000

// ErrPlacementExhausted is returned when no free row span was found in time.
var ErrPlacementExhausted = errors.New("no room left to place ship")

// Size returns the length of the ship kind, or 0 for NoKind.
func (k Kind) Size() int {
	for _, c := range Fleet {
		if c.Kind == k {
			return c.Size
		}
	}
	return 0
}

// Count returns how many ships of the kind make up a fleet.
func (k Kind) Count() int {
	for _, c := range Fleet {
		if c.Kind == k {
			return c.Count
		}
	}
	return 0
}

// Pos is a board coordinate.
type Pos struct {
	X int
	Y int
}

// PlacedShip is a ship instance laid out horizontally, left to right.
type PlacedShip struct {
	Kind  Kind
	Cells []Pos
}

// Fits reports whether a ship of the given size can start at (x, y):
// the span must end inside the board and cover water only.
func (b *Board) Fits(x, y, size int) bool {
	if x < 0 || y < 0 || y >= Height || size <= 0 {
		return false
	}
	if x+size-1 >= Width {
		return false
	}
	for i := x; i < x+size; i++ {
		if !b.cells[y][i].IsWater() {
			return false
		}
	}
	return true
}

// Place stamps a ship of kind k with its front at (x, y).
// Callers check Fits first; an out of range span panics.
func (b *Board) Place(k Kind, x, y int) PlacedShip {
	size := k.Size()
	if size == 0 || x < 0 || y < 0 || y >= Height || x+size > Width {
		panic(fmt.Sprintf("board: cannot place %s at %d,%d", k, x, y))
	}
	ship := PlacedShip{Kind: k, Cells: make([]Pos, 0, size)}
	for i, role := range roleTable[size] {
		b.cells[y][x+i] = Cell{Kind: k, Role: role}
		ship.Cells = append(ship.Cells, Pos{X: x + i, Y: y})
	}
	b.ships = append(b.ships, ship)
	return ship
}

// FindPlaceOnBoard places every ship of kind k by drawing random starting
// cells until one fits.
func (b *Board) FindPlaceOnBoard(k Kind, rng *rand.Rand) error {
	size := k.Size()
	for n := 0; n < k.Count(); n++ {
		placed := false
		for tries := 0; tries < maxPlacementTries; tries++ {
			x, y := rng.Intn(Width), rng.Intn(Height)
			if b.Fits(x, y, size) {
				b.Place(k, x, y)
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("placing %s %d of %d: %w", k, n+1, k.Count(), ErrPlacementExhausted)
		}
	}
	return nil
}

// span returns the first and last column of the ship covering (x, y).
func span(c Cell, x int) (int, int) {
	size := c.Kind.Size()
	for i, r := range roleTable[size] {
		if r == c.Role {
			x1 := x - i
			return x1, x1 + size - 1
		}
	}
	return x, x
}
