// Package board implements the fixed 15x10 Battleship grid: ship placement,
// shot resolution and the reduced view a player keeps of the opponent.
package board

import (
	"fmt"
	"strings"
)

// Board dimensions. x runs over columns a..o, y over rows 1..10.
const (
	Width  = 15
	Height = 10
)

// Kind identifies a ship class. NoKind marks a water cell.
type Kind int

const (
	NoKind Kind = iota
	Carrier
	Battleship
	Destroyer
	SuperPatrol
	Patrol
)

var kindTokens = map[Kind]string{
	Carrier:     "CARRIER",
	Battleship:  "BATTLESHIP",
	Destroyer:   "DESTROYER",
	SuperPatrol: "SUPER_PATROL",
	Patrol:      "PATROL",
}

func (k Kind) String() string {
	if t, ok := kindTokens[k]; ok {
		return t
	}
	return "WATER"
}

// Role is the longitudinal segment of a ship occupying a cell.
type Role int

const (
	Single Role = iota
	Front
	FrontMid
	Mid
	BackMid
	Back
)

var roleTokens = map[Role]string{
	Front:    "FRONT",
	FrontMid: "FRONT_MID",
	Mid:      "MID",
	BackMid:  "BACK_MID",
	Back:     "BACK",
}

func (r Role) String() string {
	if t, ok := roleTokens[r]; ok {
		return t
	}
	return "SINGLE"
}

// Cell is one square of a Board. A water cell has Kind == NoKind.
type Cell struct {
	Kind Kind
	Role Role
	Hit  bool
}

// IsShip reports whether a ship segment occupies the cell.
func (c Cell) IsShip() bool {
	return c.Kind != NoKind
}

// IsWater reports whether the cell is untouched water.
func (c Cell) IsWater() bool {
	return c.Kind == NoKind && !c.Hit
}

// Token returns the wire token for the cell, e.g. "BATTLESHIP_FRONT_MID_HIT".
func (c Cell) Token() string {
	var s string
	switch {
	case c.Kind == NoKind:
		s = "WATER"
	case c.Role == Single:
		s = c.Kind.String()
	default:
		s = c.Kind.String() + "_" + c.Role.String()
	}
	if c.Hit {
		s += "_HIT"
	}
	return s
}

// ParseCell is the inverse of Cell.Token.
func ParseCell(token string) (Cell, error) {
	var c Cell
	if strings.HasSuffix(token, "_HIT") {
		c.Hit = true
		token = strings.TrimSuffix(token, "_HIT")
	}
	if token == "WATER" {
		return c, nil
	}
	// Longest kind prefix first so SUPER_PATROL is not read as PATROL.
	for _, k := range []Kind{SuperPatrol, Carrier, Battleship, Destroyer, Patrol} {
		name := k.String()
		if token == name {
			if k.Size() != 1 {
				return Cell{}, fmt.Errorf("cell token %q: %s needs a segment role", token, name)
			}
			c.Kind, c.Role = k, Single
			return c, nil
		}
		if !strings.HasPrefix(token, name+"_") {
			continue
		}
		rest := strings.TrimPrefix(token, name+"_")
		for _, r := range roleTable[k.Size()] {
			if r.String() == rest {
				c.Kind, c.Role = k, r
				return c, nil
			}
		}
		return Cell{}, fmt.Errorf("cell token %q: no segment %q on a %s", token, rest, name)
	}
	return Cell{}, fmt.Errorf("unknown cell token %q", token)
}
