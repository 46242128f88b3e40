package board

import "testing"

func TestCellToken(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Cell{}, "WATER"},
		{Cell{Hit: true}, "WATER_HIT"},
		{Cell{Kind: Carrier, Role: FrontMid}, "CARRIER_FRONT_MID"},
		{Cell{Kind: Battleship, Role: BackMid, Hit: true}, "BATTLESHIP_BACK_MID_HIT"},
		{Cell{Kind: Destroyer, Role: Mid}, "DESTROYER_MID"},
		{Cell{Kind: SuperPatrol, Role: Back}, "SUPER_PATROL_BACK"},
		{Cell{Kind: Patrol}, "PATROL"},
		{Cell{Kind: Patrol, Hit: true}, "PATROL_HIT"},
	}
	for _, tt := range tests {
		if got := tt.cell.Token(); got != tt.want {
			t.Errorf("%+v.Token() = %q, want %q", tt.cell, got, tt.want)
		}
		back, err := ParseCell(tt.want)
		if err != nil {
			t.Errorf("ParseCell(%q): %v", tt.want, err)
			continue
		}
		if back != tt.cell {
			t.Errorf("ParseCell(%q) = %+v, want %+v", tt.want, back, tt.cell)
		}
	}
}

func TestParseCellErrors(t *testing.T) {
	for _, tok := range []string{"", "SHIP", "CARRIER", "DESTROYER_FRONT_MID", "PATROL_FRONT", "water"} {
		if _, err := ParseCell(tok); err == nil {
			t.Errorf("ParseCell(%q) succeeded, want error", tok)
		}
	}
}

func TestEnemyBoardValidity(t *testing.T) {
	e := NewEnemyBoard()
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{14, 9, true},
		{15, 0, false},
		{0, 10, false},
		{-1, 3, false},
	}
	for _, tt := range tests {
		if got := e.IsValidMove(tt.x, tt.y); got != tt.want {
			t.Errorf("IsValidMove(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	e.MakeMove(3, 4, true)
	e.MakeMove(5, 6, false)
	if e.IsValidMove(3, 4) || e.IsValidMove(5, 6) {
		t.Error("cells already fired at should not be valid")
	}
	if e.At(3, 4) != ShipHit || e.At(5, 6) != Miss {
		t.Errorf("marks = %v, %v", e.At(3, 4), e.At(5, 6))
	}
	fired, hits := e.Shots()
	if fired != 2 || hits != 1 {
		t.Errorf("Shots() = %d, %d, want 2, 1", fired, hits)
	}
}
