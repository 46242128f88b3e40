package engine

import (
	"testing"

	"battleship-tui/game"
	"battleship-tui/types"
)

func TestOutcomeText(t *testing.T) {
	tests := []struct {
		result types.Result
		reason game.Reason
		want   string
	}{
		{types.Win, game.FleetDestroyed, "You win! Enemy fleet destroyed."},
		{types.Loss, game.FleetDestroyed, "You lose. Your fleet was destroyed."},
		{types.Tie, game.TimeUp, "It's a tie. Time is up."},
		{types.Win, game.TimeUp, "You win! Time is up."},
		{types.Win, game.Forfeit, "You win! Your opponent left."},
		{types.NoResult, game.TimeUp, "Game ended"},
	}
	for _, tt := range tests {
		if got := OutcomeText(tt.result, tt.reason); got != tt.want {
			t.Errorf("OutcomeText(%v, %v) = %q, want %q", tt.result, tt.reason, got, tt.want)
		}
	}
}

func TestShotMessages(t *testing.T) {
	tests := []struct {
		ev       MoveResult
		mine     string
		incoming string
	}{
		{MoveResult{X: 0, Y: 1}, "Miss.", "Enemy missed at a,2."},
		{MoveResult{X: 2, Y: 0, Hit: true}, "Hit! Shoot again!", "Enemy hit you at c,1."},
		{MoveResult{X: 2, Y: 0, Hit: true, Sunk: true}, "You sunk enemies ship! Shoot again!", "Enemy sunk your ship at c,1."},
		{MoveResult{Late: true}, game.MsgMissedMove, "Enemy missed their move."},
	}
	for _, tt := range tests {
		if got := ShotMessage(tt.ev); got != tt.mine {
			t.Errorf("ShotMessage(%+v) = %q, want %q", tt.ev, got, tt.mine)
		}
		if got := IncomingMessage(tt.ev); got != tt.incoming {
			t.Errorf("IncomingMessage(%+v) = %q, want %q", tt.ev, got, tt.incoming)
		}
	}
}
