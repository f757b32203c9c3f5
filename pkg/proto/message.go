package proto

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
)

// SnapshotMessage is the spectator view of one match snapshot.
type SnapshotMessage struct {
	MatchID  string     `json:"matchId" validate:"required"`
	Board    [][]string `json:"board" validate:"len=3,dive,len=3,dive,omitempty,oneof=X O"`
	Status   string     `json:"status" validate:"required,oneof=running draw win"`
	Next     string     `json:"next,omitempty" validate:"omitempty,oneof=X O"`
	Winner   string     `json:"winner,omitempty" validate:"omitempty,oneof=X O"`
	Line     [][]int    `json:"line,omitempty" validate:"omitempty,len=3,dive,len=2,dive,min=0,max=2"`
	LastMove []int      `json:"lastMove,omitempty" validate:"omitempty,len=2,dive,min=0,max=2"`
	Notice   string     `json:"notice,omitempty"`
	PlayerX  string     `json:"playerX"`
	PlayerO  string     `json:"playerO"`
}

// Reasons a spectator connection is closed by the server.
const (
	ErrorShutdown     = "shutdown"
	ErrorSlowConsumer = "slow_consumer"
)

// ErrorMessage is sent to a spectator before the connection is dropped.
type ErrorMessage struct {
	Code   string `json:"code" validate:"required,oneof=shutdown slow_consumer"`
	Reason string `json:"reason,omitempty"`
}

// NewSnapshotMessage converts a match snapshot.
func NewSnapshotMessage(snap match.Snapshot) SnapshotMessage {
	msg := SnapshotMessage{
		MatchID: snap.MatchID,
		Board:   snap.Board.Marks(),
		Status:  snap.Status.Outcome.String(),
		Next:    snap.Next.String(),
		Notice:  snap.Notice,
		PlayerX: snap.PlayerX,
		PlayerO: snap.PlayerO,
	}
	if snap.Status.Outcome == game.Win {
		msg.Winner = snap.Status.Winner.String()
		for _, pos := range snap.Status.Line {
			msg.Line = append(msg.Line, []int{pos.Row, pos.Col})
		}
	}
	if snap.LastMove != nil {
		msg.LastMove = []int{snap.LastMove.Row, snap.LastMove.Col}
	}
	return msg
}
