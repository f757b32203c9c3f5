package game

// Outcome classifies a board.
type Outcome uint8

const (
	Running Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Draw:
		return "draw"
	case Win:
		return "win"
	default:
		return "unknown"
	}
}

// Status is derived from a board by Evaluate; it is never stored separately.
// Winner and Line are only meaningful when Outcome is Win.
type Status struct {
	Outcome Outcome
	Winner  Player
	Line    [Size]Position
}

// Over reports whether the game has ended.
func (s Status) Over() bool {
	return s.Outcome != Running
}

func (s Status) String() string {
	if s.Outcome == Win {
		return s.Winner.String() + " wins"
	}
	return s.Outcome.String()
}

// Evaluate scans the eight lines in order and returns Win for the first line
// holding three X or three O cells. A board with several complete lines
// cannot arise from alternating play; if one is built anyway the first line in
// scan order is reported. Without a winning line the board is Running while
// any cell is Empty and a Draw once it is full.
func Evaluate(b Board) Status {
	for _, ps := range Lines {
		l := b.line(ps)
		if l[0] != l[1] || l[1] != l[2] {
			continue
		}
		if winner, ok := l[0].Player(); ok {
			return Status{Outcome: Win, Winner: winner, Line: ps}
		}
	}

	for r := range Size {
		for c := range Size {
			if b[r][c] == Empty {
				return Status{Outcome: Running}
			}
		}
	}
	return Status{Outcome: Draw}
}
