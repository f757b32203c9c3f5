package ui

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrClosed is returned when the screen is finalized while waiting for input.
var ErrClosed = errors.New("terminal closed")

const (
	boardLeft = 2
	boardTop  = 3
	cellWidth = 3
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleCursor  = tcell.StyleDefault.Reverse(true)
	styleTaken   = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	styleLast    = tcell.StyleDefault.Bold(true)
	styleWin     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHint    = tcell.StyleDefault.Dim(true)
)

// Terminal draws matches and menus on a tcell screen and reads keys from it.
// It implements match.Renderer.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	snap    match.Snapshot
	hasSnap bool
	cursor  *game.Position
}

// Open initializes the terminal the process is attached to.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return New(screen), nil
}

// New wraps an initialized screen and starts forwarding its events.
func New(screen tcell.Screen) *Terminal {
	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event),
		quit:   make(chan struct{}),
	}
	screen.SetStyle(styleDefault)
	screen.HideCursor()
	go screen.ChannelEvents(t.events, t.quit)
	return t
}

// Close stops event delivery and restores the terminal.
func (t *Terminal) Close() {
	t.once.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
}

// Render implements match.Renderer.
func (t *Terminal) Render(_ context.Context, snap match.Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap = snap
	t.hasSnap = true
	t.drawMatch()
	return nil
}

func (t *Terminal) setCursor(pos *game.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor = pos
	if t.hasSnap {
		t.drawMatch()
	}
}

// drawMatch paints the last snapshot; callers hold t.mu.
func (t *Terminal) drawMatch() {
	s := t.screen
	snap := t.snap
	s.Clear()

	drawText(s, 0, 0, styleTitle, "Tic-Tac-Toe")
	drawText(s, 0, 1, styleDefault, fmt.Sprintf("X: %s    O: %s", snap.PlayerX, snap.PlayerO))

	display := displayBoard(snap.Board, t.cursor, snap.Next)
	winning := make(map[game.Position]bool)
	if snap.Status.Outcome == game.Win {
		for _, pos := range snap.Status.Line {
			winning[pos] = true
		}
	}

	for r := range game.Size {
		y := boardTop + r*2
		for c := range game.Size {
			pos := game.Pos(r, c)
			x := boardLeft + c*(cellWidth+1)

			style := styleDefault
			switch {
			case winning[pos]:
				style = styleWin
			case t.cursor != nil && *t.cursor == pos && snap.Board[r][c] != game.Empty:
				style = styleTaken
			case t.cursor != nil && *t.cursor == pos:
				style = styleCursor
			case snap.LastMove != nil && *snap.LastMove == pos:
				style = styleLast
			}
			drawText(s, x, y, style, " "+display[r][c]+" ")
			if c < game.BorderMax {
				drawText(s, x+cellWidth, y, styleDefault, "|")
			}
		}
		if r < game.BorderMax {
			drawText(s, boardLeft, y+1, styleDefault, "---+---+---")
		}
	}

	statusY := boardTop + game.Size*2
	drawText(s, 0, statusY, styleTitle, statusLine(snap))
	if snap.Notice != "" {
		drawText(s, 0, statusY+1, styleNotice, snap.Notice)
	}
	drawText(s, 0, statusY+3, styleHint, controlsLine)
	s.Show()
}

// displayBoard returns the glyph for every cell. The cursor cell shows the
// mark that would be placed, or a taken marker if the cell is occupied. The
// live board is never modified.
func displayBoard(b game.Board, cursor *game.Position, next game.Player) [game.Size][game.Size]string {
	var out [game.Size][game.Size]string
	for r := range game.Size {
		for c := range game.Size {
			out[r][c] = glyph(b[r][c])
		}
	}
	if cursor != nil && cursor.InRange() && next.Valid() {
		if b[cursor.Row][cursor.Col] == game.Empty {
			out[cursor.Row][cursor.Col] = next.String()
		} else {
			out[cursor.Row][cursor.Col] = "#"
		}
	}
	return out
}

func glyph(c game.Cell) string {
	if c == game.Empty {
		return " "
	}
	return c.Mark()
}

func statusLine(snap match.Snapshot) string {
	switch snap.Status.Outcome {
	case game.Win:
		name := snap.PlayerX
		if snap.Status.Winner == game.PlayerO {
			name = snap.PlayerO
		}
		return fmt.Sprintf("%s (%s) wins!", name, snap.Status.Winner)
	case game.Draw:
		return "It's a draw."
	default:
		name := snap.PlayerX
		if snap.Next == game.PlayerO {
			name = snap.PlayerO
		}
		return fmt.Sprintf("%s (%s) to move", name, snap.Next)
	}
}

// nextKey blocks until a key is pressed. Resize events repaint the screen.
func (t *Terminal) nextKey(ctx context.Context) (*tcell.EventKey, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-t.events:
			if !ok {
				return nil, ErrClosed
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				return ev, nil
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
