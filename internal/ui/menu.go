package ui

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var welcomeLines = []string{
	"==============================",
	"      Welcome to Tic-Tac-Toe",
	"==============================",
	"",
	"Controls:",
	"  Move with arrows (←↑↓→)",
	"  Enter to select",
	"  'q' to quit",
	"",
	"Instructions:",
	"  Use arrows to navigate the board.",
	"  Press Enter to place your marker.",
	"  Try to get three in a row horizontally, vertically, or diagonally.",
	"  First to three wins!",
	"",
	"Press any key to start.",
}

// Welcome shows the banner and waits for a key.
func (t *Terminal) Welcome(ctx context.Context) error {
	t.mu.Lock()
	t.screen.Clear()
	for i, line := range welcomeLines {
		style := styleDefault
		if i == 1 {
			style = styleTitle
		}
		drawText(t.screen, 0, i, style, line)
	}
	t.screen.Show()
	t.mu.Unlock()

	ev, err := t.nextKey(ctx)
	if err != nil {
		return err
	}
	if isQuit(ev) {
		return player.ErrQuit
	}
	return nil
}

// Select shows title and a numbered list of options and returns the index
// the user confirms with Enter. Up and down move the selection; q, Esc and
// Ctrl-C return player.ErrQuit.
func (t *Terminal) Select(ctx context.Context, title string, options []string, selected int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("select %q: no options", title)
	}
	selected = min(max(selected, 0), len(options)-1)

	for {
		t.drawMenu(title, options, selected)

		ev, err := t.nextKey(ctx)
		if err != nil {
			return 0, err
		}
		if isQuit(ev) {
			return 0, player.ErrQuit
		}
		switch ev.Key() {
		case tcell.KeyUp:
			selected = max(selected-1, 0)
		case tcell.KeyDown:
			selected = min(selected+1, len(options)-1)
		case tcell.KeyEnter:
			return selected, nil
		}
	}
}

func (t *Terminal) drawMenu(title string, options []string, selected int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	drawText(t.screen, 0, 0, styleTitle, title+":")
	for i, option := range options {
		prefix, style := "  ", styleDefault
		if i == selected {
			prefix, style = "> ", styleCursor
		}
		drawText(t.screen, 0, i+1, style, fmt.Sprintf("%s[%d] %s", prefix, i+1, option))
	}
	drawText(t.screen, 0, len(options)+2, styleHint, "↑↓ choose   Enter select   q quit")
	t.screen.Show()
}

// GameOver keeps the final board on screen and asks whether to play again.
// It returns true for y or Enter and false for n or q.
func (t *Terminal) GameOver(ctx context.Context) (bool, error) {
	t.mu.Lock()
	_, h := t.screen.Size()
	y := boardTop + 11
	if h > 0 && y >= h {
		y = h - 1
	}
	drawText(t.screen, 0, y, styleTitle, "Play again? (y/n)")
	t.screen.Show()
	t.mu.Unlock()

	for {
		ev, err := t.nextKey(ctx)
		if err != nil {
			return false, err
		}
		switch {
		case ev.Key() == tcell.KeyEnter:
			return true, nil
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
			return true, nil
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
			return false, nil
		case isQuit(ev):
			return false, nil
		}
	}
}

// Message clears the screen and shows lines until a key is pressed.
func (t *Terminal) Message(ctx context.Context, lines ...string) error {
	t.mu.Lock()
	t.screen.Clear()
	for i, line := range lines {
		drawText(t.screen, 0, i, styleDefault, line)
	}
	drawText(t.screen, 0, len(lines)+1, styleHint, "Press any key to continue.")
	t.screen.Show()
	t.mu.Unlock()

	_, err := t.nextKey(ctx)
	return err
}
