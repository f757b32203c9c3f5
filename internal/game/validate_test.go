package game

import (
	"errors"
	"testing"
)

func TestIsValid(t *testing.T) {
	b := mustBoard(t, "X..", ".O.", "...")

	tests := []struct {
		name    string
		pos     Position
		want    bool
		wantErr error
	}{
		{name: "Empty cell", pos: Pos(0, 1), want: true},
		{name: "Occupied by X", pos: Pos(0, 0), wantErr: ErrIllegalMove},
		{name: "Occupied by O", pos: Pos(1, 1), wantErr: ErrIllegalMove},
		{name: "Row below range", pos: Pos(-1, 0), wantErr: ErrOutOfRange},
		{name: "Column above range", pos: Pos(2, 3), wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(b, tt.pos); got != tt.want {
				t.Errorf("IsValid(%v) = %v, want %v", tt.pos, got, tt.want)
			}
			err := Check(b, tt.pos)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Check(%v) = %v, want nil", tt.pos, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Check(%v) = %v, want %v", tt.pos, err, tt.wantErr)
			}
		})
	}
}
