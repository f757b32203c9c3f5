package bot

import "fmt"

// Difficulty selects which layers of the policy are reachable.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers from weakest to strongest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q: %w", s, ErrPolicyPrecondition)
	}
}

func (d Difficulty) String() string {
	return string(d)
}
