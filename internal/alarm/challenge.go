package alarm

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Problem is a single arithmetic question presented to dismiss an alarm.
type Problem struct {
	Question string // "<a> <op> <b> = ?"
	Answer   int
}

// NewProblem generates a random arithmetic problem. Operand ranges keep
// the mental arithmetic bounded: sums up to 100, differences always
// non-negative, products up to 13*13.
func NewProblem(r *rand.Rand) Problem {
	var a, b, answer int
	var op string

	switch r.Intn(3) {
	case 0:
		op = "+"
		a = r.Intn(50) + 1
		b = r.Intn(50) + 1
		answer = a + b
	case 1:
		op = "-"
		a = r.Intn(50) + 25
		b = r.Intn(25) + 1
		answer = a - b
	default:
		op = "*"
		a = r.Intn(12) + 2
		b = r.Intn(12) + 2
		answer = a * b
	}

	return Problem{
		Question: fmt.Sprintf("%d %s %d = ?", a, op, b),
		Answer:   answer,
	}
}

// maxAttempts is the number of consecutive misses allowed on one problem
// before a fresh one is generated.
const maxAttempts = 3

// Challenge is the dismissal state machine for math-gated alarms. It holds
// the current problem and the consecutive wrong-attempt count, regenerating
// the problem after maxAttempts misses so the user is never stuck.
// There is no timeout: the challenge stays open until solved.
type Challenge struct {
	rand     *rand.Rand
	problem  Problem
	attempts int
	solved   bool
}

// NewChallenge starts a challenge presentation with an initial problem.
func NewChallenge(r *rand.Rand) *Challenge {
	return &Challenge{
		rand:    r,
		problem: NewProblem(r),
	}
}

// Problem returns the currently presented problem.
func (c *Challenge) Problem() Problem { return c.problem }

// Attempts returns the consecutive wrong attempts on the current problem.
func (c *Challenge) Attempts() int { return c.attempts }

// Solved reports whether the challenge has been answered correctly.
func (c *Challenge) Solved() bool { return c.solved }

// Submit checks an answer. A value that does not parse as an integer counts
// as a wrong attempt, the same as a wrong number. It returns true once the
// challenge is solved; callers should treat a false return as a miss and
// clear the input field.
func (c *Challenge) Submit(input string) bool {
	if c.solved {
		return true
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err == nil && n == c.problem.Answer {
		c.solved = true
		return true
	}

	c.attempts++
	if c.attempts >= maxAttempts {
		c.problem = NewProblem(c.rand)
		c.attempts = 0
	}
	return false
}
