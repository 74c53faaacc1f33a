package board

import "github.com/stakeplay/tictactoe-go/internal/model"

// Outcome classifies the result of evaluating a board
type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeWin      Outcome = "win"
	OutcomeTie      Outcome = "tie"
)

// Evaluation is the result of checking a board for a terminal position
type Evaluation struct {
	Outcome Outcome
	Winner  model.Mark // set only for OutcomeWin
	Line    []int      // the winning triple, set only for OutcomeWin
}

// winLines are the 8 triples checked in fixed order:
// 3 rows, 3 columns, 2 diagonals
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Evaluate decides win/tie/continue for a board. The first triple whose
// three cells are equal and non-empty wins; a full board with no such
// triple is a tie. Pure and deterministic.
func Evaluate(b model.Board) Evaluation {
	for _, line := range winLines {
		a, mid, c := line[0], line[1], line[2]
		if b[a] != model.MarkEmpty && b[a] == b[mid] && b[a] == b[c] {
			return Evaluation{
				Outcome: OutcomeWin,
				Winner:  b[a],
				Line:    []int{a, mid, c},
			}
		}
	}

	if b.IsFull() {
		return Evaluation{Outcome: OutcomeTie}
	}

	return Evaluation{Outcome: OutcomeContinue}
}
