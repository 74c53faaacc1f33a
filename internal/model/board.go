package model

// Mark is one of the two symbols assigned per participant for a match
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// BoardSize is the number of cells on the fixed 3x3 board
const BoardSize = 9

// Board is the ordered sequence of 9 cells, row-major from top-left
type Board [BoardSize]Mark

// NewBoard returns an empty board
func NewBoard() Board {
	return Board{}
}

// IsValidPosition reports whether the position is within 0..8
func (b Board) IsValidPosition(pos int) bool {
	return pos >= 0 && pos < BoardSize
}

// IsEmpty reports whether the cell at pos is unoccupied
func (b Board) IsEmpty(pos int) bool {
	return b.IsValidPosition(pos) && b[pos] == MarkEmpty
}

// IsFull reports whether no empty cell remains
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == MarkEmpty {
			return false
		}
	}
	return true
}

// FilledCount returns the number of non-empty cells
func (b Board) FilledCount() int {
	n := 0
	for _, cell := range b {
		if cell != MarkEmpty {
			n++
		}
	}
	return n
}

// Strings returns the board as a 9-element string slice for wire payloads
func (b Board) Strings() []string {
	out := make([]string, BoardSize)
	for i, cell := range b {
		out[i] = string(cell)
	}
	return out
}

// BoardFromStrings rebuilds a board from a wire representation.
// Slices shorter than 9 cells leave the remaining cells empty.
func BoardFromStrings(cells []string) Board {
	var b Board
	for i := 0; i < len(cells) && i < BoardSize; i++ {
		b[i] = Mark(cells[i])
	}
	return b
}
