// Package hexgrid provides the hexagonal board: grid construction with
// per-cell hint letters, offset-coordinate neighbor lookup, and the
// edge-to-edge connectivity check used to detect a win.
package hexgrid

import (
	"fmt"
	"math/rand/v2"
)

// Team identifies a side of the match. TeamNone marks an unowned cell or
// an unassigned player.
type Team uint8

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return ""
	}
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	parsed, ok := ParseTeam(string(b))
	if !ok {
		return fmt.Errorf("unknown team %q", b)
	}
	*t = parsed
	return nil
}

// ParseTeam maps a wire value to a Team. The empty string is TeamNone.
func ParseTeam(s string) (Team, bool) {
	switch s {
	case "red":
		return TeamRed, true
	case "blue":
		return TeamBlue, true
	case "":
		return TeamNone, true
	default:
		return TeamNone, false
	}
}

// Cell is one hexagonal board space. Its id, position, and hint letters
// are fixed at grid build time; only Owner changes, and only once.
type Cell struct {
	ID       int    `json:"id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Owner    Team   `json:"owner,omitempty"`
	LetterAr string `json:"letterAr"`
	LetterEn string `json:"letterEn"`
}

// Grid is an n×n board in offset coordinates, cells in row-major order
// so that a cell's id doubles as its index.
type Grid struct {
	Size  int    `json:"size"`
	Cells []Cell `json:"cells"`
}

// Board size classes and the grid dimension each resolves to.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

var arabicLetters = []string{
	"ا", "ب", "ت", "ث", "ج", "ح", "خ", "د", "ذ", "ر", "ز", "س", "ش", "ص",
	"ض", "ط", "ظ", "ع", "غ", "ف", "ق", "ك", "ل", "م", "ن", "ه", "و", "ي",
}

const englishLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Dimension resolves a board size class to a grid dimension. Unrecognized
// classes fall back to the medium board.
func Dimension(sizeClass string) int {
	switch sizeClass {
	case SizeSmall:
		return 7
	case SizeLarge:
		return 11
	default:
		return 9
	}
}

// Build constructs a fresh unowned grid for the given size class. Each
// cell draws its Arabic and English hint letters independently at random;
// duplicates across cells are expected.
func Build(sizeClass string) *Grid {
	n := Dimension(sizeClass)

	cells := make([]Cell, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells = append(cells, Cell{
				ID:       row*n + col,
				Row:      row,
				Col:      col,
				LetterAr: arabicLetters[rand.IntN(len(arabicLetters))],
				LetterEn: string(englishLetters[rand.IntN(len(englishLetters))]),
			})
		}
	}
	return &Grid{Size: n, Cells: cells}
}

// Cell returns the cell with the given id, or nil if the id is out of
// range for this grid.
func (g *Grid) Cell(id int) *Cell {
	if id < 0 || id >= len(g.Cells) {
		return nil
	}
	return &g.Cells[id]
}

// Neighbors returns the in-range neighbors of (row, col) in offset
// coordinates. The two diagonal neighbors sit one row above for even
// columns and one row below for odd columns, so edge and corner cells
// legitimately have fewer than six neighbors.
func Neighbors(row, col, size int) [][2]int {
	diag := row - 1
	if col%2 != 0 {
		diag = row + 1
	}

	candidates := [6][2]int{
		{row - 1, col},
		{row + 1, col},
		{row, col - 1},
		{row, col + 1},
		{diag, col - 1},
		{diag, col + 1},
	}

	neighbors := make([][2]int, 0, 6)
	for _, rc := range candidates {
		if rc[0] >= 0 && rc[1] >= 0 && rc[0] < size && rc[1] < size {
			neighbors = append(neighbors, rc)
		}
	}
	return neighbors
}
