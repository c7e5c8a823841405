package game

import (
	"context"
	"errors"

	"github.com/hexquiz/hexquiz/internal/hexgrid"
)

var ErrNotFound = errors.New("not found")

// QuestionFilters narrows the unused-question lookup. An empty category
// set matches all categories; difficulty "" or "all" matches all
// difficulties.
type QuestionFilters struct {
	Categories []string
	Difficulty string
	ExcludeIDs []int64
}

// Outcome records how a used question was adjudicated.
type Outcome struct {
	Correct bool
	Team    hexgrid.Team
	CellID  int
}

// QuestionStore is the persistent question bank boundary. Its schema is
// not part of this package's contract.
type QuestionStore interface {
	FindUnused(ctx context.Context, f QuestionFilters) ([]Question, error)
	MarkUsed(ctx context.Context, roomCode string, questionID int64, outcome Outcome) error
}

// SessionStore is the durable room record boundary. AllocateCode persists
// a new session under a unique human-enterable code; the coordinator
// never generates or validates code uniqueness itself.
type SessionStore interface {
	AllocateCode(ctx context.Context, settings Settings) (string, error)
	UpdateStatus(ctx context.Context, code string, status Status, winner hexgrid.Team) error
}

// HistorySink is the append-only audit log boundary.
type HistorySink interface {
	Append(ctx context.Context, roomCode string, e HistoryEntry) error
}

// Stores bundles the collaborator contracts a room writes to.
type Stores struct {
	Questions QuestionStore
	Sessions  SessionStore
	History   HistorySink
}
