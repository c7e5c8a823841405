package game

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hexquiz/hexquiz/internal/hexgrid"
)

// Room owns the full mutable state of one live session. Every transition
// takes the room mutex, so concurrent events against the same room
// serialize while different rooms run fully in parallel. Durable writes
// are issued after the in-memory transition commits and never hold the
// lock: a store failure is logged, not rolled back, so gameplay continues
// on the in-memory state.
type Room struct {
	code     string
	logger   *slog.Logger
	selector *Selector
	stores   Stores

	mu          sync.Mutex
	status      Status
	settings    Settings
	grid        *hexgrid.Grid
	players     map[string]Player
	current     *Question
	currentCell int // -1 while no question is active
	buzzedBy    string
	usedIDs     map[int64]struct{}
	log         []HistoryEntry
}

// NewRoom builds a room in the lobby state with a fresh grid. The code
// must already be persisted by the session store.
func NewRoom(code string, settings Settings, logger *slog.Logger, stores Stores) *Room {
	settings = settings.Normalize()
	return &Room{
		code:        code,
		logger:      logger.With("room", code),
		selector:    NewSelector(stores.Questions),
		stores:      stores,
		status:      StatusLobby,
		settings:    settings,
		grid:        hexgrid.Build(settings.BoardSize),
		players:     make(map[string]Player),
		currentCell: -1,
		usedIDs:     make(map[int64]struct{}),
	}
}

func (r *Room) Code() string { return r.code }

// Status returns the current lifecycle state.
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Snapshot returns a copy of the state a joining connection needs.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Join adds (or overwrites) the player entry for a connection. The caller
// receives the full room snapshot; everyone else learns about the new
// player. A rejoining identity keeps its team assignment.
func (r *Room) Join(id, nickname string, role Role) Result {
	r.mu.Lock()
	p := Player{ID: id, Nickname: nickname, Role: role}
	if prev, ok := r.players[id]; ok {
		p.Team = prev.Team
	}
	r.players[id] = p

	snapshot := r.snapshotLocked()
	joined := PlayerJoinedData{Player: p, Players: r.playersLocked()}
	r.mu.Unlock()

	return Result{
		Caller:    []Event{{Type: EventRoomJoined, Data: snapshot}},
		Broadcast: []Event{{Type: EventPlayerJoined, Data: joined}},
	}
}

// JoinTeam moves the connection onto the requested team, removing it from
// any other roster first. TeamNone unassigns. Idempotent.
func (r *Room) JoinTeam(id string, team hexgrid.Team) Result {
	return r.assignTeam(id, team)
}

// AssignTeam is the host-driven variant of JoinTeam targeting another
// connection.
func (r *Room) AssignTeam(targetID string, team hexgrid.Team) Result {
	return r.assignTeam(targetID, team)
}

func (r *Room) assignTeam(id string, team hexgrid.Team) Result {
	r.mu.Lock()
	p, ok := r.players[id]
	if !ok {
		r.mu.Unlock()
		return Result{}
	}
	p.Team = team
	r.players[id] = p
	rosters := r.rostersLocked()
	r.mu.Unlock()

	return Result{Broadcast: []Event{{Type: EventTeamsUpdated, Data: rosters}}}
}

// Start moves the room from lobby to playing and announces the grid. A
// room that is already playing or finished is left untouched.
func (r *Room) Start(ctx context.Context) Result {
	r.mu.Lock()
	if r.status != StatusLobby {
		r.mu.Unlock()
		return Result{}
	}
	r.status = StatusPlaying
	started := GameStartedData{Grid: r.gridCopyLocked(), Settings: r.settings}
	r.mu.Unlock()

	if err := r.stores.Sessions.UpdateStatus(ctx, r.code, StatusPlaying, hexgrid.TeamNone); err != nil {
		r.logger.Error("persisting room status", "status", StatusPlaying, "error", err)
	}

	return Result{Broadcast: []Event{{Type: EventGameStarted, Data: started}}}
}

// SelectCell picks an unused question for an unowned cell, preferring one
// whose answer starts with the cell's hint letter. Only the host may
// select, only while playing, and only while no question is active. The
// question lookup runs outside the lock; preconditions are re-checked
// before committing, so the second of two racing selects degrades to a
// no-op.
func (r *Room) SelectCell(ctx context.Context, callerID string, cellID int) Result {
	r.mu.Lock()
	caller, ok := r.players[callerID]
	if !ok || caller.Role != RoleHost || r.status != StatusPlaying || r.current != nil {
		r.mu.Unlock()
		return Result{}
	}
	cell := r.grid.Cell(cellID)
	if cell == nil || cell.Owner != hexgrid.TeamNone {
		r.mu.Unlock()
		return Result{}
	}

	letter := cell.LetterAr
	if r.settings.Language == LanguageEn {
		letter = cell.LetterEn
	}
	settings := r.settings
	used := make(map[int64]struct{}, len(r.usedIDs))
	for id := range r.usedIDs {
		used[id] = struct{}{}
	}
	r.mu.Unlock()

	q, found, err := r.selector.Select(ctx, settings, used, letter)
	if err != nil {
		r.logger.Error("question lookup failed", "cell", cellID, "error", err)
		return Result{Caller: []Event{{Type: EventError, Data: ErrorData{Message: "question lookup failed"}}}}
	}
	if !found {
		return Result{Caller: []Event{{Type: EventNoQuestions, Data: NoQuestionsData{Message: "no unused questions available"}}}}
	}

	r.mu.Lock()
	// A concurrent transition may have landed while the store was queried.
	cell = r.grid.Cell(cellID)
	if r.status != StatusPlaying || r.current != nil || cell == nil || cell.Owner != hexgrid.TeamNone {
		r.mu.Unlock()
		return Result{}
	}
	r.current = &q
	r.currentCell = cellID
	r.buzzedBy = ""
	r.mu.Unlock()

	return Result{Broadcast: []Event{{
		Type: EventQuestionSelected,
		Data: QuestionSelectedData{Question: q, CellID: cellID, Letter: letter},
	}}}
}

// Buzz records the first participant to buzz in on the active question.
// Later buzzes, buzzes with no active question, and buzzes from unknown
// connections are no-ops.
func (r *Room) Buzz(id string) Result {
	r.mu.Lock()
	p, ok := r.players[id]
	if !ok || r.current == nil || r.buzzedBy != "" {
		r.mu.Unlock()
		return Result{}
	}
	r.buzzedBy = id
	r.mu.Unlock()

	return Result{Broadcast: []Event{{
		Type: EventPlayerBuzzed,
		Data: PlayerBuzzedData{PlayerID: id, Nickname: p.Nickname},
	}}}
}

// Adjudicate resolves the active question. A correct answer with a team
// captures the target cell permanently and runs the win check for that
// team; a correct answer with no team leaves the cell unowned. The
// question is marked used either way and a history entry is appended.
func (r *Room) Adjudicate(ctx context.Context, correct bool, team hexgrid.Team) Result {
	r.mu.Lock()
	if r.current == nil || r.currentCell < 0 {
		r.mu.Unlock()
		return Result{}
	}

	q := *r.current
	cellID := r.currentCell
	entry := HistoryEntry{
		QuestionID: q.ID,
		PromptAr:   q.PromptAr,
		PromptEn:   q.PromptEn,
		AnswerAr:   q.AnswerAr,
		AnswerEn:   q.AnswerEn,
		Correct:    correct,
		Team:       team,
		CellID:     cellID,
		AskedAt:    time.Now().UTC(),
	}
	r.log = append(r.log, entry)
	r.usedIDs[q.ID] = struct{}{}

	var events []Event
	won := false
	if correct && team != hexgrid.TeamNone {
		cell := r.grid.Cell(cellID)
		cell.Owner = team
		// Only the capturing team can have completed a chain.
		if hexgrid.HasConnection(r.grid, team) {
			r.status = StatusFinished
			won = true
			events = append(events, Event{Type: EventGameWon, Data: GameWonData{Winner: team, Grid: slices.Clone(r.grid.Cells)}})
		} else {
			events = append(events, Event{Type: EventCellCaptured, Data: CellCapturedData{CellID: cellID, Team: team, Grid: slices.Clone(r.grid.Cells)}})
		}
	} else {
		events = append(events, Event{Type: EventAnswerWrong, Data: AnswerWrongData{CellID: cellID}})
	}

	r.current = nil
	r.currentCell = -1
	r.buzzedBy = ""
	events = append(events, Event{Type: EventHistoryUpdated, Data: HistoryUpdatedData{History: slices.Clone(r.log)}})
	r.mu.Unlock()

	// Best-effort durability: the in-memory transition already committed.
	if err := r.stores.Questions.MarkUsed(ctx, r.code, q.ID, Outcome{Correct: correct, Team: team, CellID: cellID}); err != nil {
		r.logger.Error("marking question used", "question", q.ID, "error", err)
	}
	if err := r.stores.History.Append(ctx, r.code, entry); err != nil {
		r.logger.Error("appending history entry", "question", q.ID, "error", err)
	}
	if won {
		if err := r.stores.Sessions.UpdateStatus(ctx, r.code, StatusFinished, team); err != nil {
			r.logger.Error("persisting room status", "status", StatusFinished, "error", err)
		}
	}

	return Result{Broadcast: events}
}

// Skip abandons the active question without marking it used and without a
// history entry, so it stays eligible for reselection.
func (r *Room) Skip() Result {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return Result{}
	}
	r.current = nil
	r.currentCell = -1
	r.buzzedBy = ""
	r.mu.Unlock()

	return Result{Broadcast: []Event{{Type: EventQuestionSkipped}}}
}

// Reset rebuilds the grid from the room's board size and re-enters the
// playing state, clearing the visible history. Used question ids are NOT
// cleared: a reset game never re-serves questions asked in the prior
// playthrough of the same room.
func (r *Room) Reset(ctx context.Context) Result {
	r.mu.Lock()
	r.grid = hexgrid.Build(r.settings.BoardSize)
	r.status = StatusPlaying
	r.current = nil
	r.currentCell = -1
	r.buzzedBy = ""
	r.log = nil
	grid := r.gridCopyLocked()
	r.mu.Unlock()

	if err := r.stores.Sessions.UpdateStatus(ctx, r.code, StatusPlaying, hexgrid.TeamNone); err != nil {
		r.logger.Error("persisting room status", "status", StatusPlaying, "error", err)
	}

	return Result{Broadcast: []Event{{Type: EventGameReset, Data: GameResetData{Grid: grid}}}}
}

// Leave removes a disconnected player and its roster membership.
func (r *Room) Leave(id string) Result {
	r.mu.Lock()
	if _, ok := r.players[id]; !ok {
		r.mu.Unlock()
		return Result{}
	}
	delete(r.players, id)
	left := PlayerLeftData{PlayerID: id, Players: r.playersLocked(), Teams: r.rostersLocked()}
	r.mu.Unlock()

	return Result{Broadcast: []Event{{Type: EventPlayerLeft, Data: left}}}
}

// gridCopyLocked copies the grid for event payloads, which are marshaled
// after the lock is released.
func (r *Room) gridCopyLocked() *hexgrid.Grid {
	return &hexgrid.Grid{Size: r.grid.Size, Cells: slices.Clone(r.grid.Cells)}
}

func (r *Room) snapshotLocked() RoomSnapshot {
	return RoomSnapshot{
		Grid:     r.gridCopyLocked(),
		Settings: r.settings,
		Teams:    r.rostersLocked(),
		Players:  r.playersLocked(),
		Status:   r.status,
		History:  slices.Clone(r.log),
	}
}

// playersLocked returns the players sorted by id for stable output.
func (r *Room) playersLocked() []Player {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// rostersLocked derives the team rosters from the player entries, which
// keeps each identity on at most one team by construction.
func (r *Room) rostersLocked() TeamRosters {
	rosters := TeamRosters{Red: []string{}, Blue: []string{}}
	for _, p := range r.playersLocked() {
		switch p.Team {
		case hexgrid.TeamRed:
			rosters.Red = append(rosters.Red, p.ID)
		case hexgrid.TeamBlue:
			rosters.Blue = append(rosters.Blue, p.ID)
		}
	}
	return rosters
}
