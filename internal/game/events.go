package game

import "github.com/hexquiz/hexquiz/internal/hexgrid"

// Event is one outbound message produced by a room transition.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Event types emitted by room transitions.
const (
	EventRoomJoined       = "room_joined"
	EventPlayerJoined     = "player_joined"
	EventTeamsUpdated     = "teams_updated"
	EventGameStarted      = "game_started"
	EventQuestionSelected = "question_selected"
	EventNoQuestions      = "no_questions"
	EventPlayerBuzzed     = "player_buzzed"
	EventCellCaptured     = "cell_captured"
	EventGameWon          = "game_won"
	EventAnswerWrong      = "answer_wrong"
	EventHistoryUpdated   = "history_updated"
	EventQuestionSkipped  = "question_skipped"
	EventGameReset        = "game_reset"
	EventPlayerLeft       = "player_left"
	EventError            = "error"
)

// Result partitions a transition's events by audience: Caller events go
// only to the acting connection, Broadcast events to every connection
// subscribed to the room. An empty Result means the transition was a
// no-op.
type Result struct {
	Caller    []Event
	Broadcast []Event
}

// TeamRosters lists connection ids per team, each id in at most one.
type TeamRosters struct {
	Red  []string `json:"red"`
	Blue []string `json:"blue"`
}

// RoomSnapshot is the full state sent to a connection on join.
type RoomSnapshot struct {
	Grid     *hexgrid.Grid  `json:"grid"`
	Settings Settings       `json:"settings"`
	Teams    TeamRosters    `json:"teams"`
	Players  []Player       `json:"players"`
	Status   Status         `json:"status"`
	History  []HistoryEntry `json:"questionHistory"`
}

type PlayerJoinedData struct {
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type GameStartedData struct {
	Grid     *hexgrid.Grid `json:"grid"`
	Settings Settings      `json:"settings"`
}

type QuestionSelectedData struct {
	Question Question `json:"question"`
	CellID   int      `json:"cellId"`
	Letter   string   `json:"letter"`
}

type NoQuestionsData struct {
	Message string `json:"message"`
}

type PlayerBuzzedData struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

type CellCapturedData struct {
	CellID int            `json:"cellId"`
	Team   hexgrid.Team   `json:"team"`
	Grid   []hexgrid.Cell `json:"grid"`
}

type GameWonData struct {
	Winner hexgrid.Team   `json:"winner"`
	Grid   []hexgrid.Cell `json:"grid"`
}

type AnswerWrongData struct {
	CellID int `json:"cellId"`
}

type HistoryUpdatedData struct {
	History []HistoryEntry `json:"history"`
}

type GameResetData struct {
	Grid *hexgrid.Grid `json:"grid"`
}

type PlayerLeftData struct {
	PlayerID string      `json:"playerId"`
	Players  []Player    `json:"players"`
	Teams    TeamRosters `json:"teams"`
}

type ErrorData struct {
	Message string `json:"message"`
}
