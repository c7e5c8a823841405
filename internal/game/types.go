// Package game implements the per-room session coordinator: the state
// machine that serializes player actions into a consistent view of board
// ownership, the question selector, and the process-wide room registry.
package game

import (
	"time"

	"github.com/hexquiz/hexquiz/internal/hexgrid"
)

// Status is the room lifecycle state. Transitions are one-way
// (lobby → playing → finished); reset re-enters playing directly with a
// freshly built grid.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Role distinguishes the host connection from regular participants.
type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// ParseRole maps a wire value to a Role, defaulting to participant.
func ParseRole(s string) Role {
	if s == string(RoleHost) {
		return RoleHost
	}
	return RoleParticipant
}

// Player is one connection inside a room. Created on join, removed on
// disconnect.
type Player struct {
	ID       string       `json:"id"`
	Nickname string       `json:"nickname"`
	Role     Role         `json:"role"`
	Team     hexgrid.Team `json:"team,omitempty"`
}

// Question is a row from the external question bank. The coordinator
// never mutates questions; it only records their ids as used.
type Question struct {
	ID         int64  `json:"id"`
	PromptAr   string `json:"questionAr"`
	PromptEn   string `json:"questionEn"`
	AnswerAr   string `json:"answerAr"`
	AnswerEn   string `json:"answerEn"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	LetterAr   string `json:"letterAr"`
	LetterEn   string `json:"letterEn"`
}

// Answer returns the answer text in the given room language.
func (q Question) Answer(language string) string {
	if language == LanguageEn {
		return q.AnswerEn
	}
	return q.AnswerAr
}

// HistoryEntry is one adjudicated round, appended to the room's visible
// history and to the durable audit sink.
type HistoryEntry struct {
	QuestionID int64        `json:"questionId"`
	PromptAr   string       `json:"questionAr"`
	PromptEn   string       `json:"questionEn"`
	AnswerAr   string       `json:"answerAr"`
	AnswerEn   string       `json:"answerEn"`
	Correct    bool         `json:"correct"`
	Team       hexgrid.Team `json:"teamAnswered,omitempty"`
	CellID     int          `json:"cellIndex"`
	AskedAt    time.Time    `json:"askedAt"`
}
