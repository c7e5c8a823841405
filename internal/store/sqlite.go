// Package store implements the coordinator's persistence boundaries
// (question bank, session records, history sink) on SQLite.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hexquiz/hexquiz/internal/game"
	"github.com/hexquiz/hexquiz/internal/hexgrid"
)

// Store provides the SQLite-backed collaborator contracts.
type Store struct {
	db *sql.DB
}

var (
	_ game.QuestionStore = (*Store)(nil)
	_ game.SessionStore  = (*Store)(nil)
	_ game.HistorySink   = (*Store)(nil)
)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindUnused returns every question matching the filters whose id is not
// excluded, ordered by id.
func (s *Store) FindUnused(ctx context.Context, f game.QuestionFilters) ([]game.Question, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, prompt_ar, prompt_en, answer_ar, answer_en,
			category, difficulty, letter_ar, letter_en
		FROM questions
	`)

	var conds []string
	var args []any
	if len(f.Categories) > 0 {
		conds = append(conds, "category IN ("+placeholders(len(f.Categories))+")")
		for _, c := range f.Categories {
			args = append(args, c)
		}
	}
	if f.Difficulty != "" && f.Difficulty != "all" {
		conds = append(conds, "difficulty = ?")
		args = append(args, f.Difficulty)
	}
	if len(f.ExcludeIDs) > 0 {
		conds = append(conds, "id NOT IN ("+placeholders(len(f.ExcludeIDs))+")")
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
		}
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY id")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var questions []game.Question
	for rows.Next() {
		var q game.Question
		if err := rows.Scan(&q.ID, &q.PromptAr, &q.PromptEn, &q.AnswerAr, &q.AnswerEn,
			&q.Category, &q.Difficulty, &q.LetterAr, &q.LetterEn); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// MarkUsed records a question as spent for a room. Re-marking the same
// question is a no-op, keeping one row per (room, question) pair.
func (s *Store) MarkUsed(ctx context.Context, roomCode string, questionID int64, outcome game.Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO used_questions (session_code, question_id, correct, team, cell_id, used_at)
		VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	`, roomCode, questionID, boolInt(outcome.Correct), outcome.Team.String(), outcome.CellID)
	return err
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// AllocateCode persists a new session row under a fresh random code,
// retrying on collision. Uniqueness is enforced by the primary key, not
// by the caller.
func (s *Store) AllocateCode(ctx context.Context, settings game.Settings) (string, error) {
	settings = settings.Normalize()
	categories, err := json.Marshal(settings.Categories)
	if err != nil {
		return "", fmt.Errorf("encoding categories: %w", err)
	}

	for attempt := 0; attempt < 32; attempt++ {
		code := randomCode()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sessions (code, board_size, language, categories, difficulty,
				timer_seconds, buzz_mode, show_letter_hint, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'lobby')
		`, code, settings.BoardSize, settings.Language, string(categories), settings.Difficulty,
			settings.TimerSeconds, boolInt(settings.Buzzing()), boolInt(settings.ShowLetterHint))
		if err == nil {
			return code, nil
		}
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("inserting session: %w", err)
		}
	}
	return "", errors.New("exhausted attempts to allocate a unique room code")
}

// UpdateStatus records the session lifecycle state and, when the game is
// won, the winning team.
func (s *Store) UpdateStatus(ctx context.Context, code string, status game.Status, winner hexgrid.Team) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, winner = NULLIF(?, '') WHERE code = ?
	`, string(status), winner.String(), code)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrNotFound
	}
	return nil
}

// Append writes one adjudicated round to the audit log.
func (s *Store) Append(ctx context.Context, roomCode string, e game.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question_history (session_code, question_id, prompt_ar, prompt_en,
			answer_ar, answer_en, correct, team, cell_id, asked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, roomCode, e.QuestionID, e.PromptAr, e.PromptEn, e.AnswerAr, e.AnswerEn,
		boolInt(e.Correct), e.Team.String(), e.CellID, e.AskedAt.Format("2006-01-02T15:04:05.000Z07:00"))
	return err
}

// SessionStatus reads the persisted lifecycle state of a session.
func (s *Store) SessionStatus(ctx context.Context, code string) (game.Status, error) {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM sessions WHERE code = ?`, code).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", game.ErrNotFound
	}
	return game.Status(status), err
}

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	code := make([]byte, codeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
