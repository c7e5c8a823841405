package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hexquiz/hexquiz/internal/database"
	"github.com/hexquiz/hexquiz/internal/game"
	"github.com/hexquiz/hexquiz/internal/hexgrid"
	"github.com/hexquiz/hexquiz/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return New(db)
}

func seedTestStore(t *testing.T) *Store {
	t.Helper()
	st := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := st.SeedQuestions(context.Background(), logger); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return st
}

func TestSeedQuestionsIdempotent(t *testing.T) {
	st := seedTestStore(t)
	ctx := context.Background()

	before, err := st.FindUnused(ctx, game.QuestionFilters{})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("seed loaded no questions")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := st.SeedQuestions(ctx, logger); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	after, err := st.FindUnused(ctx, game.QuestionFilters{})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("question count changed %d -> %d on reseed", len(before), len(after))
	}
}

func TestSeedDerivesHintLetters(t *testing.T) {
	st := seedTestStore(t)

	questions, err := st.FindUnused(context.Background(), game.QuestionFilters{})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	for _, q := range questions {
		if q.LetterAr == "" || q.LetterEn == "" {
			t.Fatalf("question %d missing hint letters: %+v", q.ID, q)
		}
		if !strings.HasPrefix(strings.ToUpper(q.AnswerEn), q.LetterEn) {
			t.Fatalf("question %d letterEn %q does not start %q", q.ID, q.LetterEn, q.AnswerEn)
		}
		if !strings.HasPrefix(q.AnswerAr, q.LetterAr) {
			t.Fatalf("question %d letterAr %q does not start %q", q.ID, q.LetterAr, q.AnswerAr)
		}
	}
}

func TestFindUnusedFilters(t *testing.T) {
	st := seedTestStore(t)
	ctx := context.Background()

	science, err := st.FindUnused(ctx, game.QuestionFilters{Categories: []string{"science"}})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	if len(science) == 0 {
		t.Fatal("no science questions")
	}
	for _, q := range science {
		if q.Category != "science" {
			t.Fatalf("category filter leaked %q", q.Category)
		}
	}

	easy, err := st.FindUnused(ctx, game.QuestionFilters{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	for _, q := range easy {
		if q.Difficulty != "easy" {
			t.Fatalf("difficulty filter leaked %q", q.Difficulty)
		}
	}

	// "all" matches every difficulty.
	all, err := st.FindUnused(ctx, game.QuestionFilters{Difficulty: "all"})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	if len(all) <= len(easy) {
		t.Fatalf("difficulty=all returned %d, easy returned %d", len(all), len(easy))
	}
}

func TestFindUnusedExcludesIDs(t *testing.T) {
	st := seedTestStore(t)
	ctx := context.Background()

	all, err := st.FindUnused(ctx, game.QuestionFilters{})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}

	exclude := []int64{all[0].ID, all[1].ID}
	rest, err := st.FindUnused(ctx, game.QuestionFilters{ExcludeIDs: exclude})
	if err != nil {
		t.Fatalf("FindUnused: %v", err)
	}
	if len(rest) != len(all)-2 {
		t.Fatalf("excluding 2 of %d returned %d", len(all), len(rest))
	}
	for _, q := range rest {
		if q.ID == exclude[0] || q.ID == exclude[1] {
			t.Fatalf("excluded question %d returned", q.ID)
		}
	}
}

func TestMarkUsedIdempotent(t *testing.T) {
	st := seedTestStore(t)
	ctx := context.Background()

	code := allocate(t, st)
	outcome := game.Outcome{Correct: true, Team: hexgrid.TeamRed, CellID: 12}

	if err := st.MarkUsed(ctx, code, 1, outcome); err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	if err := st.MarkUsed(ctx, code, 1, outcome); err != nil {
		t.Fatalf("second MarkUsed: %v", err)
	}

	var count int
	err := st.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM used_questions WHERE session_code = ? AND question_id = 1`, code,
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting used rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("used_questions has %d rows, want 1", count)
	}
}

func allocate(t *testing.T, st *Store) string {
	t.Helper()
	code, err := st.AllocateCode(context.Background(), game.Settings{}.Normalize())
	if err != nil {
		t.Fatalf("AllocateCode: %v", err)
	}
	return code
}

func TestAllocateCode(t *testing.T) {
	st := newTestStore(t)

	code := allocate(t, st)
	if len(code) != codeLength {
		t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}

	status, err := st.SessionStatus(context.Background(), code)
	if err != nil {
		t.Fatalf("SessionStatus: %v", err)
	}
	if status != game.StatusLobby {
		t.Fatalf("new session status = %q, want lobby", status)
	}

	// An omitted buzz mode persists as on.
	var buzz int
	if err := st.db.QueryRowContext(context.Background(),
		`SELECT buzz_mode FROM sessions WHERE code = ?`, code,
	).Scan(&buzz); err != nil {
		t.Fatalf("reading buzz_mode: %v", err)
	}
	if buzz != 1 {
		t.Fatalf("buzz_mode = %d for default settings, want 1", buzz)
	}

	// Codes are unique across allocations.
	seen := map[string]bool{code: true}
	for i := 0; i < 20; i++ {
		c := allocate(t, st)
		if seen[c] {
			t.Fatalf("code %q allocated twice", c)
		}
		seen[c] = true
	}
}

func TestUpdateStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	code := allocate(t, st)

	if err := st.UpdateStatus(ctx, code, game.StatusPlaying, hexgrid.TeamNone); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	status, err := st.SessionStatus(ctx, code)
	if err != nil {
		t.Fatalf("SessionStatus: %v", err)
	}
	if status != game.StatusPlaying {
		t.Fatalf("status = %q, want playing", status)
	}

	if err := st.UpdateStatus(ctx, code, game.StatusFinished, hexgrid.TeamBlue); err != nil {
		t.Fatalf("UpdateStatus finished: %v", err)
	}
	var winner string
	if err := st.db.QueryRowContext(ctx, `SELECT winner FROM sessions WHERE code = ?`, code).Scan(&winner); err != nil {
		t.Fatalf("reading winner: %v", err)
	}
	if winner != "blue" {
		t.Fatalf("winner = %q, want blue", winner)
	}

	if err := st.UpdateStatus(ctx, "NOSUCH", game.StatusPlaying, hexgrid.TeamNone); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("UpdateStatus on missing session = %v, want ErrNotFound", err)
	}
}

func TestSessionStatusNotFound(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.SessionStatus(context.Background(), "NOSUCH"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("SessionStatus = %v, want ErrNotFound", err)
	}
}

func TestHistoryAppend(t *testing.T) {
	st := seedTestStore(t)
	ctx := context.Background()
	code := allocate(t, st)

	entry := game.HistoryEntry{
		QuestionID: 1,
		PromptEn:   "What is the closest planet to the Sun?",
		AnswerEn:   "Mercury",
		Correct:    true,
		Team:       hexgrid.TeamRed,
		CellID:     12,
		AskedAt:    time.Now().UTC(),
	}
	if err := st.Append(ctx, code, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := st.Append(ctx, code, entry); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	var count int
	err := st.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_history WHERE session_code = ?`, code,
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting history rows: %v", err)
	}
	// History is append-only: each round gets its own row.
	if count != 2 {
		t.Fatalf("question_history has %d rows, want 2", count)
	}
}
