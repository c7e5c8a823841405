package game

import (
	"context"
	"errors"
	"testing"
)

func TestSelectorHonorsUsedIDs(t *testing.T) {
	store := &fakeQuestionStore{questions: testQuestions(3)}
	sel := NewSelector(store)
	ctx := context.Background()

	used := map[int64]struct{}{1: {}, 2: {}}
	for i := 0; i < 20; i++ {
		q, found, err := sel.Select(ctx, Settings{}.Normalize(), used, "")
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if !found {
			t.Fatal("no question found with one remaining")
		}
		if q.ID != 3 {
			t.Fatalf("Select returned used question %d", q.ID)
		}
	}
}

func TestSelectorExhausted(t *testing.T) {
	store := &fakeQuestionStore{questions: testQuestions(2)}
	sel := NewSelector(store)

	used := map[int64]struct{}{1: {}, 2: {}}
	_, found, err := sel.Select(context.Background(), Settings{}.Normalize(), used, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if found {
		t.Fatal("Select reported a question after exhaustion")
	}
}

func TestSelectorPrefersHintLetter(t *testing.T) {
	store := &fakeQuestionStore{questions: []Question{
		{ID: 1, AnswerEn: "Jupiter", Difficulty: "easy"},
		{ID: 2, AnswerEn: "Mercury", Difficulty: "easy"},
		{ID: 3, AnswerEn: "Saturn", Difficulty: "easy"},
	}}
	sel := NewSelector(store)
	settings := Settings{Language: LanguageEn, ShowLetterHint: true}.Normalize()

	// Folded match: "m" finds "Mercury".
	q, found, err := sel.Select(context.Background(), settings, nil, "m")
	if err != nil || !found {
		t.Fatalf("Select = %v, %v", found, err)
	}
	if q.ID != 2 {
		t.Fatalf("Select returned question %d, want the letter match", q.ID)
	}
}

func TestSelectorHintFallback(t *testing.T) {
	store := &fakeQuestionStore{questions: []Question{
		{ID: 1, AnswerEn: "Jupiter", Difficulty: "easy"},
	}}
	sel := NewSelector(store)
	settings := Settings{Language: LanguageEn, ShowLetterHint: true}.Normalize()

	// No answer starts with the letter; any candidate still serves.
	q, found, err := sel.Select(context.Background(), settings, nil, "Z")
	if err != nil || !found {
		t.Fatalf("Select = %v, %v", found, err)
	}
	if q.ID != 1 {
		t.Fatalf("Select returned question %d, want 1", q.ID)
	}
}

func TestSelectorHintIgnoredWhenDisabled(t *testing.T) {
	store := &fakeQuestionStore{questions: []Question{
		{ID: 1, AnswerEn: "Saturn", Difficulty: "easy"},
		{ID: 2, AnswerEn: "Mercury", Difficulty: "easy"},
	}}
	sel := NewSelector(store)
	settings := Settings{Language: LanguageEn, ShowLetterHint: false}.Normalize()

	// With hints off, both candidates must be reachable.
	seen := make(map[int64]bool)
	for i := 0; i < 100 && len(seen) < 2; i++ {
		q, _, err := sel.Select(context.Background(), settings, nil, "m")
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		seen[q.ID] = true
	}
	if len(seen) != 2 {
		t.Fatalf("only questions %v served with hints disabled", seen)
	}
}

func TestSelectorStoreError(t *testing.T) {
	wantErr := errors.New("db locked")
	store := &fakeQuestionStore{findErr: wantErr}
	sel := NewSelector(store)

	_, _, err := sel.Select(context.Background(), Settings{}.Normalize(), nil, "")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Select error = %v, want %v", err, wantErr)
	}
}
