package game

import (
	"io"
	"log/slog"
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	room := NewRoom("AAAAAA", Settings{}, logger, Stores{
		Questions: &fakeQuestionStore{},
		Sessions:  &fakeSessionStore{},
		History:   &fakeHistorySink{},
	})

	if _, ok := reg.Get("AAAAAA"); ok {
		t.Fatal("empty registry returned a room")
	}

	reg.Add(room)
	got, ok := reg.Get("AAAAAA")
	if !ok || got != room {
		t.Fatalf("Get = %v, %v, want the added room", got, ok)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}

	reg.Remove("AAAAAA")
	if _, ok := reg.Get("AAAAAA"); ok {
		t.Fatal("removed room still resolvable")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d after remove, want 0", reg.Len())
	}
}

func TestRegistryConcurrent(t *testing.T) {
	reg := NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		code := string(rune('A'+i)) + "AAAAA"
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Add(NewRoom(code, Settings{}, logger, Stores{
				Questions: &fakeQuestionStore{},
				Sessions:  &fakeSessionStore{},
				History:   &fakeHistorySink{},
			}))
			if _, ok := reg.Get(code); !ok {
				t.Errorf("room %s not resolvable after Add", code)
			}
		}()
	}
	wg.Wait()

	if reg.Len() != 16 {
		t.Fatalf("Len = %d, want 16", reg.Len())
	}
}

func TestSettingsNormalize(t *testing.T) {
	got := Settings{}.Normalize()
	if got.BoardSize != "medium" || got.Language != LanguageAr || got.Difficulty != "all" || got.TimerSeconds != 30 {
		t.Fatalf("Normalize zero value = %+v", got)
	}
	if got.Categories == nil {
		t.Fatal("Normalize left Categories nil")
	}

	// Buzz mode is on unless explicitly turned off.
	if got.BuzzMode == nil || !*got.BuzzMode || !got.Buzzing() {
		t.Fatal("Normalize left buzz mode off by default")
	}
	off := false
	if s := (Settings{BuzzMode: &off}).Normalize(); s.Buzzing() {
		t.Fatal("Normalize overrode an explicit buzzMode=false")
	}

	kept := Settings{
		BoardSize:    "large",
		Language:     LanguageEn,
		Categories:   []string{"science"},
		Difficulty:   "hard",
		TimerSeconds: 60,
	}.Normalize()
	if kept.BoardSize != "large" || kept.Language != LanguageEn || kept.Difficulty != "hard" || kept.TimerSeconds != 60 {
		t.Fatalf("Normalize clobbered explicit values: %+v", kept)
	}

	if got := (Settings{BoardSize: "huge"}).Normalize(); got.BoardSize != "medium" {
		t.Fatalf("unknown board size normalized to %q, want medium", got.BoardSize)
	}
}
