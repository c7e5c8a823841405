package game

import (
	"context"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
)

// Selector picks one unused question for a room. Selection has no side
// effects: a question is only marked used when the round is adjudicated,
// so a selected-but-skipped question stays eligible.
type Selector struct {
	store QuestionStore
}

func NewSelector(store QuestionStore) *Selector {
	return &Selector{store: store}
}

// Select returns an unused question matching the room's filters. When a
// hint letter is given and hint visibility is enabled, it first looks for
// a question whose answer in the room's language starts with that letter;
// otherwise (or when no letter match exists) it picks uniformly at random
// over all remaining candidates. The boolean result is false when every
// matching question has already been used in this room.
func (s *Selector) Select(ctx context.Context, settings Settings, usedIDs map[int64]struct{}, hintLetter string) (Question, bool, error) {
	exclude := make([]int64, 0, len(usedIDs))
	for id := range usedIDs {
		exclude = append(exclude, id)
	}

	candidates, err := s.store.FindUnused(ctx, QuestionFilters{
		Categories: settings.Categories,
		Difficulty: settings.Difficulty,
		ExcludeIDs: exclude,
	})
	if err != nil {
		return Question{}, false, err
	}
	if len(candidates) == 0 {
		return Question{}, false, nil
	}

	if hintLetter != "" && settings.ShowLetterHint {
		for _, q := range candidates {
			if hasFoldedPrefix(q.Answer(settings.Language), hintLetter) {
				return q, true, nil
			}
		}
	}

	return candidates[rand.IntN(len(candidates))], true, nil
}

// hasFoldedPrefix reports whether s starts with prefix under Unicode case
// folding, so "m" matches "Mercury" and Arabic letters compare byte-wise.
func hasFoldedPrefix(s, prefix string) bool {
	folder := cases.Fold()
	return strings.HasPrefix(folder.String(s), folder.String(prefix))
}
