package game

// Room languages. Arabic is the primary hint alphabet, English the
// secondary.
const (
	LanguageAr = "ar"
	LanguageEn = "en"
)

// Settings is the room configuration value object. It is validated and
// defaulted once at room creation and never mutated after the game
// starts.
type Settings struct {
	BoardSize      string   `json:"boardSize"`
	Language       string   `json:"language"`
	Categories     []string `json:"categories"`
	Difficulty     string   `json:"difficulty"`
	TimerSeconds   int      `json:"timerSeconds"`
	BuzzMode       *bool    `json:"buzzMode"`
	ShowLetterHint bool     `json:"showLetterHint"`
}

// Buzzing reports whether buzz mode is on. Rooms buzz unless it was
// explicitly turned off.
func (s Settings) Buzzing() bool {
	return s.BuzzMode == nil || *s.BuzzMode
}

// Normalize fills in defaults for missing fields and returns the result.
func (s Settings) Normalize() Settings {
	switch s.BoardSize {
	case "small", "medium", "large":
	default:
		s.BoardSize = "medium"
	}
	if s.Language != LanguageEn {
		s.Language = LanguageAr
	}
	if s.Difficulty == "" {
		s.Difficulty = "all"
	}
	if s.TimerSeconds <= 0 {
		s.TimerSeconds = 30
	}
	if s.BuzzMode == nil {
		on := true
		s.BuzzMode = &on
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	return s
}
