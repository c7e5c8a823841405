package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hexquiz/hexquiz/internal/game"
)

// Demo question bank, bilingual across five categories.
var demoQuestions = []game.Question{
	{PromptEn: "What is the closest planet to the Sun?", PromptAr: "ما هو أقرب كوكب من الشمس؟", AnswerEn: "Mercury", AnswerAr: "عطارد", Category: "science", Difficulty: "easy"},
	{PromptEn: "What gas do plants absorb from the atmosphere?", PromptAr: "ما الغاز الذي تمتصه النباتات من الغلاف الجوي؟", AnswerEn: "Carbon Dioxide", AnswerAr: "ثاني أكسيد الكربون", Category: "science", Difficulty: "easy"},
	{PromptEn: "What organelle is the powerhouse of the cell?", PromptAr: "ما العضية التي تُعدّ محطة الطاقة في الخلية؟", AnswerEn: "Mitochondria", AnswerAr: "الميتوكوندريا", Category: "science", Difficulty: "medium"},
	{PromptEn: "What planet is known as the Red Planet?", PromptAr: "أي كوكب يُعرف بالكوكب الأحمر؟", AnswerEn: "Mars", AnswerAr: "المريخ", Category: "science", Difficulty: "easy"},
	{PromptEn: "What is the most abundant gas in Earth's atmosphere?", PromptAr: "ما أكثر الغازات وفرة في الغلاف الجوي للأرض؟", AnswerEn: "Nitrogen", AnswerAr: "النيتروجين", Category: "science", Difficulty: "medium"},
	{PromptEn: "What force keeps planets in orbit around the Sun?", PromptAr: "ما القوة التي تبقي الكواكب في مداراتها حول الشمس؟", AnswerEn: "Gravity", AnswerAr: "الجاذبية", Category: "science", Difficulty: "easy"},

	{PromptEn: "Who was the first President of the United States?", PromptAr: "من كان أول رئيس للولايات المتحدة؟", AnswerEn: "George Washington", AnswerAr: "جورج واشنطن", Category: "history", Difficulty: "easy"},
	{PromptEn: "Who discovered America in 1492?", PromptAr: "من اكتشف أمريكا عام 1492؟", AnswerEn: "Christopher Columbus", AnswerAr: "كريستوف كولومبوس", Category: "history", Difficulty: "easy"},
	{PromptEn: "Which empire was ruled by Genghis Khan?", PromptAr: "أي إمبراطورية كان يحكمها جنكيز خان؟", AnswerEn: "Mongol Empire", AnswerAr: "الإمبراطورية المغولية", Category: "history", Difficulty: "medium"},
	{PromptEn: "In which city was the Eiffel Tower built?", PromptAr: "في أي مدينة بُني برج إيفل؟", AnswerEn: "Paris", AnswerAr: "باريس", Category: "history", Difficulty: "easy"},
	{PromptEn: "Who was the first human to walk on the Moon?", PromptAr: "من كان أول إنسان يمشي على سطح القمر؟", AnswerEn: "Neil Armstrong", AnswerAr: "نيل أرمسترونج", Category: "history", Difficulty: "easy"},
	{PromptEn: "What ancient civilization built the Colosseum?", PromptAr: "أي حضارة قديمة بنت الكولوسيوم؟", AnswerEn: "Romans", AnswerAr: "الرومان", Category: "history", Difficulty: "easy"},

	{PromptEn: "What is the largest country in the world by area?", PromptAr: "ما أكبر دولة في العالم من حيث المساحة؟", AnswerEn: "Russia", AnswerAr: "روسيا", Category: "geography", Difficulty: "easy"},
	{PromptEn: "What is the capital of Australia?", PromptAr: "ما عاصمة أستراليا؟", AnswerEn: "Canberra", AnswerAr: "كانبيرا", Category: "geography", Difficulty: "medium"},
	{PromptEn: "Which river is the longest in the world?", PromptAr: "أي نهر هو الأطول في العالم؟", AnswerEn: "Nile", AnswerAr: "النيل", Category: "geography", Difficulty: "easy"},
	{PromptEn: "On which continent is the Sahara Desert located?", PromptAr: "في أي قارة تقع الصحراء الكبرى؟", AnswerEn: "Africa", AnswerAr: "أفريقيا", Category: "geography", Difficulty: "easy"},
	{PromptEn: "What is the smallest country in the world?", PromptAr: "ما أصغر دولة في العالم؟", AnswerEn: "Vatican City", AnswerAr: "مدينة الفاتيكان", Category: "geography", Difficulty: "medium"},
	{PromptEn: "What is the capital of Japan?", PromptAr: "ما عاصمة اليابان؟", AnswerEn: "Tokyo", AnswerAr: "طوكيو", Category: "geography", Difficulty: "easy"},
	{PromptEn: "Which ocean is the largest?", PromptAr: "أي محيط هو الأكبر؟", AnswerEn: "Pacific Ocean", AnswerAr: "المحيط الهادئ", Category: "geography", Difficulty: "easy"},

	{PromptEn: "In which sport would you perform a slam dunk?", PromptAr: "في أي رياضة تؤدي تسديدة الغرزة؟", AnswerEn: "Basketball", AnswerAr: "كرة السلة", Category: "sports", Difficulty: "easy"},
	{PromptEn: "What sport uses a puck?", PromptAr: "أي رياضة تستخدم القرص؟", AnswerEn: "Ice Hockey", AnswerAr: "هوكي الجليد", Category: "sports", Difficulty: "easy"},
	{PromptEn: "In golf, what is the term for one under par?", PromptAr: "في الغولف، ما المصطلح الذي يعني ضربة أقل من المعيار؟", AnswerEn: "Birdie", AnswerAr: "بيردي", Category: "sports", Difficulty: "medium"},
	{PromptEn: "What sport is played at Wimbledon?", PromptAr: "ما الرياضة التي تُلعب في ويمبلدون؟", AnswerEn: "Tennis", AnswerAr: "التنس", Category: "sports", Difficulty: "easy"},

	{PromptEn: "Who founded Microsoft?", PromptAr: "من أسس شركة مايكروسوفت؟", AnswerEn: "Bill Gates", AnswerAr: "بيل غيتس", Category: "technology", Difficulty: "easy"},
	{PromptEn: "What does CPU stand for?", PromptAr: "ماذا تعني اختصار CPU؟", AnswerEn: "Central Processing Unit", AnswerAr: "وحدة المعالجة المركزية", Category: "technology", Difficulty: "easy"},
	{PromptEn: "What does HTML stand for?", PromptAr: "ماذا يعني اختصار HTML؟", AnswerEn: "HyperText Markup Language", AnswerAr: "لغة ترميز النص التشعبي", Category: "technology", Difficulty: "medium"},
}

// SeedQuestions loads the demo question bank if the questions table is
// empty. Idempotent: it does nothing when any question already exists.
func (s *Store) SeedQuestions(ctx context.Context, logger *slog.Logger) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return fmt.Errorf("counting questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, q := range demoQuestions {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO questions (prompt_ar, prompt_en, answer_ar, answer_en,
				category, difficulty, letter_ar, letter_en)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, q.PromptAr, q.PromptEn, q.AnswerAr, q.AnswerEn, q.Category, q.Difficulty,
			firstLetter(q.AnswerAr), strings.ToUpper(firstLetter(q.AnswerEn)))
		if err != nil {
			return fmt.Errorf("inserting question %q: %w", q.AnswerEn, err)
		}
	}

	logger.Info("seeded demo question bank", "count", len(demoQuestions))
	return nil
}

// firstLetter returns the first rune of s, used as the precomputed hint
// letter for each language.
func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(r)
}
