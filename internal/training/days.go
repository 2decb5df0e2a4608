package training

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"liftbot/internal/models"
)

// dayTokens: сокращения и полные названия дней недели (в верхнем регистре)
var dayTokens = map[string]models.Day{
	"ПН": models.Monday,
	"ВТ": models.Tuesday,
	"СР": models.Wednesday,
	"ЧТ": models.Thursday,
	"ПТ": models.Friday,
	"СБ": models.Saturday,
	"ВС": models.Sunday,

	"ПОНЕДЕЛЬНИК": models.Monday,
	"ВТОРНИК":     models.Tuesday,
	"СРЕДА":       models.Wednesday,
	"ЧЕТВЕРГ":     models.Thursday,
	"ПЯТНИЦА":     models.Friday,
	"СУББОТА":     models.Saturday,
	"ВОСКРЕСЕНЬЕ": models.Sunday,
}

// LookupDay переводит токен дня (в любом регистре) в канонический день
func LookupDay(token string) (models.Day, bool) {
	day, ok := dayTokens[strings.ToUpper(strings.TrimSpace(token))]
	return day, ok
}

// dayLine: строка, начинающаяся с токена дня
type dayLine struct {
	day models.Day
	// sep: двоеточие или тире сразу после токена, 0 если его нет
	sep rune
	// rest: текст после разделителя или подпись дня ("Ноги")
	rest string
}

// inline сообщает, что после "ДЕНЬ:" на той же строке идёт список упражнений
func (d dayLine) inline() bool {
	if d.sep == 0 {
		return false
	}
	// одиночное число не в счёт: "ПТ: День 1" остаётся подписью дня
	text := stripComments(d.rest)
	return strings.ContainsRune(text, ',') || setsByRepsPattern.MatchString(text) || repRunPattern.MatchString(text)
}

// trimGlyphs убирает маркеры списка, эмодзи и пробелы в начале строки
func trimGlyphs(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '('
	})
}

// matchDay распознаёт токен дня в начале строки. После токена допускаются
// двоеточие, тире, пробел с текстом или конец строки.
func matchDay(line string) (dayLine, bool) {
	s := trimGlyphs(strings.TrimSpace(line))

	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsLetter(r) {
			break
		}
		end += size
	}
	if end == 0 {
		return dayLine{}, false
	}

	day, ok := LookupDay(s[:end])
	if !ok {
		return dayLine{}, false
	}

	rest := s[end:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if trimmed == "" {
		return dayLine{day: day}, true
	}

	r, size := utf8.DecodeRuneInString(trimmed)
	switch r {
	case ':', '—', '–', '-':
		return dayLine{day: day, sep: r, rest: strings.TrimSpace(trimmed[size:])}, true
	}

	if len(trimmed) < len(rest) {
		return dayLine{day: day, rest: strings.TrimSpace(trimmed)}, true
	}
	return dayLine{}, false
}
