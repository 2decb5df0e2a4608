package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"liftbot/internal/models"
)

// MaxSets: предел подходов в одном упражнении
const MaxSets = 20

// FormatError: текст программы не удалось разобрать
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

var (
	// "4x10", "4 х 10", "3xмакс"
	setsByRepsPattern = regexp.MustCompile(`(\d+)\s*[xXхХ×]\s*(\d+|(?i:макс|max))`)
	// "20-16-14-12"
	repRunPattern = regexp.MustCompile(`\d+(?:\s*-\s*\d+)+`)
	// числовой токен в конце строки: "4x10", "18-10-14" или просто "3"
	trailingTokenPattern = regexp.MustCompile(`\s(\d+\s*[xXхХ×]\s*(?:\d+|(?i:макс|max))|\d+(?:\s*-\s*\d+)+|\d+)\s*$`)
	commentPattern       = regexp.MustCompile(`\([^)]*\)`)
	enumerationPattern   = regexp.MustCompile(`^\d+[.)]\s+`)
	numberPattern        = regexp.MustCompile(`\d+`)
)

// Parse парсит текстовую программу тренировок. Строки упражнений без дня
// относятся к сегодняшнему дню недели.
func Parse(text string) (*models.Schedule, error) {
	return ParseAt(text, time.Now())
}

// ParseAt: Parse с явным "сейчас" для определения сегодняшнего дня
func ParseAt(text string, now time.Time) (*models.Schedule, error) {
	program := models.NewSchedule("", models.KindProgram)

	var (
		currentDay models.Day
		explicit   bool
		exercises  []models.ScheduleEntry
		seenDay    models.Day
		// header: строка "ДЕНЬ: подпись" текущего дня
		header string
	)

	flush := func() {
		if currentDay != "" && len(exercises) > 0 {
			program.Append(currentDay, exercises...)
		} else if header != "" {
			// под "ПН: Планка" нет упражнений: подпись и есть упражнение
			parseInline(program, header)
		}
		exercises = nil
		header = ""
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if dl, ok := matchDay(line); ok {
			seenDay = dl.day
			if dl.inline() {
				// "ПН: жим 3x10, присед 4x8": текущий день не меняется
				parseInline(program, line)
				continue
			}
			flush()
			currentDay = dl.day
			explicit = true
			if dl.sep != 0 && dl.rest != "" {
				header = line
			}
			continue
		}

		exercise, ok := parseExercise(line, explicit)
		if !ok {
			continue
		}
		if currentDay == "" {
			currentDay = models.DayOf(now)
		}
		exercises = append(exercises, exercise)
	}
	flush()

	if program.Empty() {
		program = parseLegacy(text)
	}

	if program.Empty() {
		if seenDay != "" {
			return nil, &FormatError{Reason: fmt.Sprintf("день «%s» распознан, но упражнения разобрать не удалось", seenDay)}
		}
		return nil, &FormatError{Reason: "не удалось найти ни одного дня с упражнениями"}
	}
	for _, day := range program.Days() {
		if err := checkSets(program.Entries(day)); err != nil {
			return nil, err
		}
	}
	return program, nil
}

// ParseExercises разбирает список упражнений по строке на упражнение.
// Строки с днями недели пропускаются.
func ParseExercises(text string) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, ok := matchDay(line); ok {
			continue
		}
		if exercise, ok := parseExercise(line, true); ok {
			exercise.OrderIndex = len(entries)
			entries = append(entries, exercise)
		}
	}
	if len(entries) == 0 {
		return nil, &FormatError{Reason: "не удалось разобрать ни одного упражнения"}
	}
	if err := checkSets(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func checkSets(entries []models.ScheduleEntry) error {
	for _, e := range entries {
		if e.SetCount > MaxSets {
			return &FormatError{Reason: fmt.Sprintf("«%s»: слишком много подходов (%d), максимум %d", e.ExerciseName, e.SetCount, MaxSets)}
		}
	}
	return nil
}

// parseInline разбирает строку вида "ПН: жим 3x10, присед 4x8; ВТ: тяга 4x10"
func parseInline(program *models.Schedule, line string) {
	var day models.Day
	for _, block := range strings.Split(line, ";") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		text := block
		if dl, ok := matchDay(block); ok {
			day = dl.day
			text = dl.rest
		}
		if day == "" {
			continue
		}
		if entries := parseCommaList(text); len(entries) > 0 {
			program.Append(day, entries...)
		}
	}
}

// parseLegacy: старый формат целиком: блоки "ДЕНЬ: упр1, упр2" через ";"
func parseLegacy(text string) *models.Schedule {
	program := models.NewSchedule("", models.KindProgram)
	for _, block := range strings.Split(text, ";") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		dl, ok := matchDay(block)
		if !ok || dl.sep == 0 {
			continue
		}
		if entries := parseCommaList(dl.rest); len(entries) > 0 {
			program.Append(dl.day, entries...)
		}
	}
	return program
}

func parseCommaList(text string) []models.ScheduleEntry {
	var entries []models.ScheduleEntry
	for _, part := range strings.Split(text, ",") {
		if exercise, ok := parseExercise(part, true); ok {
			entries = append(entries, exercise)
		}
	}
	return entries
}

// parseExercise разбирает строку "название: описание подходов".
// lenient разрешает строку без чисел (только название, один подход).
func parseExercise(line string, lenient bool) (models.ScheduleEntry, bool) {
	s := strings.TrimSpace(trimGlyphs(strings.TrimSpace(line)))
	s = enumerationPattern.ReplaceAllString(s, "")
	if s == "" {
		return models.ScheduleEntry{}, false
	}

	name, description, found := splitSeparator(s)
	if !found {
		bare := strings.TrimSpace(stripComments(s))
		if loc := trailingTokenPattern.FindStringSubmatchIndex(bare); loc != nil {
			name = bare[:loc[0]]
			description = bare[loc[2]:loc[3]]
		} else if lenient {
			name = bare
		} else {
			return models.ScheduleEntry{}, false
		}
	}

	name = strings.TrimRightFunc(strings.TrimSpace(name), func(r rune) bool {
		return r == ':' || r == '—' || r == '–' || r == '-' || unicode.IsSpace(r)
	})
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return models.ScheduleEntry{}, false
	}

	sets, reps := inferSets(description)
	return models.ScheduleEntry{ExerciseName: name, SetCount: sets, Reps: reps}, true
}

// splitSeparator делит строку по первому длинному тире, затем по короткому,
// затем по дефису, окружённому пробелами.
func splitSeparator(s string) (name, description string, ok bool) {
	for _, sep := range []string{"—", "–"} {
		if i := strings.Index(s, sep); i >= 0 {
			return s[:i], strings.TrimSpace(s[i+len(sep):]), true
		}
	}

	for offset := 0; ; {
		i := strings.Index(s[offset:], " - ")
		if i < 0 {
			break
		}
		i += offset
		// "20 - 16 - 14": это серия чисел, а не разделитель
		if prev := strings.TrimSpace(s[:i]); prev != "" && !unicode.IsDigit(rune(prev[len(prev)-1])) {
			return s[:i], strings.TrimSpace(s[i+3:]), true
		}
		offset = i + 3
	}
	return "", "", false
}

// inferSets определяет количество подходов и целевые повторения по описанию:
// "4x10" → 4, "20-16-14-12" → 4 (по количеству чисел), иначе 1.
func inferSets(description string) (int, []int) {
	description = stripComments(description)

	if m := setsByRepsPattern.FindStringSubmatch(description); m != nil {
		// при переполнении Atoi возвращает предельное значение
		sets, _ := strconv.Atoi(m[1])
		if sets < 1 {
			return 1, nil
		}
		reps, err := strconv.Atoi(m[2])
		if err != nil || sets > MaxSets {
			return sets, nil
		}
		perSet := make([]int, sets)
		for i := range perSet {
			perSet[i] = reps
		}
		return sets, perSet
	}

	if run := repRunPattern.FindString(description); run != "" {
		nums := numberPattern.FindAllString(run, -1)
		if len(nums) >= 2 {
			reps := make([]int, len(nums))
			for i, n := range nums {
				reps[i], _ = strconv.Atoi(n)
			}
			return len(nums), reps
		}
	}

	return 1, nil
}

func stripComments(s string) string {
	return strings.TrimSpace(commentPattern.ReplaceAllString(s, ""))
}
