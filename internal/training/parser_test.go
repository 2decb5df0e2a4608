package training

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"liftbot/internal/models"
)

// 3 января 2024: среда
var wednesday = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

type wantEntry struct {
	name string
	sets int
}

func assertDay(t *testing.T, program *models.Schedule, day models.Day, want []wantEntry) {
	t.Helper()
	entries := program.Entries(day)
	if len(entries) != len(want) {
		t.Fatalf("%s: got %d exercises, want %d (%+v)", day, len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i].ExerciseName != w.name {
			t.Errorf("%s[%d]: Name = %q, want %q", day, i, entries[i].ExerciseName, w.name)
		}
		if entries[i].SetCount != w.sets {
			t.Errorf("%s[%d]: Sets = %d, want %d", day, i, entries[i].SetCount, w.sets)
		}
		if entries[i].OrderIndex != i {
			t.Errorf("%s[%d]: OrderIndex = %d, want %d", day, i, entries[i].OrderIndex, i)
		}
	}
}

func TestParse_InlineFormat(t *testing.T) {
	program, err := ParseAt("ПН: жим лёжа 3x10, присед 4x8", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := program.Days(); !reflect.DeepEqual(got, []models.Day{models.Monday}) {
		t.Fatalf("Days() = %v, want [Понедельник]", got)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"жим лёжа", 3}, {"присед", 4}})
}

func TestParse_InlineSeveralDays(t *testing.T) {
	program, err := ParseAt("ПН: жим лёжа 3x10, присед 4x8; ВТ: подтягивания 3xмакс, тяга 4x10", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"жим лёжа", 3}, {"присед", 4}})
	assertDay(t, program, models.Tuesday, []wantEntry{{"подтягивания", 3}, {"тяга", 4}})
}

func TestParse_MultiLineRepRuns(t *testing.T) {
	program, err := ParseAt("ПТ Ноги\nГакк-присед — 20-16-14-12\nЖим ног — 18-10-14", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Friday, []wantEntry{{"Гакк-присед", 4}, {"Жим ног", 3}})

	reps := program.Entries(models.Friday)[0].Reps
	if !reflect.DeepEqual(reps, []int{20, 16, 14, 12}) {
		t.Errorf("Reps = %v, want [20 16 14 12]", reps)
	}
}

func TestParse_MultiLineWithGlyphs(t *testing.T) {
	input := `🔹 ПТ Ноги
Гакк-присед — 4х10
Жим ног – 3х12

🔸 ВС
• Икры стоя — 16-20-25-30 (увеличивая вес)
Разгибания ног - 25-16-20`

	program, err := ParseAt(input, wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Friday, []wantEntry{{"Гакк-присед", 4}, {"Жим ног", 3}})
	assertDay(t, program, models.Sunday, []wantEntry{{"Икры стоя", 4}, {"Разгибания ног", 3}})

	if got := program.Days(); !reflect.DeepEqual(got, []models.Day{models.Friday, models.Sunday}) {
		t.Errorf("Days() = %v, want [Пятница Воскресенье]", got)
	}
}

func TestParse_FullDayNames(t *testing.T) {
	input := "понедельник\nЖим лёжа — 5x5\nСРЕДА: Становая 3x3"
	program, err := ParseAt(input, wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"Жим лёжа", 5}})
	assertDay(t, program, models.Wednesday, []wantEntry{{"Становая", 3}})
}

func TestParse_InlineKeepsCurrentDay(t *testing.T) {
	input := "ПН Грудь\nЖим лёжа — 4x8\nСР: присед 5x5\nРазводка — 3x12"
	program, err := ParseAt(input, wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"Жим лёжа", 4}, {"Разводка", 3}})
	assertDay(t, program, models.Wednesday, []wantEntry{{"присед", 5}})
}

func TestParse_NoDayDefaultsToToday(t *testing.T) {
	program, err := ParseAt("Жим лёжа 3x10\nТяга — 4x8", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Wednesday, []wantEntry{{"Жим лёжа", 3}, {"Тяга", 4}})
}

func TestParse_UnknownTokenIsExercise(t *testing.T) {
	program, err := ParseAt("ПН\nПРЕСС: 3x20\nГакк-присед 4x10", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"ПРЕСС", 3}, {"Гакк-присед", 4}})
}

func TestParse_BareNameUnderDay(t *testing.T) {
	program, err := ParseAt("ЧТ Спина\nПодтягивания\nТяга штанги 4x8", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Thursday, []wantEntry{{"Подтягивания", 1}, {"Тяга штанги", 4}})
}

func TestParse_NumberedDayLabel(t *testing.T) {
	monday := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	program, err := ParseAt("ПТ: День 1\nПрисед 4x10\nЖим 3x8", monday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := program.Days(); !reflect.DeepEqual(got, []models.Day{models.Friday}) {
		t.Fatalf("Days() = %v, want [Пятница]", got)
	}
	assertDay(t, program, models.Friday, []wantEntry{{"Присед", 4}, {"Жим", 3}})
}

func TestParse_LabelWithoutExercisesIsExercise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[models.Day][]wantEntry
	}{
		{
			name:  "next day inline",
			input: "ПН: Планка\nВТ: Жим 3x10",
			want: map[models.Day][]wantEntry{
				models.Monday:  {{"Планка", 1}},
				models.Tuesday: {{"Жим", 3}},
			},
		},
		{
			name:  "single line",
			input: "ПН: Планка",
			want:  map[models.Day][]wantEntry{models.Monday: {{"Планка", 1}}},
		},
		{
			name:  "label followed by exercises",
			input: "ПН: Ноги\nПрисед 5x5",
			want:  map[models.Day][]wantEntry{models.Monday: {{"Присед", 5}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := ParseAt(tt.input, wednesday)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if len(program.Days()) != len(tt.want) {
				t.Fatalf("Days() = %v, want %d days", program.Days(), len(tt.want))
			}
			for day, want := range tt.want {
				assertDay(t, program, day, want)
			}
		})
	}
}

func TestParse_RepeatedDayAppends(t *testing.T) {
	program, err := ParseAt("ПН\nЖим — 3x10\nВТ\nТяга — 3x10\nПН\nПрисед — 5x5", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"Жим", 3}, {"Присед", 5}})
	assertDay(t, program, models.Tuesday, []wantEntry{{"Тяга", 3}})
}

func TestParse_LegacyFallback(t *testing.T) {
	program, err := ParseAt("ПН: подтягивания; ВТ: отжимания", wednesday)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assertDay(t, program, models.Monday, []wantEntry{{"подтягивания", 1}})
	assertDay(t, program, models.Tuesday, []wantEntry{{"отжимания", 1}})
}

func TestParse_FormatError(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{"plain word", "hello", "не удалось найти"},
		{"empty", "   \n\n", "не удалось найти"},
		{"numbers only", "3x10", "не удалось найти"},
		{"day without exercises", "ПН:", "Понедельник"},
		{"huge set count", "ПН: Жим 99999999999999x10", "слишком много подходов"},
		{"set count overflows int", "ПН: Жим 99999999999999999999999x10", "слишком много подходов"},
		{"large set count", "ПН: Жим 50000000x10", "слишком много подходов"},
		{"long rep run", "Жим — " + strings.Repeat("5-", MaxSets) + "5", "слишком много подходов"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAt(tt.input, wednesday)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Parse(%q) error = %v, want *FormatError", tt.input, err)
			}
			if !strings.Contains(formatErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", formatErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"ПН: жим лёжа 3x10, присед 4x8; ВТ: подтягивания 3xмакс",
		"ПТ Ноги\nГакк-присед — 20-16-14-12\nЖим ног — 18-10-14",
		"СБ\nЖим — 5x5\nТяга — 3x8 (тяжело)\nПланка",
	}

	for _, input := range inputs {
		program, err := ParseAt(input, wednesday)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		for _, day := range program.Days() {
			counts := map[string]int{}
			var order []string
			for _, slot := range program.Slots(day) {
				if counts[slot.Exercise] == 0 {
					order = append(order, slot.Exercise)
				}
				counts[slot.Exercise]++
			}
			entries := program.Entries(day)
			if len(order) != len(entries) {
				t.Fatalf("%s: rejoined %d exercises, want %d", day, len(order), len(entries))
			}
			for i, e := range entries {
				if order[i] != e.ExerciseName || counts[e.ExerciseName] != e.SetCount {
					t.Errorf("%s[%d]: rejoined (%s, %d), want (%s, %d)",
						day, i, order[i], counts[order[i]], e.ExerciseName, e.SetCount)
				}
			}
		}
	}
}

func TestInferSets(t *testing.T) {
	tests := []struct {
		input    string
		wantSets int
		wantReps []int
	}{
		{"4x10", 4, []int{10, 10, 10, 10}},
		{"3 х 12", 3, []int{12, 12, 12}},
		{"5×5", 5, []int{5, 5, 5, 5, 5}},
		{"3xмакс", 3, nil},
		// повторения по подходам не разворачиваются сверх предела
		{"50000000x10", 50000000, nil},
		{"20-16-14-12", 4, []int{20, 16, 14, 12}},
		{"18 - 10 - 14 (увеличивая вес)", 3, []int{18, 10, 14}},
		// короткая серия трактуется как два подхода, а не диапазон повторений
		{"3-5", 2, []int{3, 5}},
		{"12", 1, nil},
		{"до отказа", 1, nil},
		{"", 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sets, reps := inferSets(tt.input)
			if sets != tt.wantSets {
				t.Errorf("inferSets(%q) sets = %d, want %d", tt.input, sets, tt.wantSets)
			}
			if !reflect.DeepEqual(reps, tt.wantReps) {
				t.Errorf("inferSets(%q) reps = %v, want %v", tt.input, reps, tt.wantReps)
			}
		})
	}
}

func TestParseExercise(t *testing.T) {
	tests := []struct {
		line     string
		lenient  bool
		wantOK   bool
		wantName string
		wantSets int
	}{
		{"Гакк-присед — 4х10", false, true, "Гакк-присед", 4},
		{"Жим ног по одной — 18-10-14", false, true, "Жим ног по одной", 3},
		{"Жим ног - 3x12", false, true, "Жим ног", 3},
		{"1. Жим лёжа 5x5", false, true, "Жим лёжа", 5},
		{"Жим гантелей 3x10 (с паузой)", false, true, "Жим гантелей", 3},
		{"Сгибания 20 - 15 - 12", false, true, "Сгибания", 3},
		{"Планка", false, false, "", 0},
		{"Планка", true, true, "Планка", 1},
		{"— 4x10", true, false, "", 0},
		{"   ", true, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			entry, ok := parseExercise(tt.line, tt.lenient)
			if ok != tt.wantOK {
				t.Fatalf("parseExercise(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if entry.ExerciseName != tt.wantName {
				t.Errorf("Name = %q, want %q", entry.ExerciseName, tt.wantName)
			}
			if entry.SetCount != tt.wantSets {
				t.Errorf("Sets = %d, want %d", entry.SetCount, tt.wantSets)
			}
		})
	}
}

func TestMatchDay(t *testing.T) {
	tests := []struct {
		line       string
		wantOK     bool
		wantDay    models.Day
		wantInline bool
	}{
		{"ПН", true, models.Monday, false},
		{"пт Ноги", true, models.Friday, false},
		{"🔹 ПТ Ноги", true, models.Friday, false},
		{"ВТ: подтягивания 3x10", true, models.Tuesday, true},
		{"ВТ — тяга 4x8, жим 3x10", true, models.Tuesday, true},
		{"ПТ: Ноги", true, models.Friday, false},
		{"ПТ: День 1", true, models.Friday, false},
		{"ПН: Неделя 2 (лёгкая)", true, models.Monday, false},
		{"СР: Планка, Вис", true, models.Wednesday, true},
		{"ЧТ: Сгибания 12-10-8", true, models.Thursday, true},
		{"Воскресенье", true, models.Sunday, false},
		{"ПНД 3x10", false, "", false},
		{"ПН3", false, "", false},
		{"Жим лёжа 3x10", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			dl, ok := matchDay(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("matchDay(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if dl.day != tt.wantDay {
				t.Errorf("day = %q, want %q", dl.day, tt.wantDay)
			}
			if dl.inline() != tt.wantInline {
				t.Errorf("inline() = %v, want %v", dl.inline(), tt.wantInline)
			}
		})
	}
}

func TestParseExercises(t *testing.T) {
	input := "ПТ Ноги\nГакк-присед — 20-16-14-12 (увеличивая вес)\n\nЖим ног — 3х12\nИкры"
	entries, err := ParseExercises(input)
	if err != nil {
		t.Fatalf("ParseExercises() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ParseExercises() returned %d exercises, want 3", len(entries))
	}
	if entries[0].ExerciseName != "Гакк-присед" || entries[0].SetCount != 4 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].TargetReps(2) != 12 {
		t.Errorf("entries[1].TargetReps(2) = %d, want 12", entries[1].TargetReps(2))
	}
	if entries[2].ExerciseName != "Икры" || entries[2].SetCount != 1 || entries[2].OrderIndex != 2 {
		t.Errorf("entries[2] = %+v", entries[2])
	}

	if _, err := ParseExercises("ПН\nВТ"); err == nil {
		t.Error("ParseExercises() with day lines only: want error")
	}
}
