package bot

import (
	"fmt"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
)

var menuKeys = [][]string{
	{"menu_train"},
	{"menu_programs", "menu_stats"},
	{"menu_new_program", "menu_workouts"},
	{"menu_export"},
}

// mainMenu строит постоянную клавиатуру главного меню
func mainMenu(lang i18n.Language) [][]string {
	rows := make([][]string, len(menuKeys))
	for i, keys := range menuKeys {
		for _, key := range keys {
			rows[i] = append(rows[i], i18n.T(key, lang))
		}
	}
	return rows
}

// menuAction узнаёт кнопку меню по тексту на любом из языков
func menuAction(text string) (string, bool) {
	for _, keys := range menuKeys {
		for _, key := range keys {
			for _, lang := range i18n.Languages {
				if i18n.T(key, lang) == text {
					return key, true
				}
			}
		}
	}
	return "", false
}

func modeChoices(lang i18n.Language) [][]Choice {
	return [][]Choice{
		{{Label: i18n.T("btn_mode_program", lang), Data: "mode_program"}},
		{{Label: i18n.T("btn_mode_workouts", lang), Data: "mode_workouts"}},
	}
}

func saveProgramChoices(lang i18n.Language) [][]Choice {
	return [][]Choice{{
		{Label: i18n.T("btn_save_program", lang), Data: "save_program"},
		{Label: i18n.T("btn_cancel", lang), Data: "cancel"},
	}}
}

// workoutCountChoices: кнопки 1..7 по четыре в ряд
func workoutCountChoices() [][]Choice {
	var rows [][]Choice
	var row []Choice
	for n := 1; n <= maxWorkouts; n++ {
		row = append(row, Choice{Label: fmt.Sprint(n), Data: choiceData("workout_count", int64(n))})
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func confirmWorkoutChoices(lang i18n.Language) [][]Choice {
	return [][]Choice{{
		{Label: i18n.T("btn_confirm_workout", lang), Data: "confirm_workout"},
		{Label: i18n.T("btn_reject_workout", lang), Data: "reject_workout"},
	}}
}

// weightChoices: кнопки под подходом; с прошлым весом предлагается его повторить
func weightChoices(lang i18n.Language, hasPrevious bool) [][]Choice {
	end := []Choice{{Label: i18n.T("btn_end_training", lang), Data: "end_training"}}
	if !hasPrevious {
		return [][]Choice{end}
	}
	return [][]Choice{
		{
			{Label: i18n.T("btn_confirm_weight", lang), Data: "confirm_weight"},
			{Label: i18n.T("btn_change_weight", lang), Data: "change_weight"},
		},
		end,
	}
}

func startDayChoice(lang i18n.Language, s models.ScheduleSummary, day models.Day) Choice {
	return Choice{
		Label: i18n.Tf("btn_start_day", lang, scheduleTitle(s.Name, s.Kind, s.Number, lang), dayName(day, lang)),
		Data:  choiceData("start_day", s.ID, int64(day.Index())),
	}
}

func startWorkoutChoice(lang i18n.Language, number int, name string) Choice {
	return Choice{
		Label: i18n.Tf("btn_start_workout", lang, number, name),
		Data:  choiceData("start_workout", int64(number)),
	}
}
