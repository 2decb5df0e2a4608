package models

import "time"

// Day: канонический день недели расписания
type Day string

const (
	Monday    Day = "Понедельник"
	Tuesday   Day = "Вторник"
	Wednesday Day = "Среда"
	Thursday  Day = "Четверг"
	Friday    Day = "Пятница"
	Saturday  Day = "Суббота"
	Sunday    Day = "Воскресенье"

	// AnyDay используется тренировками по кнопкам, которые не привязаны к дню недели
	AnyDay Day = "Любой день"
)

// Week: дни недели в календарном порядке
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOf возвращает день недели для момента времени
func DayOf(t time.Time) Day {
	// time.Weekday: 0 = воскресенье
	return Week[(int(t.Weekday())+6)%7]
}

// Index возвращает позицию дня в неделе (0 = понедельник), AnyDay и неизвестные дни идут последними
func (d Day) Index() int {
	for i, day := range Week {
		if day == d {
			return i
		}
	}
	return len(Week)
}

// Valid сообщает, является ли день допустимым ключом расписания
func (d Day) Valid() bool {
	return d == AnyDay || d.Index() < len(Week)
}

// DayByIndex: обратное к Index
func DayByIndex(i int) (Day, bool) {
	if i == len(Week) {
		return AnyDay, true
	}
	if i < 0 || i > len(Week) {
		return "", false
	}
	return Week[i], true
}
