package bot

import (
	"sync"

	"liftbot/internal/models"
)

// StateKind: в каком шаге диалога находится пользователь
type StateKind int

const (
	Idle StateKind = iota
	ParserAwaitingText
	ProgramAwaitingSave
	WorkoutAwaitingName
	WorkoutAwaitingExercises
	WorkoutAwaitingConfirmation
	SessionAwaitingWeight
	SessionAwaitingConfirmation
)

var stateNames = map[StateKind]string{
	Idle:                        "idle",
	ParserAwaitingText:          "parser_awaiting_text",
	ProgramAwaitingSave:         "program_awaiting_save",
	WorkoutAwaitingName:         "workout_awaiting_name",
	WorkoutAwaitingExercises:    "workout_awaiting_exercises",
	WorkoutAwaitingConfirmation: "workout_awaiting_confirmation",
	SessionAwaitingWeight:       "session_awaiting_weight",
	SessionAwaitingConfirmation: "session_awaiting_confirmation",
}

func (k StateKind) String() string {
	if name, ok := stateNames[k]; ok {
		return name
	}
	return "unknown"
}

// Conversation: состояние диалога с данными текущего шага
type Conversation struct {
	Kind StateKind
	// Draft: разобранная, но ещё не сохранённая программа или тренировка
	Draft *models.Schedule
	// WorkoutNumber и WorkoutName: собираемая кнопочная тренировка
	WorkoutNumber int
	WorkoutName   string
	// Previous: вес, который предложено повторить
	Previous float64
}

// conversations хранит состояния диалогов по chat ID
type conversations struct {
	mu    sync.RWMutex
	state map[int64]Conversation
}

func newConversations() *conversations {
	return &conversations{state: make(map[int64]Conversation)}
}

func (c *conversations) get(chatID int64) Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state[chatID]
}

func (c *conversations) set(chatID int64, conv Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conv.Kind == Idle {
		delete(c.state, chatID)
		return
	}
	c.state[chatID] = conv
}

func (c *conversations) reset(chatID int64) {
	c.set(chatID, Conversation{})
}
