package bot

import "context"

// Choice: кнопка выбора: подпись и данные, которые вернутся при нажатии
type Choice struct {
	Label string
	Data  string
}

// Document: файл для отправки пользователю
type Document struct {
	Name    string
	Data    []byte
	Caption string
}

// Incoming: входящее событие транспорта: текст, команда или нажатая кнопка
type Incoming struct {
	ChatID   int64
	Username string
	Lang     string
	Text     string
	Command  string
	Choice   string
	ChoiceID string
}

// Messenger: транспорт, через который бот общается с пользователем
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	// SendMenu показывает постоянную клавиатуру главного меню
	SendMenu(ctx context.Context, chatID int64, text string, rows [][]string) error
	SendChoices(ctx context.Context, chatID int64, text string, rows [][]Choice) error
	SendDocument(ctx context.Context, chatID int64, doc Document) error
	// Acknowledge подтверждает нажатие кнопки
	Acknowledge(ctx context.Context, choiceID string) error
}
