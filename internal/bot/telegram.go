package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength: ограничение Telegram на длину текста сообщения
const maxMessageLength = 4096

// TelegramMessenger отправляет сообщения через Bot API
type TelegramMessenger struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewTelegramMessenger(api *tgbotapi.BotAPI, logger *slog.Logger) *TelegramMessenger {
	return &TelegramMessenger{api: api, logger: logger}
}

func (m *TelegramMessenger) SendText(_ context.Context, chatID int64, text string) error {
	_, err := m.api.Send(tgbotapi.NewMessage(chatID, truncateString(text, maxMessageLength)))
	return err
}

func (m *TelegramMessenger) SendMenu(_ context.Context, chatID int64, text string, rows [][]string) error {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			line = append(line, tgbotapi.NewKeyboardButton(label))
		}
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(line...))
	}
	keyboard := tgbotapi.NewReplyKeyboard(buttons...)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, truncateString(text, maxMessageLength))
	msg.ReplyMarkup = keyboard
	_, err := m.api.Send(msg)
	return err
}

func (m *TelegramMessenger) SendChoices(_ context.Context, chatID int64, text string, rows [][]Choice) error {
	msg := tgbotapi.NewMessage(chatID, truncateString(text, maxMessageLength))
	if len(rows) > 0 {
		buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
		for _, row := range rows {
			line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, c := range row {
				line = append(line, tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Data))
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(line...))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err := m.api.Send(msg)
	return err
}

func (m *TelegramMessenger) SendDocument(_ context.Context, chatID int64, doc Document) error {
	upload := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Data})
	upload.Caption = doc.Caption
	_, err := m.api.Send(upload)
	return err
}

func (m *TelegramMessenger) Acknowledge(_ context.Context, choiceID string) error {
	_, err := m.api.Request(tgbotapi.NewCallback(choiceID, ""))
	return err
}

// IncomingFromUpdate переводит обновление Telegram во входящее событие бота
func IncomingFromUpdate(update tgbotapi.Update) (Incoming, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		in := Incoming{Choice: cb.Data, ChoiceID: cb.ID}
		if cb.From != nil {
			in.ChatID = cb.From.ID
			in.Username = cb.From.UserName
			in.Lang = cb.From.LanguageCode
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			in.ChatID = cb.Message.Chat.ID
		}
		return in, in.ChatID != 0

	case update.Message != nil:
		msg := update.Message
		if msg.Chat == nil {
			return Incoming{}, false
		}
		in := Incoming{ChatID: msg.Chat.ID}
		if msg.From != nil {
			in.Username = msg.From.UserName
			in.Lang = msg.From.LanguageCode
		}
		if msg.IsCommand() {
			in.Command = strings.ToLower(msg.Command())
		} else {
			in.Text = msg.Text
		}
		return in, true
	}
	return Incoming{}, false
}

// Poll получает обновления long polling, пока не отменён контекст
func Poll(ctx context.Context, api *tgbotapi.BotAPI, submit func(Incoming), logger *slog.Logger) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	logger.Info("получение обновлений через long polling", "bot", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if in, ok := IncomingFromUpdate(update); ok {
				submit(in)
			}
		}
	}
}

// SetWebhook регистрирует адрес вебхука; secret Telegram вернёт в заголовке каждого запроса
func SetWebhook(api *tgbotapi.BotAPI, address, secret string) error {
	params := tgbotapi.Params{"url": address}
	params.AddNonEmpty("secret_token", secret)
	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("регистрация вебхука: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("регистрация вебхука: %s", resp.Description)
	}
	return nil
}

// RemoveWebhook отключает вебхук, чтобы снова работал long polling
func RemoveWebhook(api *tgbotapi.BotAPI) error {
	_, err := api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}
