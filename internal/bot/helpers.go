package bot

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"liftbot/internal/i18n"
)

// sendError отправляет пользователю сообщение об ошибке и логирует её
func (b *Bot) sendError(ctx context.Context, chatID int64, userMessage string, err error) {
	if err != nil {
		b.logger.Error("ошибка обработки", "chat_id", chatID, "error", err)
	}
	if sendErr := b.messenger.SendText(ctx, chatID, userMessage); sendErr != nil {
		b.logger.Warn("не удалось отправить сообщение об ошибке", "chat_id", chatID, "error", sendErr)
	}
}

// sendGenericError: sendError с общим текстом
func (b *Bot) sendGenericError(ctx context.Context, chatID int64, lang i18n.Language, err error) {
	b.sendError(ctx, chatID, i18n.T("generic_error", lang), err)
}

// sendMessage отправляет текст с логированием ошибки
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	err := b.messenger.SendText(ctx, chatID, text)
	if err != nil {
		b.logger.Warn("не удалось отправить сообщение", "chat_id", chatID, "error", err)
	}
	return err
}

// sendChoices отправляет текст с кнопками выбора
func (b *Bot) sendChoices(ctx context.Context, chatID int64, text string, rows [][]Choice) error {
	err := b.messenger.SendChoices(ctx, chatID, text, rows)
	if err != nil {
		b.logger.Warn("не удалось отправить сообщение с кнопками", "chat_id", chatID, "error", err)
	}
	return err
}

// sendMainMenu показывает главное меню
func (b *Bot) sendMainMenu(ctx context.Context, chatID int64, lang i18n.Language, text string) error {
	err := b.messenger.SendMenu(ctx, chatID, text, mainMenu(lang))
	if err != nil {
		b.logger.Warn("не удалось отправить меню", "chat_id", chatID, "error", err)
	}
	return err
}

// parseChoice разбирает данные кнопки вида "start_day_12_3" на действие и числовые аргументы
func parseChoice(data string) (string, []int64) {
	parts := strings.Split(data, "_")
	end := len(parts)
	for end > 1 {
		if _, err := strconv.ParseInt(parts[end-1], 10, 64); err != nil {
			break
		}
		end--
	}

	args := make([]int64, 0, len(parts)-end)
	for _, p := range parts[end:] {
		n, _ := strconv.ParseInt(p, 10, 64)
		args = append(args, n)
	}
	return strings.Join(parts[:end], "_"), args
}

// choiceData собирает данные кнопки из действия и аргументов
func choiceData(action string, args ...int64) string {
	var sb strings.Builder
	sb.WriteString(action)
	for _, a := range args {
		sb.WriteByte('_')
		sb.WriteString(strconv.FormatInt(a, 10))
	}
	return sb.String()
}

// truncateString обрезает строку до maxLen символов
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
