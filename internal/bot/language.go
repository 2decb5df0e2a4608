package bot

import (
	"context"
	"sync"

	"liftbot/internal/i18n"
	"liftbot/internal/models"
)

// langCache кэширует язык пользователей
type langCache struct {
	sync.RWMutex
	cache map[int64]i18n.Language
}

func newLangCache() *langCache {
	return &langCache{cache: make(map[int64]i18n.Language)}
}

func (c *langCache) get(chatID int64) (i18n.Language, bool) {
	c.RLock()
	defer c.RUnlock()
	lang, ok := c.cache[chatID]
	return lang, ok
}

func (c *langCache) put(chatID int64, lang i18n.Language) {
	c.Lock()
	c.cache[chatID] = lang
	c.Unlock()
}

// language возвращает язык пользователя: кэш, затем БД, затем язык клиента Telegram
func (b *Bot) language(ctx context.Context, in Incoming) i18n.Language {
	if lang, ok := b.langs.get(in.ChatID); ok {
		return lang
	}

	lang := i18n.ParseLanguage(in.Lang)
	user, err := b.repo.User.Get(ctx, in.ChatID)
	if err != nil {
		b.logger.Warn("не удалось загрузить пользователя", "chat_id", in.ChatID, "error", err)
		return lang
	}
	if user != nil {
		lang = i18n.ParseLanguage(user.Language)
	}

	b.langs.put(in.ChatID, lang)
	return lang
}

// cachedLanguage: язык без обращения к БД (для вызовов из движка тренировки)
func (b *Bot) cachedLanguage(chatID int64) i18n.Language {
	if lang, ok := b.langs.get(chatID); ok {
		return lang
	}
	return i18n.DefaultLang
}

// setLanguage сохраняет язык пользователя
func (b *Bot) setLanguage(ctx context.Context, chatID int64, lang i18n.Language) error {
	user, err := b.repo.User.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &models.User{ID: chatID}
	}
	user.Language = string(lang)
	if err := b.repo.User.Upsert(ctx, *user); err != nil {
		return err
	}

	b.langs.put(chatID, lang)
	return nil
}

// handleLanguagePrompt показывает выбор языка
func (b *Bot) handleLanguagePrompt(ctx context.Context, chatID int64, lang i18n.Language) {
	row := make([]Choice, 0, len(i18n.Languages))
	for _, l := range i18n.Languages {
		row = append(row, Choice{
			Label: i18n.GetLanguageFlag(l) + " " + i18n.GetLanguageName(l),
			Data:  "lang_" + string(l),
		})
	}
	b.sendChoices(ctx, chatID, i18n.T("language_prompt", lang), [][]Choice{row})
}

// handleSetLanguage меняет язык и обновляет главное меню
func (b *Bot) handleSetLanguage(ctx context.Context, chatID int64, lang i18n.Language) {
	if err := b.setLanguage(ctx, chatID, lang); err != nil {
		b.sendGenericError(ctx, chatID, lang, err)
		return
	}
	b.sendMainMenu(ctx, chatID, lang, i18n.Tf("language_set", lang, i18n.GetLanguageName(lang)))
}
