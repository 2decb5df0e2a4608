package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorOverlay = lipgloss.Color("#6c7086")
	colorMauve   = lipgloss.Color("#cba6f7")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorBlue    = lipgloss.Color("#89b4fa")
)

type consoleStyles struct {
	text   lipgloss.Style
	menu   lipgloss.Style
	data   lipgloss.Style
	label  lipgloss.Style
	file   lipgloss.Style
	prompt lipgloss.Style
}

func newConsoleStyles() consoleStyles {
	return consoleStyles{
		text:   lipgloss.NewStyle().Foreground(colorText).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(colorOverlay).Padding(0, 1),
		menu:   lipgloss.NewStyle().Foreground(colorBlue),
		data:   lipgloss.NewStyle().Bold(true).Foreground(colorMauve),
		label:  lipgloss.NewStyle().Foreground(colorText),
		file:   lipgloss.NewStyle().Foreground(colorGreen),
		prompt: lipgloss.NewStyle().Foreground(colorOverlay),
	}
}

// ConsoleMessenger: транспорт для локального запуска бота в терминале.
// Кнопки выбора печатаются как "!данные", файлы сохраняются в dir.
type ConsoleMessenger struct {
	mu     sync.Mutex
	out    io.Writer
	dir    string
	styled bool
	styles consoleStyles
}

// NewConsoleMessenger создаёт консольный транспорт; styled включает цвета
func NewConsoleMessenger(out io.Writer, dir string, styled bool) *ConsoleMessenger {
	return &ConsoleMessenger{out: out, dir: dir, styled: styled, styles: newConsoleStyles()}
}

// IsTerminal сообщает, подключён ли файл к терминалу
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (m *ConsoleMessenger) render(style lipgloss.Style, s string) string {
	if !m.styled {
		return s
	}
	return style.Render(s)
}

func (m *ConsoleMessenger) SendText(_ context.Context, _ int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintln(m.out, m.render(m.styles.text, text))
	return err
}

func (m *ConsoleMessenger) SendMenu(_ context.Context, _ int64, text string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(m.render(m.styles.text, text))
	sb.WriteByte('\n')
	for _, row := range rows {
		sb.WriteString("  ")
		for i, label := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(m.render(m.styles.menu, "["+label+"]"))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(m.out, sb.String())
	return err
}

func (m *ConsoleMessenger) SendChoices(_ context.Context, _ int64, text string, rows [][]Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(m.render(m.styles.text, text))
	sb.WriteByte('\n')
	for _, row := range rows {
		for _, c := range row {
			fmt.Fprintf(&sb, "  %s  %s\n", m.render(m.styles.data, "!"+c.Data), m.render(m.styles.label, c.Label))
		}
	}
	_, err := io.WriteString(m.out, sb.String())
	return err
}

func (m *ConsoleMessenger) SendDocument(_ context.Context, _ int64, doc Document) error {
	path := filepath.Join(m.dir, filepath.Base(doc.Name))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("сохранение %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.out, "%s %s\n", doc.Caption, m.render(m.styles.file, path))
	return err
}

func (m *ConsoleMessenger) Acknowledge(context.Context, string) error {
	return nil
}

// Prompt печатает приглашение ко вводу
func (m *ConsoleMessenger) Prompt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprint(m.out, m.render(m.styles.prompt, "> "))
}

// ParseConsoleInput переводит строку терминала во входящее событие:
// "!данные" нажимает кнопку, "/команда" вызывает команду, остальное: текст
func ParseConsoleInput(chatID int64, lang, line string) Incoming {
	in := Incoming{ChatID: chatID, Lang: lang}
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "!") && len(trimmed) > 1:
		in.Choice = trimmed[1:]
	case strings.HasPrefix(trimmed, "/") && len(trimmed) > 1:
		cmd := strings.Fields(trimmed[1:])[0]
		in.Command = strings.ToLower(cmd)
	default:
		in.Text = line
	}
	return in
}

// RunConsole читает ввод построчно и отдаёт события боту, пока ввод не кончится.
// Строка, оканчивающаяся на "\", продолжается на следующей (для многострочных программ).
func RunConsole(ctx context.Context, r io.Reader, m *ConsoleMessenger, chatID int64, lang string, handle func(context.Context, Incoming)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var pending []string
	m.Prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			pending = append(pending, strings.TrimSuffix(line, `\`))
			continue
		}
		pending = append(pending, line)
		text := strings.Join(pending, "\n")
		pending = nil

		if strings.TrimSpace(text) != "" {
			handle(ctx, ParseConsoleInput(chatID, lang, text))
		}
		m.Prompt()
	}
	return scanner.Err()
}
