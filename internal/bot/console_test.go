package bot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConsoleInput(t *testing.T) {
	tests := []struct {
		line string
		want Incoming
	}{
		{"!save_program", Incoming{ChatID: 1, Lang: "ru", Choice: "save_program"}},
		{"/Start now", Incoming{ChatID: 1, Lang: "ru", Command: "start"}},
		{"62,5", Incoming{ChatID: 1, Lang: "ru", Text: "62,5"}},
		{"!", Incoming{ChatID: 1, Lang: "ru", Text: "!"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := ParseConsoleInput(1, "ru", tt.line); got != tt.want {
				t.Errorf("ParseConsoleInput(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRunConsole_Continuation(t *testing.T) {
	var out bytes.Buffer
	m := NewConsoleMessenger(&out, t.TempDir(), false)

	input := "ПТ Ноги\\\nПрисед — 4x10\n\n/stats\n"
	var got []Incoming
	err := RunConsole(context.Background(), strings.NewReader(input), m, 5, "ru", func(_ context.Context, in Incoming) {
		got = append(got, in)
	})
	if err != nil {
		t.Fatalf("RunConsole() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(got), got)
	}
	if got[0].Text != "ПТ Ноги\nПрисед — 4x10" {
		t.Errorf("first event text = %q", got[0].Text)
	}
	if got[1].Command != "stats" {
		t.Errorf("second event = %+v, want /stats", got[1])
	}
}

func TestConsoleMessenger_Plain(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	m := NewConsoleMessenger(&out, dir, false)
	ctx := context.Background()

	m.SendChoices(ctx, 1, "Сохранить?", [][]Choice{{{Label: "💾 Сохранить", Data: "save_program"}}})
	m.SendMenu(ctx, 1, "Меню", [][]string{{"A", "B"}})
	if err := m.SendDocument(ctx, 1, Document{Name: "../x.xlsx", Data: []byte("xlsx"), Caption: "Экспорт"}); err != nil {
		t.Fatalf("SendDocument() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"!save_program", "💾 Сохранить", "[A]  [B]", filepath.Join(dir, "x.xlsx")} {
		if !strings.Contains(text, want) {
			t.Errorf("output %q does not contain %q", text, want)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("plain console output contains ANSI escapes")
	}

	data, err := os.ReadFile(filepath.Join(dir, "x.xlsx"))
	if err != nil || string(data) != "xlsx" {
		t.Errorf("saved document = %q, %v", data, err)
	}
}
