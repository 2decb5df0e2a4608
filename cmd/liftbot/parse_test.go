package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetArgs([]string{"parse", "--date", "2024-01-03"})
	rootCmd.SetIn(strings.NewReader("ПН: жим лёжа 3x10, присед 4x8\nтяга — 20-16-14"))
	rootCmd.SetOut(&out)
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("parse error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"day: Понедельник",
		"name: жим лёжа",
		"reps: [10, 10, 10]",
		"sets: 4",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestParseCommand_FormatError(t *testing.T) {
	rootCmd.SetArgs([]string{"parse"})
	rootCmd.SetIn(strings.NewReader("hello"))
	rootCmd.SetOut(&bytes.Buffer{})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "не удалось разобрать") {
		t.Fatalf("parse error = %v, want format error", err)
	}
}
