package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"liftbot/internal/models"
	"liftbot/internal/training"
)

var parseDate string

var parseCmd = &cobra.Command{
	Use:   "parse [файл]",
	Short: "Разобрать текст программы и вывести результат в YAML",
	Long:  "Читает программу из файла или stdin. Упражнения без дня относятся к сегодняшнему дню (см. --date).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseDate, "date", "", "дата \"сегодня\" в формате 2006-01-02")
}

type parsedExercise struct {
	Name string `yaml:"name"`
	Sets int    `yaml:"sets"`
	Reps []int  `yaml:"reps,flow,omitempty"`
}

type parsedDay struct {
	Day       string           `yaml:"day"`
	Exercises []parsedExercise `yaml:"exercises"`
}

func runParse(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	text, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	now := time.Now()
	if parseDate != "" {
		if now, err = time.Parse("2006-01-02", parseDate); err != nil {
			return fmt.Errorf("некорректная дата %q: %w", parseDate, err)
		}
	}

	program, err := training.ParseAt(string(text), now)
	var formatErr *training.FormatError
	if errors.As(err, &formatErr) {
		return fmt.Errorf("не удалось разобрать программу: %s", formatErr.Reason)
	}
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(toParsedDays(program))
}

func toParsedDays(program *models.Schedule) []parsedDay {
	days := make([]parsedDay, 0, program.Len())
	for _, day := range program.Days() {
		pd := parsedDay{Day: string(day)}
		for _, e := range program.Entries(day) {
			pd.Exercises = append(pd.Exercises, parsedExercise{Name: e.ExerciseName, Sets: e.SetCount, Reps: e.Reps})
		}
		days = append(days, pd)
	}
	return days
}
