package session

import (
	"math"
	"strconv"
	"strings"
)

// ParseWeight разбирает ввод веса: "60", "62,5", "80 кг"
func ParseWeight(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, unit := range []string{"кг", "kg"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	}
	s = strings.ReplaceAll(s, ",", ".")

	weight, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidWeight
	}
	if err := checkWeight(weight); err != nil {
		return 0, err
	}
	return weight, nil
}

func checkWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return ErrInvalidWeight
	}
	return nil
}
