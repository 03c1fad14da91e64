package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crimson-sun/pennyworth/internal/model"
)

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// currencyPattern matches utterances like "USD to EUR".
var currencyPattern = regexp.MustCompile(`^(\w+)\s+to\s+(\w+)$`)

func validMonth(text string) bool {
	return monthNames[strings.ToLower(strings.TrimSpace(text))]
}

func validAmount(text string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return err == nil
}

func validWord(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && !strings.ContainsAny(text, " \t")
}

func validCurrencyPair(text string) bool {
	return currencyPattern.MatchString(strings.ToLower(strings.TrimSpace(text)))
}

func parseAmount(text string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("dialogue: bad amount %q: %w", text, err)
	}
	return v, nil
}

func parseLower(text string) (any, error) {
	return strings.ToLower(strings.TrimSpace(text)), nil
}

func parseUpper(text string) (any, error) {
	return strings.ToUpper(strings.TrimSpace(text)), nil
}

func parseCurrencyPair(text string) (any, error) {
	m := currencyPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return nil, fmt.Errorf("dialogue: bad currency pair %q", text)
	}
	return model.CurrencyPair{
		From: strings.ToUpper(m[1]),
		To:   strings.ToUpper(m[2]),
	}, nil
}
