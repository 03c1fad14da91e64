// Package dialogue implements slot-filling conversations: each intent carries
// an ordered schema of slots, and a session walks the user through them with
// bounded retries before handing a completed Action to the executor.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/pennyworth/internal/model"
)

// Slot is one piece of information an intent needs before it can execute.
// Valid gates raw utterance text; Parse produces the stored value and may be
// nil for slots that keep the normalized text as-is.
type Slot struct {
	Name   string
	Prompt string
	Retry  string
	Valid  func(string) bool
	Parse  func(string) (any, error)
}

// Schema is the ordered slot sequence for an intent. An empty schema means
// the intent executes immediately.
type Schema []Slot

// Registry maps intents to their slot schemas. Built once at startup;
// read-only afterwards.
type Registry struct {
	schemas map[model.Intent]Schema
}

// Schema returns the slot schema for an intent. ok is false for intents the
// registry does not know.
func (r *Registry) Schema(intent model.Intent) (Schema, bool) {
	s, ok := r.schemas[intent]
	return s, ok
}

// NewRegistry builds the schema registry. categories is the set of valid
// expense categories used by the budget and expense intents.
func NewRegistry(categories []string) *Registry {
	category := categorySlot(categories)

	month := Slot{
		Name:   "month",
		Prompt: "Enter the month.",
		Retry:  "Invalid month. Please say a valid month.",
		Valid:  validMonth,
		Parse:  parseLower,
	}

	amount := Slot{
		Name:   "amount",
		Prompt: "Enter the amount.",
		Retry:  "Invalid amount. Please try again.",
		Valid:  validAmount,
		Parse:  parseAmount,
	}

	budgetAmount := amount
	budgetAmount.Prompt = "Enter the budget amount."

	checkMonth := month
	checkMonth.Prompt = "Enter the month to check."

	reportMonth := month
	reportMonth.Prompt = "Which month's expenses should I total?"

	return &Registry{schemas: map[model.Intent]Schema{
		model.IntentLogExpense: {category, amount, month},
		model.IntentSetBudget:  {category, budgetAmount, month},
		model.IntentCheckBudget: {checkMonth},
		model.IntentViewExpenses: {reportMonth},
		model.IntentFinancialAnalysis: {},
		model.IntentExchangeRate: {{
			Name:   "currencies",
			Prompt: "Which currencies would you like to check? For example, say 'USD to INR'.",
			Retry:  "That format was incorrect. Please say something like 'USD to EUR'.",
			Valid:  validCurrencyPair,
			Parse:  parseCurrencyPair,
		}},
		model.IntentStockPrice: {{
			Name:   "symbol",
			Prompt: "What is the stock symbol? e.g., AAPL, META",
			Retry:  "Sorry, I did not understand that. Please say the stock symbol again.",
			Valid:  validWord,
			Parse:  parseUpper,
		}},
		model.IntentCryptoPrice: {{
			Name:   "coin",
			Prompt: "What cryptocurrency do you want the price for? (e.g., bitcoin, ethereum)",
			Retry:  "Sorry, I did not understand that. Please say the cryptocurrency name again.",
			Valid:  validWord,
			Parse:  parseLower,
		}},
		model.IntentExit: {},
	}}
}

// categorySlot builds the expense-category slot against a fixed category set.
func categorySlot(categories []string) Slot {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[strings.ToLower(c)] = true
	}
	return Slot{
		Name:   "category",
		Prompt: fmt.Sprintf("What category? (%s)", strings.Join(categories, ", ")),
		Retry:  "Sorry, I did not understand that. Please say the category again.",
		Valid: func(text string) bool {
			return set[strings.ToLower(strings.TrimSpace(text))]
		},
		Parse: parseLower,
	}
}
