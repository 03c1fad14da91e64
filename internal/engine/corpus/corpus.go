// Package corpus holds the seed utterances that train and anchor the intent
// classifiers. A built-in corpus ships with the binary; deployments can
// override it with a YAML file.
package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/pennyworth/internal/model"
)

// Set groups the seed utterances for one intent. Phrases feed the trainable
// classifiers; Exemplars anchor the similarity classifier. A set with no
// Exemplars falls back to its Phrases for similarity matching.
type Set struct {
	Label     model.Intent `yaml:"label"`
	Phrases   []string     `yaml:"phrases,omitempty"`
	Exemplars []string     `yaml:"exemplars,omitempty"`
}

// Anchors returns the utterances the similarity classifier should use for
// this set.
func (s Set) Anchors() []string {
	if len(s.Exemplars) > 0 {
		return s.Exemplars
	}
	return s.Phrases
}

// Corpus is the full seed corpus: one tier for top-level command routing and
// one for the finance-specific refinement.
type Corpus struct {
	Commands []Set `yaml:"commands"`
	Finance  []Set `yaml:"finance"`
}

// Load reads a corpus from a YAML file and validates it.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("corpus: failed to parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every set has a label, at least one utterance, and
// that no label appears twice within a tier.
func (c *Corpus) Validate() error {
	for tier, sets := range map[string][]Set{"commands": c.Commands, "finance": c.Finance} {
		if len(sets) == 0 {
			return fmt.Errorf("corpus: %s tier is empty", tier)
		}
		seen := make(map[model.Intent]bool, len(sets))
		for _, s := range sets {
			if s.Label == "" {
				return fmt.Errorf("corpus: %s tier has a set with no label", tier)
			}
			if seen[s.Label] {
				return fmt.Errorf("corpus: duplicate label %q in %s tier", s.Label, tier)
			}
			seen[s.Label] = true
			if len(s.Phrases) == 0 && len(s.Exemplars) == 0 {
				return fmt.Errorf("corpus: set %q has no utterances", s.Label)
			}
		}
	}
	return nil
}

// Examples flattens sets into labelled training examples, preserving set
// order. Sets with no phrases contribute nothing.
func Examples(sets []Set) []model.TrainingExample {
	var out []model.TrainingExample
	for _, s := range sets {
		for _, p := range s.Phrases {
			out = append(out, model.TrainingExample{Text: p, Label: s.Label})
		}
	}
	return out
}

// Default returns the built-in seed corpus.
func Default() *Corpus {
	return &Corpus{
		Commands: []Set{
			{
				Label: model.IntentLogExpense,
				Phrases: []string{
					"log expense",
					"I want to log an expense",
					"record expense",
					"I spend some money",
					"I spent money",
				},
			},
			{
				Label: model.IntentSetBudget,
				Phrases: []string{
					"set budget",
					"I want to set a budget",
					"budget set",
				},
			},
			{
				Label: model.IntentCheckBudget,
				Phrases: []string{
					"check budget",
					"how much budget do I have",
					"what's my budget",
				},
			},
			{
				Label: model.IntentViewExpenses,
				Phrases: []string{
					"view expenses",
					"show expenses",
					"how much have I spent",
				},
			},
			{
				Label: model.IntentFinancialAnalysis,
				Phrases: []string{
					"analyze my spending",
					"give me financial insights",
					"review my finances",
				},
			},
			{
				Label: model.IntentExchangeRate,
				Phrases: []string{
					"check exchange rate",
					"what's the exchange rate",
				},
			},
			{
				Label: model.IntentStockPrice,
				Phrases: []string{
					"get stock price",
					"check stock price",
					"stock price",
				},
			},
			{
				Label: model.IntentCryptoPrice,
				Phrases: []string{
					"get cryptocurrency price",
					"check crypto price",
					"check cryptocurrency price for me",
				},
			},
			{
				Label: model.IntentExit,
				Phrases: []string{
					"exit",
					"quit",
					"close",
					"stop",
				},
			},
		},
		Finance: []Set{
			{
				Label:     model.IntentSetBudget,
				Exemplars: []string{"Set a budget"},
				Phrases: []string{
					"Establish a monthly budget",
					"Create a budget plan for the month",
					"Outline this month's spending limits",
					"Plan the budget for the month",
					"Allocate funds for this month",
					"Determine monthly financial limits",
					"Set budget",
					"Draft a budget for this month",
					"Designate a spending plan for the month",
					"Organize this month's finances",
				},
			},
			{
				Label:     model.IntentLogExpense,
				Exemplars: []string{"Log an expense", "I just spent rupees"},
				Phrases: []string{
					"Record an expense",
					"Track an expense",
					"log an expense",
					"I invested money in",
					"I purchased something",
					"I made a purchase",
					"I allocated funds",
					"I forked out money",
					"I paid",
					"I incurred an expense",
				},
			},
			{
				Label:     model.IntentCheckBudget,
				Exemplars: []string{"What is my budget", "How much can I spend", "Show monthly budget"},
				Phrases: []string{
					"Budget inquiry",
					"What's my budget at the moment",
					"Can you tell me my current budget status",
					"What is my available budget",
					"How much is left in my budget currently",
					"What's left in my budget",
					"What does my budget look like right now",
					"How more can I spend this month",
					"What's my spending limit at the moment",
					"Can you give me an overview of my current budget",
				},
			},
			{
				Label:     model.IntentViewExpenses,
				Exemplars: []string{"Show expenses", "How much have I spent", "How much did I spend"},
				Phrases: []string{
					"What's my total spending for this month",
					"How much cash have I used so far this month",
					"Can you tell me my expenses for the month",
					"What's the total amount I've spent this month",
					"How much have I incurred in expenses this month",
					"Can you provide my monthly spending figure",
					"What's my monthly expenditure so far",
					"How much have I allocated this month",
					"Can you summarize my spending this month",
					"View expenses",
				},
			},
			{
				Label:     model.IntentFinancialAnalysis,
				Exemplars: []string{"Analyze my spending", "Predict my expenses"},
				Phrases: []string{
					"Evaluate my financial situation",
					"Review my financial standing",
					"Assess my financial health",
					"Examine my financial condition",
					"Give me financial insights",
					"Analyze my expenses",
					"What recommendations do you have for my finances",
					"How can I improve my financial outlook",
					"What patterns do you see in my spending",
					"Could you highlight any financial opportunities or risks",
				},
			},
			{
				// No phrase list ships for market insights yet, so this
				// label stays similarity-only and cannot be relabelled.
				Label:     model.IntentMarketInsights,
				Exemplars: []string{"What is the stock price", "What is the exchange rate", "Bitcoin price"},
			},
		},
	}
}
