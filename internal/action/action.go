// Package action executes completed dialogue sessions: it persists finance
// commands and fetches market data, turning each Action into a spoken Result.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/model"
)

// Executor runs a completed Action and produces the sentence to speak back.
type Executor interface {
	Execute(ctx context.Context, act model.Action) (model.Result, error)
}

// Store is the persistence surface the dispatcher needs.
type Store interface {
	LogExpense(ctx context.Context, category string, amount float64, month string) error
	ExpenseReport(ctx context.Context, month string) (map[string]float64, error)
	SetBudget(ctx context.Context, category string, amount float64, month string) error
	RemainingBudget(ctx context.Context, month string) (map[string]float64, error)
	TotalsByCategory(ctx context.Context) (map[string]float64, error)
}

// Config wires the dispatcher's market providers.
type Config struct {
	FX     market.Config
	Stocks market.Config
	Crypto market.Config
}

// Dispatcher routes Actions to the store or a market provider by intent.
type Dispatcher struct {
	store  Store
	cfg    Config
	fx     market.Provider
	stocks market.Provider
	crypto market.Provider
	log    *slog.Logger
}

// NewDispatcher builds a dispatcher with all registered market providers.
func NewDispatcher(store Store, cfg Config) (*Dispatcher, error) {
	d := &Dispatcher{
		store: store,
		cfg:   cfg,
		log:   slog.Default().With("component", "dispatcher"),
	}
	for _, p := range []struct {
		name string
		dest *market.Provider
	}{
		{"fx", &d.fx},
		{"stocks", &d.stocks},
		{"coingecko", &d.crypto},
	} {
		ctor, err := market.Get(p.name)
		if err != nil {
			return nil, fmt.Errorf("action: %w", err)
		}
		*p.dest = ctor()
	}
	return d, nil
}

// Execute runs one Action.
func (d *Dispatcher) Execute(ctx context.Context, act model.Action) (model.Result, error) {
	d.log.Info("executing action", "session", act.SessionID, "intent", act.Intent)

	switch act.Intent {
	case model.IntentLogExpense:
		return d.logExpense(ctx, act)
	case model.IntentSetBudget:
		return d.setBudget(ctx, act)
	case model.IntentCheckBudget:
		return d.checkBudget(ctx, act)
	case model.IntentViewExpenses:
		return d.viewExpenses(ctx, act)
	case model.IntentFinancialAnalysis:
		return d.analyze(ctx)
	case model.IntentExchangeRate:
		return d.exchangeRate(ctx, act)
	case model.IntentStockPrice:
		return d.stockPrice(ctx, act)
	case model.IntentCryptoPrice:
		return d.cryptoPrice(ctx, act)
	case model.IntentExit:
		return model.Result{Text: "Thank you for using your personal finance assistant. Goodbye!"}, nil
	default:
		return model.Result{}, fmt.Errorf("action: no handler for intent %q", act.Intent)
	}
}

func (d *Dispatcher) logExpense(ctx context.Context, act model.Action) (model.Result, error) {
	category, err := slotString(act, "category")
	if err != nil {
		return model.Result{}, err
	}
	amount, err := slotFloat(act, "amount")
	if err != nil {
		return model.Result{}, err
	}
	month, err := slotString(act, "month")
	if err != nil {
		return model.Result{}, err
	}

	if err := d.store.LogExpense(ctx, category, amount, month); err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	return model.Result{
		Text: fmt.Sprintf("Expense of %.2f logged in %s for %s.", amount, category, month),
	}, nil
}

func (d *Dispatcher) setBudget(ctx context.Context, act model.Action) (model.Result, error) {
	category, err := slotString(act, "category")
	if err != nil {
		return model.Result{}, err
	}
	amount, err := slotFloat(act, "amount")
	if err != nil {
		return model.Result{}, err
	}
	month, err := slotString(act, "month")
	if err != nil {
		return model.Result{}, err
	}

	if err := d.store.SetBudget(ctx, category, amount, month); err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	return model.Result{
		Text: fmt.Sprintf("Budget of %.2f set for %s in %s.", amount, category, month),
	}, nil
}

func (d *Dispatcher) checkBudget(ctx context.Context, act model.Action) (model.Result, error) {
	month, err := slotString(act, "month")
	if err != nil {
		return model.Result{}, err
	}

	remaining, err := d.store.RemainingBudget(ctx, month)
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	if len(remaining) == 0 {
		return model.Result{
			Text: fmt.Sprintf("No budget information available for %s.", month),
		}, nil
	}

	var lines []string
	for _, category := range sortedKeys(remaining) {
		lines = append(lines, fmt.Sprintf("For %s, your remaining budget is: %.2f.", category, remaining[category]))
	}
	return model.Result{Text: strings.Join(lines, " ")}, nil
}

func (d *Dispatcher) viewExpenses(ctx context.Context, act model.Action) (model.Result, error) {
	month, err := slotString(act, "month")
	if err != nil {
		return model.Result{}, err
	}

	report, err := d.store.ExpenseReport(ctx, month)
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	if len(report) == 0 {
		return model.Result{
			Text: fmt.Sprintf("No expenses recorded for %s.", month),
		}, nil
	}

	var total float64
	var lines []string
	for _, category := range sortedKeys(report) {
		total += report[category]
		lines = append(lines, fmt.Sprintf("You spent %.2f on %s.", report[category], category))
	}
	lines = append(lines, fmt.Sprintf("Total for %s: %.2f.", month, total))
	return model.Result{Text: strings.Join(lines, " ")}, nil
}

func (d *Dispatcher) analyze(ctx context.Context) (model.Result, error) {
	totals, err := d.store.TotalsByCategory(ctx)
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	if len(totals) == 0 {
		return model.Result{
			Text: "No spending recorded yet, so there is nothing to analyze.",
		}, nil
	}

	var total float64
	topCategory := ""
	topAmount := 0.0
	for _, category := range sortedKeys(totals) {
		total += totals[category]
		if totals[category] > topAmount {
			topCategory = category
			topAmount = totals[category]
		}
	}
	share := topAmount / total * 100
	return model.Result{
		Text: fmt.Sprintf(
			"You have recorded %.2f in total spending. Your biggest category is %s at %.2f, which is %.0f percent of everything you spent.",
			total, topCategory, topAmount, share),
	}, nil
}

func (d *Dispatcher) exchangeRate(ctx context.Context, act model.Action) (model.Result, error) {
	pair, err := slotPair(act, "currencies")
	if err != nil {
		return model.Result{}, err
	}

	quote, err := d.fx.Quote(ctx, d.cfg.FX, market.Query{Base: pair.From, Target: pair.To})
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	return model.Result{
		Text: fmt.Sprintf("The exchange rate from %s to %s is %.4f.", pair.From, pair.To, quote.Value),
	}, nil
}

func (d *Dispatcher) stockPrice(ctx context.Context, act model.Action) (model.Result, error) {
	symbol, err := slotString(act, "symbol")
	if err != nil {
		return model.Result{}, err
	}

	quote, err := d.stocks.Quote(ctx, d.cfg.Stocks, market.Query{Base: symbol})
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	return model.Result{
		Text: fmt.Sprintf("The current price of %s is %.2f dollars.", symbol, quote.Value),
	}, nil
}

func (d *Dispatcher) cryptoPrice(ctx context.Context, act model.Action) (model.Result, error) {
	coin, err := slotString(act, "coin")
	if err != nil {
		return model.Result{}, err
	}

	quote, err := d.crypto.Quote(ctx, d.cfg.Crypto, market.Query{Base: coin})
	if err != nil {
		return model.Result{}, fmt.Errorf("action: %w", err)
	}
	return model.Result{
		Text: fmt.Sprintf("The current price of %s is %.2f USD.", coin, quote.Value),
	}, nil
}

// Apology is the sentence to speak when an intent's execution fails.
func Apology(intent model.Intent) string {
	switch intent {
	case model.IntentExchangeRate:
		return "Sorry, I couldn't retrieve the exchange rate at the moment. Please try again later."
	case model.IntentStockPrice:
		return "Sorry, I couldn't retrieve the stock price. Please try again."
	case model.IntentCryptoPrice:
		return "Could not retrieve the cryptocurrency price."
	default:
		return "Sorry, something went wrong handling that command."
	}
}

func slotString(act model.Action, name string) (string, error) {
	v, ok := act.Slots[name].(string)
	if !ok {
		return "", fmt.Errorf("action: slot %q missing or not text", name)
	}
	return v, nil
}

func slotFloat(act model.Action, name string) (float64, error) {
	v, ok := act.Slots[name].(float64)
	if !ok {
		return 0, fmt.Errorf("action: slot %q missing or not a number", name)
	}
	return v, nil
}

func slotPair(act model.Action, name string) (model.CurrencyPair, error) {
	v, ok := act.Slots[name].(model.CurrencyPair)
	if !ok {
		return model.CurrencyPair{}, fmt.Errorf("action: slot %q missing or not a currency pair", name)
	}
	return v, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
