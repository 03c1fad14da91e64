package model

// Intent is a recognized command category. Every intent maps to an ordered
// slot schema in the dialogue layer; resolution happens once per session via
// the intent resolver, never by chained string comparisons at call sites.
type Intent string

const (
	IntentLogExpense        Intent = "log_expense"
	IntentSetBudget         Intent = "set_budget"
	IntentCheckBudget       Intent = "check_budget"
	IntentViewExpenses      Intent = "view_expenses"
	IntentFinancialAnalysis Intent = "financial_analysis"
	IntentExchangeRate      Intent = "check_exchange_rate"
	IntentStockPrice        Intent = "check_stock_price"
	IntentCryptoPrice       Intent = "check_crypto_price"
	IntentExit              Intent = "exit"

	// IntentMarketInsights is a similarity-only bucket covering the three
	// market commands collectively. It has exemplars but no training set,
	// so it can never be the target of a correction.
	IntentMarketInsights Intent = "market_insights"
)

func (i Intent) String() string { return string(i) }

// Finance reports whether the intent belongs to the fine-grained finance
// family handled by the embedding classifier. Market lookups and exit are
// routed by the coarse command classifier alone.
func (i Intent) Finance() bool {
	switch i {
	case IntentLogExpense, IntentSetBudget, IntentCheckBudget,
		IntentViewExpenses, IntentFinancialAnalysis:
		return true
	}
	return false
}
