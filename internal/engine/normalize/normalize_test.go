package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Log An Expense", "log an expense"},
		{"  what's   my\tbudget  ", "what's my budget"},
		{"café spending", "cafe spending"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("I spent $45.50 on groceries, okay?")
	want := []string{"i", "spent", "45.50", "on", "groceries", "okay"}
	if len(got) != len(want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokens = %v, want %v", got, want)
		}
	}
}

func TestTokensEmpty(t *testing.T) {
	if got := Tokens("  ...  "); got != nil {
		t.Fatalf("expected nil tokens for punctuation-only input, got %v", got)
	}
}
