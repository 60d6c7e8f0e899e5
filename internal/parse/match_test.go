package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainFind(t *testing.T) {
	chain := Chain{CompactContains("Bāzes teksts"), AllKeywords("Bāzes", "tekst")}

	tests := []struct {
		name         string
		lines        []string
		from         int
		wantIndex    int
		wantStrategy string
		wantOK       bool
	}{
		{
			name:         "primary wins even when fallback matches earlier",
			lines:        []string{"Bāzes tekstā", "Bāzes teksts 3"},
			wantIndex:    1,
			wantStrategy: "compact",
			wantOK:       true,
		},
		{
			name:         "fallback when primary never matches",
			lines:        []string{"x", "no Bāzes tekstos"},
			wantIndex:    1,
			wantStrategy: "keywords",
			wantOK:       true,
		},
		{
			name:         "extra spaces inside marker",
			lines:        []string{"Bāzes   teksts"},
			wantIndex:    0,
			wantStrategy: "compact",
			wantOK:       true,
		},
		{
			name:      "from skips earlier lines",
			lines:     []string{"Bāzes teksts", "x"},
			from:      1,
			wantIndex: -1,
		},
		{
			name:      "from beyond end",
			lines:     []string{"Bāzes teksts"},
			from:      5,
			wantIndex: -1,
		},
		{
			name:      "no match",
			lines:     []string{"Bāzes", "teksts"},
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, strategy, ok := chain.Find(tt.lines, tt.from)
			assert.Equal(t, tt.wantIndex, i)
			assert.Equal(t, tt.wantStrategy, strategy)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestChainPrimary(t *testing.T) {
	chain := Chain{Prefix("Tikai šodien"), CompactPrefix("Tikai šodien")}
	assert.True(t, chain.Primary("prefix"))
	assert.False(t, chain.Primary("compact-prefix"))
	assert.False(t, Chain{}.Primary("prefix"))
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name string
		m    Matcher
		line string
		want bool
	}{
		{"prefix", Prefix("Tikai šodien"), "Tikai šodien es", true},
		{"prefix not at start", Prefix("Tikai šodien"), "Un tikai šodien", false},
		{"compact prefix", CompactPrefix("Tikai šodien"), "Tikai  šodien es", true},
		{"compact prefix joined", CompactPrefix("Tikai šodien"), "Tikaišodien es", true},
		{"compact contains", CompactContains("Bāzes teksts"), "(Bāzesteksts)", true},
		{"empty marker never matches", Prefix(""), "anything", false},
		{"empty keywords never match", AllKeywords(" ", ""), "anything", false},
		{"keywords any order", AllKeywords("tekst", "Bāzes"), "Bāzes teksts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Match(tt.line))
		})
	}
}
