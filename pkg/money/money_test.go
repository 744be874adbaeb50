package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Amount {
	t.Helper()
	a, err := Parse(s)
	require.NoError(t, err)
	return a
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		out     string
	}{
		{in: "5.50", out: "5.50"},
		{in: "0", out: "0.00"},
		{in: "12", out: "12.00"},
		{in: "3.999", out: "4.00"},
		{in: "", wantErr: true},
		{in: "-1.00", wantErr: true},
		{in: "+1.00", wantErr: true},
		{in: "1,50", wantErr: true},
		{in: "1e2", wantErr: true},
		{in: "abc", wantErr: true},
		{in: ".50", wantErr: true},
	}
	for _, tt := range tests {
		a, err := Parse(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.out, a.String(), "input %q", tt.in)
	}
}

func TestTotal(t *testing.T) {
	lines := []Line{
		{Price: mustParse(t, "5.50"), Count: 2},
	}
	total := Total(lines, mustParse(t, "1.00"))
	assert.Equal(t, "12.00", total.String())
}

func TestTotalRoundsOnceAtTheEnd(t *testing.T) {
	// Three lines of 0.333 would each round to 0.33 (sum 0.99) if rounding
	// were applied per line. Kept exact, 0.999 rounds to 1.00.
	lines := []Line{
		{Price: mustParse(t, "0.333"), Count: 1},
		{Price: mustParse(t, "0.333"), Count: 1},
		{Price: mustParse(t, "0.333"), Count: 1},
	}
	total := Total(lines, Zero())
	assert.Equal(t, "1.00", total.String())
}

func TestTotalFractionalCents(t *testing.T) {
	lines := []Line{
		{Price: mustParse(t, "1.005"), Count: 3},
	}
	total := Total(lines, mustParse(t, "0.004"))
	// 3.015 + 0.004 = 3.019 -> 3.02
	assert.Equal(t, "3.02", total.String())
}

func TestTotalEmptyCart(t *testing.T) {
	total := Total(nil, mustParse(t, "2.50"))
	assert.Equal(t, "2.50", total.String())
}
