package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryKind(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected QueryKind
		wantErr  bool
	}{
		"select":     {input: "select", expected: QueryKindSelect},
		"upper case": {input: "AGGREGATION", expected: QueryKindAggregation},
		"padded":     {input: " window ", expected: QueryKindWindow},
		"unknown":    {input: "join", wantErr: true},
		"empty":      {input: "", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			kind, err := ParseQueryKind(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, kind)
		})
	}
}

func TestNewQuery(t *testing.T) {
	q, err := NewQuery(QueryKindSelect)
	require.NoError(t, err)
	assert.Equal(t, "SELECT symbol, price, volume FROM benchmark_data EMIT CHANGES", q.SQL())

	q, err = NewQuery(QueryKindAggregation)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT symbol, COUNT(symbol) as trade_count, AVG(price) as avg_price, SUM(volume) as total_volume FROM benchmark_data GROUP BY symbol",
		q.SQL())

	q, err = NewQuery(QueryKindWindow)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT symbol, price, AVG(price) as moving_avg_5m FROM benchmark_data GROUP BY symbol WINDOW SLIDING(5m, 1m)",
		q.SQL())
	assert.Equal(t, "sliding_window", q.Name())

	_, err = NewQuery("join")
	assert.Error(t, err)
}
