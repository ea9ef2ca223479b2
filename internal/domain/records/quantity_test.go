package records

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_UnmarshalLenient(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Quantity
	}{
		{"number", `42.5`, Quantity{Value: 42.5, Valid: true}},
		{"integer", `7`, Quantity{Value: 7, Valid: true}},
		{"negative", `-3.2`, Quantity{Value: -3.2, Valid: true}},
		{"null", `null`, Quantity{}},
		{"quoted number", `"18.5"`, Quantity{Value: 18.5, Valid: true}},
		{"quoted junk", `"n/a"`, Quantity{}},
		{"empty string", `""`, Quantity{}},
		{"text", `"beaucoup"`, Quantity{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &q))
			assert.Equal(t, tc.want, q)
		})
	}
}

// A junk field must never fail the whole document.
func TestQuantity_JunkFieldInsideDocument(t *testing.T) {
	var c Client
	raw := `{"_id":"c1","nomPrenom":"Ali","nisba":"n/a","qteHuile":12}`

	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.False(t, c.Yield.Valid)
	assert.Equal(t, 12.0, c.OilQty.Or0())
}

func TestQuantity_Or0(t *testing.T) {
	assert.Equal(t, 5.0, Num(5).Or0())
	assert.Equal(t, 0.0, Quantity{}.Or0())
	assert.Equal(t, 0.0, Quantity{Value: math.NaN(), Valid: true}.Or0())
	assert.Equal(t, 0.0, Quantity{Value: math.Inf(1), Valid: true}.Or0())
}

func TestNum_NonFiniteIsMissing(t *testing.T) {
	assert.False(t, Num(math.NaN()).Valid)
	assert.False(t, Num(math.Inf(-1)).Valid)
	assert.True(t, Num(0).Valid)
}

func TestQuantity_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Num(3.5))
	require.NoError(t, err)
	assert.Equal(t, "3.5", string(b))

	b, err = json.Marshal(Quantity{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestBatchCounts(t *testing.T) {
	b := Batch{
		Clients: []Client{{}, {}},
		Ledger:  []LedgerEntry{{}},
	}

	c := b.Counts()

	assert.Equal(t, 2, c.Clients)
	assert.Equal(t, 1, c.Ledger)
	assert.Equal(t, 0, c.Employees)
}
