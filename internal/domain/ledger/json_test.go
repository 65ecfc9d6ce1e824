package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSale_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{name: "string id", input: `{"id":"3f2a","total":8.25}`, wantID: "3f2a"},
		{name: "numeric id", input: `{"id":1741168800000,"total":8.25}`, wantID: "1741168800000"},
		{name: "missing id", input: `{"total":8.25}`, wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Sale
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.wantID, s.ID)
			assert.True(t, dec("8.25").Equal(s.Total))
		})
	}
}

func TestSale_UnmarshalJSON_TaxRate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "recorded", input: `{"subtotal":7.5,"tax":0.75,"taxRate":8}`, want: "8"},
		{name: "recorded zero", input: `{"subtotal":7.5,"tax":0,"taxRate":0}`, want: "0"},
		{name: "derived", input: `{"id":1741168800000,"subtotal":7.5,"tax":0.75,"total":8.25}`, want: "10"},
		{name: "derived fractional", input: `{"subtotal":100,"tax":8.25}`, want: "8.25"},
		{name: "empty sale", input: `{"subtotal":0,"tax":0}`, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Sale
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.True(t, dec(tt.want).Equal(s.TaxRate), "tax rate %s", s.TaxRate)
		})
	}
}

func TestSale_RoundTrip(t *testing.T) {
	in := Sale{
		ID:           "abc",
		Subtotal:     dec("7.50"),
		TaxRate:      dec("10"),
		Tax:          dec("0.75"),
		Items:        []LineItem{{ProductID: 1, Name: "Coffee", Price: dec("2.50"), Quantity: 3}},
		Total:        dec("8.25"),
		CustomerName: "Guest",
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Sale
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "abc", out.ID)
	assert.Equal(t, "Guest", out.CustomerName)
	assert.True(t, dec("10").Equal(out.TaxRate))
	require.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.Items[0].Quantity)
}
