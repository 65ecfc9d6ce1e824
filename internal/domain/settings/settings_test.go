package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "zero tax", mutate: func(s *Settings) { s.TaxRate = decimal.Zero }},
		{name: "full tax", mutate: func(s *Settings) { s.TaxRate = decimal.NewFromInt(100) }},
		{name: "negative tax", mutate: func(s *Settings) { s.TaxRate = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "tax over 100", mutate: func(s *Settings) { s.TaxRate = decimal.RequireFromString("100.01") }, wantErr: true},
		{name: "blank store", mutate: func(s *Settings) { s.StoreName = "  " }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMoney(t *testing.T) {
	s := Default()
	assert.Equal(t, "$8.25", s.Money(decimal.RequireFromString("8.25")))
	assert.Equal(t, "$3.00", s.Money(decimal.NewFromInt(3)))

	s.Currency = "L.L "
	assert.Equal(t, "L.L 12000.00", s.Money(decimal.NewFromInt(12000)))
}
