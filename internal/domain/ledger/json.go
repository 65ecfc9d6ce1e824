package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UnmarshalJSON accepts sales as written by older terminals, which used the
// millisecond timestamp as the id and did not record the tax rate.
func (s *Sale) UnmarshalJSON(data []byte) error {
	type plain Sale
	var aux struct {
		*plain
		ID      json.RawMessage  `json:"id"`
		TaxRate *decimal.Decimal `json:"taxRate"`
	}
	aux.plain = (*plain)(s)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.TaxRate != nil:
		s.TaxRate = *aux.TaxRate
	case !s.Subtotal.IsZero():
		s.TaxRate = s.Tax.Div(s.Subtotal).Mul(hundred).Round(2)
	default:
		s.TaxRate = decimal.Zero
	}

	id := bytes.TrimSpace(aux.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		s.ID = ""
	case id[0] == '"':
		return json.Unmarshal(id, &s.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return errors.Wrap(err, "sale id")
		}
		s.ID = n.String()
	}
	return nil
}
