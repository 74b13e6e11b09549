package models

import (
	"encoding/json"
	"strconv"

	"github.com/thenoetrevino/funil/internal/types"
)

// Decimal is a number the backend may serialize either as a JSON number or as a
// numeric string (Postgres numeric columns).
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	n, err := decodeNumber(json.RawMessage(data))
	if err != nil {
		return err
	}
	*d = Decimal(n)
	return nil
}

// String formats the decimal with two places
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}

// TeamActivity is one row of GET /crm/stats/team: interactions per seller
type TeamActivity struct {
	SellerID     types.SellerID `json:"ven_codigo"`
	SellerName   string         `json:"ven_nome"`
	Interactions int            `json:"total"`
}

// IndustryShare is one row of GET /crm/stats/industries
type IndustryShare struct {
	IndustryID   types.IndustryID `json:"for_codigo"`
	IndustryName string           `json:"for_nomered"`
	Interactions int              `json:"total"`
	Share        Decimal          `json:"percentual"`
}

// Birthday is one row of GET /crm/stats/birthdays: clients with a birthday in the
// backend's rolling window
type Birthday struct {
	ClientID   types.ClientID `json:"cli_codigo"`
	ClientName string         `json:"cli_nome"`
	Date       string         `json:"aniversario"`
	Phone      string         `json:"cli_fone1"`
}
