package types

import "strconv"

// ID types give each backend integer key its own name so a stage id can never be
// passed where an opportunity id is expected.

// StageID identifies a pipeline column (etapa)
type StageID int

// OpportunityID identifies a card on the board (oportunidade)
type OpportunityID int

// ClientID identifies a client record (cli_codigo)
type ClientID int

// SellerID identifies the seller whose pipeline is loaded (ven_codigo)
type SellerID int

// IndustryID identifies a supplier/industry in the aggregate stats
type IndustryID int

func (id StageID) String() string {
	return strconv.Itoa(int(id))
}

func (id OpportunityID) String() string {
	return strconv.Itoa(int(id))
}

func (id ClientID) String() string {
	return strconv.Itoa(int(id))
}

func (id SellerID) String() string {
	return strconv.Itoa(int(id))
}

// ParseOpportunityID parses a decimal opportunity id as typed on the command line
func ParseOpportunityID(s string) (OpportunityID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return OpportunityID(n), nil
}
