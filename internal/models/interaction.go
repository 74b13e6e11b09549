package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thenoetrevino/funil/internal/types"
)

// Interaction is the audit record written to POST /crm/interacoes
type Interaction struct {
	ClientID      types.ClientID      `json:"cli_codigo" validate:"required,gt=0"`
	SellerID      types.SellerID      `json:"ven_codigo" validate:"required,gt=0"`
	OpportunityID types.OpportunityID `json:"oportunidade_id,omitempty"`
	Type          InteractionType     `json:"tipo_interacao_id" validate:"required"`
	Channel       Channel             `json:"canal_id" validate:"required"`
	Result        Result              `json:"resultado_id" validate:"required"`
	Description   string              `json:"descricao" validate:"max=1000"`
}

// ============================================================================
// INTERACTION TYPE
// ============================================================================

// InteractionType is the closed set of interaction kinds the backend records
type InteractionType int

const (
	InteractionContact  InteractionType = 1
	InteractionFollowUp InteractionType = 2
	InteractionProposal InteractionType = 3
	InteractionVisit    InteractionType = 4
)

// InteractionTypes lists every known interaction type in display order
func InteractionTypes() []InteractionType {
	return []InteractionType{InteractionContact, InteractionFollowUp, InteractionProposal, InteractionVisit}
}

func (t InteractionType) String() string {
	switch t {
	case InteractionContact:
		return "contato"
	case InteractionFollowUp:
		return "follow-up"
	case InteractionProposal:
		return "proposta"
	case InteractionVisit:
		return "visita"
	}
	return fmt.Sprintf("InteractionType(%d)", int(t))
}

// Icon returns the glyph shown next to the interaction in the board
func (t InteractionType) Icon() string {
	switch t {
	case InteractionContact:
		return "☎"
	case InteractionFollowUp:
		return "↻"
	case InteractionProposal:
		return "✉"
	case InteractionVisit:
		return "⌂"
	}
	return "?"
}

// Valid reports whether t is one of the known types
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionContact, InteractionFollowUp, InteractionProposal, InteractionVisit:
		return true
	}
	return false
}

func (t *InteractionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*int)(t), func() bool { return t.Valid() }, "interaction type")
}

// ============================================================================
// CHANNEL
// ============================================================================

// Channel is the medium an interaction happened through (canal)
type Channel int

const (
	ChannelPhone    Channel = 1
	ChannelWhatsApp Channel = 2
	ChannelEmail    Channel = 3
	ChannelInPerson Channel = 4
)

// Channels lists every known channel
func Channels() []Channel {
	return []Channel{ChannelPhone, ChannelWhatsApp, ChannelEmail, ChannelInPerson}
}

func (c Channel) String() string {
	switch c {
	case ChannelPhone:
		return "telefone"
	case ChannelWhatsApp:
		return "whatsapp"
	case ChannelEmail:
		return "email"
	case ChannelInPerson:
		return "presencial"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Valid reports whether c is one of the known channels
func (c Channel) Valid() bool {
	switch c {
	case ChannelPhone, ChannelWhatsApp, ChannelEmail, ChannelInPerson:
		return true
	}
	return false
}

func (c *Channel) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*int)(c), func() bool { return c.Valid() }, "channel")
}

// ParseChannel maps a channel name (case-insensitive) to its code
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels() {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: channel %q", ErrUnknownEnum, s)
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the outcome recorded for an interaction
type Result int

const (
	ResultPending  Result = 1
	ResultPositive Result = 2
	ResultNegative Result = 3
	ResultNoAnswer Result = 4
)

// Results lists every known result
func Results() []Result {
	return []Result{ResultPending, ResultPositive, ResultNegative, ResultNoAnswer}
}

func (r Result) String() string {
	switch r {
	case ResultPending:
		return "pendente"
	case ResultPositive:
		return "positivo"
	case ResultNegative:
		return "negativo"
	case ResultNoAnswer:
		return "sem resposta"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Valid reports whether r is one of the known results
func (r Result) Valid() bool {
	switch r {
	case ResultPending, ResultPositive, ResultNegative, ResultNoAnswer:
		return true
	}
	return false
}

func (r *Result) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*int)(r), func() bool { return r.Valid() }, "result")
}

// unmarshalEnum decodes an integer code and rejects values outside the closed set
func unmarshalEnum(data []byte, dst *int, valid func() bool, name string) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if !valid() {
		return fmt.Errorf("%w: %s %d", ErrUnknownEnum, name, *dst)
	}
	return nil
}
