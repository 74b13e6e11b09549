package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"

	"github.com/thenoetrevino/funil/internal/types"
)

// Card is an opportunity displayed on the pipeline board.
// Only identity and the few fields the board renders are typed; everything else the
// backend sends is kept in Extra and written back untouched.
type Card struct {
	ID             types.OpportunityID
	Title          string
	ClientID       types.ClientID
	ClientName     string
	Phone          string // cli_fone1, used by the WhatsApp quick action
	LastContact    string // display only, format owned by the backend
	EstimatedValue float64
	Extra          map[string]any
}

// wire keys of the fields Card interprets
const (
	keyOpportunityID  = "oportunidade_id"
	keyTitle          = "titulo"
	keyClientID       = "cli_codigo"
	keyClientName     = "cli_nome"
	keyPhone          = "cli_fone1"
	keyLastContact    = "data_ultima_interacao"
	keyEstimatedValue = "valor_estimado"
)

// UnmarshalJSON decodes an opportunity item from GET /crm/pipeline
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var id int
	if err := decodeKey(raw, keyOpportunityID, &id); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("opportunity without %s", keyOpportunityID)
	}
	*c = Card{ID: types.OpportunityID(id)}

	var clientID int
	if err := decodeKey(raw, keyClientID, &clientID); err != nil {
		return err
	}
	c.ClientID = types.ClientID(clientID)

	for key, dst := range map[string]*string{
		keyTitle:       &c.Title,
		keyClientName:  &c.ClientName,
		keyPhone:       &c.Phone,
		keyLastContact: &c.LastContact,
	} {
		if err := decodeKey(raw, key, dst); err != nil {
			return err
		}
	}

	value, err := decodeNumber(raw[keyEstimatedValue])
	if err != nil {
		return fmt.Errorf("%s: %w", keyEstimatedValue, err)
	}
	c.EstimatedValue = value

	for _, key := range []string{keyOpportunityID, keyTitle, keyClientID, keyClientName, keyPhone, keyLastContact, keyEstimatedValue} {
		delete(raw, key)
	}
	if len(raw) > 0 {
		c.Extra = make(map[string]any, len(raw))
		for key, value := range raw {
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Extra[key] = v
		}
	}
	return nil
}

// MarshalJSON writes the card back in the backend's shape, extra fields included
func (c Card) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+7)
	maps.Copy(out, c.Extra)
	out[keyOpportunityID] = int(c.ID)
	out[keyTitle] = c.Title
	out[keyClientID] = int(c.ClientID)
	out[keyClientName] = c.ClientName
	out[keyPhone] = c.Phone
	out[keyLastContact] = c.LastContact
	out[keyEstimatedValue] = c.EstimatedValue
	return json.Marshal(out)
}

// clone copies the card including its opaque payload map
func (c Card) clone() Card {
	if c.Extra != nil {
		c.Extra = maps.Clone(c.Extra)
	}
	return c
}

// decodeKey decodes raw[key] into dst, leaving dst untouched for absent or null keys
func decodeKey(raw map[string]json.RawMessage, key string, dst any) error {
	value, ok := raw[key]
	if !ok || string(value) == "null" {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// decodeNumber accepts numbers and numeric strings; Postgres numeric columns arrive as strings
func decodeNumber(value json.RawMessage) (float64, error) {
	if len(value) == 0 || string(value) == "null" {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(value, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
