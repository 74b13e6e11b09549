package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

const pipelineBody = `{"success":true,"data":[
 {"etapa_id":1,"nome":"Novo","items":[
   {"oportunidade_id":10,"titulo":"Lote A","cli_codigo":7,"cli_nome":"Acme","cli_fone1":"(11) 98765-4321","valor_estimado":"1500.50","prioridade":"alta"}
 ]},
 {"etapa_id":2,"nome":"Em Negociação","items":null}
]}`

// newTestAPI starts a fake backend and returns a typed client pointed at it
func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(gateway.NewClient(srv.URL, gateway.NewSession("acme", "tok")))
}

func TestPipeline_DecodesEnvelope(t *testing.T) {
	var query string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathPipeline, r.URL.Path)
		query = r.URL.RawQuery
		_, _ = io.WriteString(w, pipelineBody)
	})

	snap, err := c.Pipeline(context.Background(), types.SellerID(3))
	require.NoError(t, err)
	assert.Equal(t, "ven_codigo=3", query)
	require.Len(t, snap.Stages, 2)
	assert.Equal(t, "Em Negociação", snap.Stages[1].Label)
	assert.NotNil(t, snap.Stages[1].Cards, "null items must decode to an empty column")

	card := snap.Stages[0].Cards[0]
	assert.Equal(t, types.OpportunityID(10), card.ID)
	assert.Equal(t, "Acme", card.ClientName)
	assert.InDelta(t, 1500.50, card.EstimatedValue, 0.001)
	assert.Equal(t, "alta", card.Extra["prioridade"])
}

func TestPipeline_ZeroSellerOmitsQuery(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	snap, err := c.Pipeline(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Stages)
}

func TestPipeline_SuccessFalseIsRejection(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"vendedor inválido"}`)
	})
	_, err := c.Pipeline(context.Background(), 1)

	var rej *gateway.ServerRejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusOK, rej.Status)
	assert.Equal(t, "vendedor inválido", rej.Message)
}

func TestPipeline_DuplicateCardIsInvalid(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"etapa_id":1,"nome":"A","items":[{"oportunidade_id":1}]},
			{"etapa_id":2,"nome":"B","items":[{"oportunidade_id":1}]}]}`)
	})
	_, err := c.Pipeline(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrDuplicateCard)
}

func TestMoveOpportunity(t *testing.T) {
	var got MoveRequest
	var path, method string
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, c.MoveOpportunity(context.Background(), 42, 5))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/crm/oportunidades/42/move", path)
	assert.Equal(t, types.StageID(5), got.StageID)
}

func TestMoveOpportunity_Failures(t *testing.T) {
	t.Run("success false", func(t *testing.T) {
		c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":false}`)
		})
		err := c.MoveOpportunity(context.Background(), 1, 2)
		assert.True(t, gateway.IsRejection(err))
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
		})
		err := c.MoveOpportunity(context.Background(), 1, 2)
		var rej *gateway.ServerRejection
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, http.StatusInternalServerError, rej.Status)
	})
}

func TestRecordInteraction_OpaqueResponse(t *testing.T) {
	var got map[string]any
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathInteractions, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `"ok"`)
	})

	err := c.RecordInteraction(context.Background(), models.Interaction{
		ClientID:      7,
		SellerID:      3,
		OpportunityID: 10,
		Type:          models.InteractionContact,
		Channel:       models.ChannelWhatsApp,
		Result:        models.ResultPending,
		Description:   "WhatsApp",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, got["oportunidade_id"])
	assert.EqualValues(t, 2, got["canal_id"])
}

func TestStats(t *testing.T) {
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathStatsPrefix + StatsTeam:
			_, _ = io.WriteString(w, `{"success":true,"data":[{"ven_codigo":1,"ven_nome":"Ana","total":4}]}`)
		case PathStatsPrefix + StatsIndustries:
			_, _ = io.WriteString(w, `{"success":true,"data":[{"for_codigo":9,"for_nomered":"Forte","total":3,"percentual":"37.5"}]}`)
		case PathStatsPrefix + StatsBirthdays:
			_, _ = io.WriteString(w, `{"success":true,"data":[{"cli_codigo":7,"cli_nome":"Acme","aniversario":"2026-10-20","cli_fone1":"11999990000"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	team, err := c.TeamStats(ctx)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "Ana", team[0].SellerName)

	industries, err := c.IndustryStats(ctx)
	require.NoError(t, err)
	require.Len(t, industries, 1)
	assert.InDelta(t, 37.5, float64(industries[0].Share), 0.001)

	birthdays, err := c.Birthdays(ctx)
	require.NoError(t, err)
	require.Len(t, birthdays, 1)
	assert.Equal(t, "2026-10-20", birthdays[0].Date)
}

func TestRecordInteraction_ValidatesBeforeSending(t *testing.T) {
	called := false
	c := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	err := c.RecordInteraction(context.Background(), models.Interaction{SellerID: 1, Type: models.InteractionContact})
	require.Error(t, err)
	assert.False(t, called)
}
