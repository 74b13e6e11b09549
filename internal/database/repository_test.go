package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database with the schema and seed data applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stageCards(stages []*models.Stage, id types.StageID) []types.OpportunityID {
	for _, s := range stages {
		if s.ID == id {
			out := []types.OpportunityID{}
			for _, c := range s.Cards {
				out = append(out, c.ID)
			}
			return out
		}
	}
	return nil
}

// ============================================================================
// MIGRATIONS
// ============================================================================

func TestMigrations_Version(t *testing.T) {
	db := setupTestDB(t)

	version, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
}

// ============================================================================
// PIPELINE
// ============================================================================

func TestPipeline_SellerScope(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	stages, err := repo.Pipeline(ctx, 1)
	if err != nil {
		t.Fatalf("Pipeline() failed: %v", err)
	}
	if len(stages) != 5 {
		t.Fatalf("got %d stages, want 5", len(stages))
	}
	if stages[0].Label != "Novo" || stages[1].Label != "Em Negociação" {
		t.Errorf("unexpected stage order: %s, %s", stages[0].Label, stages[1].Label)
	}
	if got := stageCards(stages, 1); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("seller 1 Novo = %v, want [1 2]", got)
	}
	if stages[4].Cards == nil {
		t.Error("empty stages must have a non-nil card list")
	}

	card := stages[0].Cards[0]
	if card.ClientName != "Mercado Central" || card.Phone == "" || card.EstimatedValue != 12500 {
		t.Errorf("unexpected card: %+v", card)
	}
	if card.LastContact == "" {
		t.Error("expected last contact from the seeded interaction")
	}
	if card.Extra["ven_codigo"] != 1 {
		t.Errorf("Extra[ven_codigo] = %v, want 1", card.Extra["ven_codigo"])
	}

	all, err := repo.Pipeline(ctx, 0)
	if err != nil {
		t.Fatalf("Pipeline(0) failed: %v", err)
	}
	if got := stageCards(all, 1); len(got) != 3 {
		t.Errorf("all sellers Novo = %v, want 3 cards", got)
	}
}

func TestMoveOpportunity(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.MoveOpportunity(ctx, 1, 2); err != nil {
		t.Fatalf("MoveOpportunity() failed: %v", err)
	}
	stages, err := repo.Pipeline(ctx, 1)
	if err != nil {
		t.Fatalf("Pipeline() failed: %v", err)
	}
	if got := stageCards(stages, 2); len(got) != 2 {
		t.Errorf("Em Negociação = %v, want 2 cards", got)
	}

	if err := repo.MoveOpportunity(ctx, 1, 99); !errors.Is(err, ErrStageNotFound) {
		t.Errorf("unknown stage error = %v, want ErrStageNotFound", err)
	}
	if err := repo.MoveOpportunity(ctx, 999, 2); !errors.Is(err, ErrOpportunityNotFound) {
		t.Errorf("unknown opportunity error = %v, want ErrOpportunityNotFound", err)
	}
}

// ============================================================================
// INTERACTIONS & STATS
// ============================================================================

func TestRecordInteraction(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	in := models.Interaction{
		ClientID:      3,
		SellerID:      1,
		OpportunityID: 3,
		Type:          models.InteractionContact,
		Channel:       models.ChannelWhatsApp,
		Result:        models.ResultPending,
		Description:   "WhatsApp",
	}
	id, err := repo.RecordInteraction(ctx, in)
	if err != nil {
		t.Fatalf("RecordInteraction() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("id = %d, want > 0", id)
	}

	team, err := repo.TeamStats(ctx)
	if err != nil {
		t.Fatalf("TeamStats() failed: %v", err)
	}
	if team[0].SellerName != "Ana Souza" || team[0].Interactions != 3 {
		t.Errorf("top seller = %+v, want Ana Souza with 3", team[0])
	}

	in.ClientID = 404
	if _, err := repo.RecordInteraction(ctx, in); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("unknown client error = %v, want ErrClientNotFound", err)
	}
	in.ClientID = 3
	in.OpportunityID = 404
	if _, err := repo.RecordInteraction(ctx, in); !errors.Is(err, ErrOpportunityNotFound) {
		t.Errorf("unknown opportunity error = %v, want ErrOpportunityNotFound", err)
	}
}

func TestIndustryStats_Shares(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	rows, err := repo.IndustryStats(context.Background())
	if err != nil {
		t.Fatalf("IndustryStats() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d industries, want 2", len(rows))
	}
	var sum float64
	for _, r := range rows {
		sum += float64(r.Share)
	}
	if sum < 99.99 || sum > 100.01 {
		t.Errorf("shares sum to %.2f, want 100", sum)
	}
	if rows[0].IndustryName != "Metalúrgica Forte" {
		t.Errorf("top industry = %s, want Metalúrgica Forte", rows[0].IndustryName)
	}
}

func TestBirthdays_Window(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	from := time.Date(2026, time.October, 20, 15, 0, 0, 0, time.UTC)

	rows, err := repo.Birthdays(context.Background(), from, 30)
	if err != nil {
		t.Fatalf("Birthdays() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ClientName != "Padaria Estrela" || rows[0].Date != "2026-11-02" {
		t.Errorf("Birthdays() = %+v, want Padaria Estrela on 2026-11-02", rows)
	}

	// wraps into next year
	rows, err = repo.Birthdays(context.Background(), time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC), 90)
	if err != nil {
		t.Fatalf("Birthdays() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2027-03-14" {
		t.Errorf("Birthdays() across new year = %+v, want 2027-03-14", rows)
	}
}
