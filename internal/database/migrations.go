package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the workflow queries filter on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Waiting room lookups by user and by room
		{"waiting_room_entries", "idx_wr_entries_user_status", "user_id, status"},
		{"waiting_room_entries", "idx_wr_entries_room_status", "waiting_room_id, status"},

		// Active membership lookups
		{"team_memberships", "idx_team_memberships_user_left", "user_id, date_left"},

		// Assignment conflict checks and active challenge lookups
		{"team_challenges", "idx_team_challenges_team_active", "team_id, iscompleted, created_at"},
		{"team_challenges", "idx_team_challenges_challenge_active", "challenge_id, iscompleted"},

		// Ledger sums
		{"user_contributions", "idx_user_contributions_tc_journey", "team_challenge_id, journey_type"},

		// Active league window
		{"league_rooms", "idx_league_rooms_created_at", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("created index")
	}

	return nil
}
