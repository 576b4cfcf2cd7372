package dto

import (
	"time"

	"github.com/yukikurage/stride-league-api/internal/models"
)

// WaitingRoomResponse is returned when a user creates or joins a waiting room
type WaitingRoomResponse struct {
	Message       string    `json:"message"`
	WaitingRoomID uint64    `json:"waiting_room_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// TeamDTO represents a team with its active members
type TeamDTO struct {
	ID            uint64    `json:"team_id"`
	Name          string    `json:"team_name"`
	LeagueRoomID  uint64    `json:"league_room_id"`
	CurrentStreak int       `json:"current_streak"`
	Members       []UserDTO `json:"members"`
}

// LeagueFormationResponse is returned by create_league_room
type LeagueFormationResponse struct {
	LeagueRoomID   uint64    `json:"league_room_id"`
	LeagueRoomName string    `json:"league_room_name"`
	TeamCount      int       `json:"team_count"`
	Teams          []TeamDTO `json:"teams"`
}

// LeagueTeamsResponse is returned by get_league_teams
type LeagueTeamsResponse struct {
	Teams   []TeamDTO `json:"teams"`
	OwnerID *uint64   `json:"owner_id"`
}

// ActiveLeagueResponse is returned by get_active_league_room_id
type ActiveLeagueResponse struct {
	LeagueRoomID  *uint64    `json:"league_room_id"`
	WaitingRoomID *uint64    `json:"waiting_room_id,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// ToTeamDTO converts a team and its loaded memberships to DTO
func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]UserDTO, 0, len(team.Memberships))
	for _, m := range team.Memberships {
		if m.DateLeft != nil {
			continue
		}
		member := ToMemberDTO(m.User)
		member.ID = m.UserID
		members = append(members, member)
	}
	return TeamDTO{
		ID:            team.ID,
		Name:          team.Name,
		LeagueRoomID:  team.LeagueRoomID,
		CurrentStreak: team.CurrentStreak,
		Members:       members,
	}
}

// ToTeamDTOs converts teams to DTOs
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	result := make([]TeamDTO, len(teams))
	for i, t := range teams {
		result[i] = ToTeamDTO(t)
	}
	return result
}
