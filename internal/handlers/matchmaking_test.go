package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/stride-league-api/internal/models"
)

// formLeague queues users into one waiting room and turns it into a league.
func formLeague(t *testing.T, env testEnv, users []models.User) map[string]interface{} {
	t.Helper()

	w := env.post(t, "/create_waiting_room", map[string]uint64{"userId": users[0].ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	roomID := decode(t, w)["waiting_room_id"].(float64)

	for _, u := range users[1:] {
		w = env.post(t, "/join_waiting_room", map[string]interface{}{"userId": u.ID, "waitingRoomId": roomID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.post(t, "/create_league_room", map[string]interface{}{"user_id": users[0].ID, "league_room_name": "Morning Milers"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestMatchmakingHandler_WaitingRoomConflict(t *testing.T) {
	env := setupTestEnv(t)
	users := env.createUsers(t, 2)

	w := env.post(t, "/create_waiting_room", map[string]uint64{"userId": users[0].ID})
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := decode(t, w)["waiting_room_id"]

	w = env.post(t, "/create_waiting_room", map[string]uint64{"userId": users[0].ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ALREADY_IN_WAITING_ROOM", body["code"])
	assert.Equal(t, roomID, body["waiting_room_id"])

	w = env.post(t, "/join_waiting_room", map[string]interface{}{"userId": users[0].ID, "waitingRoomId": roomID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.post(t, "/join_waiting_room", map[string]interface{}{"userId": users[1].ID, "waitingRoomId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.post(t, "/get_waiting_room_id", map[string]uint64{"userId": users[0].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roomID, decode(t, w)["waiting_room_id"])

	w = env.post(t, "/get_waiting_room_id", map[string]uint64{"userId": users[1].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["waiting_room_id"])

	w = env.post(t, "/create_waiting_room", map[string]uint64{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"userId is required and must be a positive integer"}, decode(t, w)["details"])
}

func TestMatchmakingHandler_FormLeague(t *testing.T) {
	env := setupTestEnv(t)
	users := env.createUsers(t, 4)

	league := formLeague(t, env, users)
	assert.Equal(t, "Morning Milers", league["league_room_name"])
	assert.Equal(t, float64(2), league["team_count"])
	leagueID := league["league_room_id"]

	teams := league["teams"].([]interface{})
	require.Len(t, teams, 2)
	first := teams[0].(map[string]interface{})
	assert.Equal(t, "A & B", first["team_name"])
	assert.Len(t, first["members"], 2)

	w := env.post(t, "/get_waiting_room_users", map[string]interface{}{"waiting_room_id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var roomUsers []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roomUsers))
	assert.Len(t, roomUsers, 4)

	w = env.post(t, "/get_active_league_room_id", map[string]uint64{"user_id": users[3].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, leagueID, decode(t, w)["league_room_id"])

	w = env.post(t, "/get_league_teams", map[string]interface{}{"league_room_id": leagueID})
	require.Equal(t, http.StatusOK, w.Code)
	roster := decode(t, w)
	assert.Len(t, roster["teams"], 2)
	assert.Equal(t, float64(users[0].ID), roster["owner_id"])

	w = env.post(t, "/end_league_room", map[string]interface{}{"league_room_id": leagueID})
	require.Equal(t, http.StatusOK, w.Code)
	ended := decode(t, w)
	assert.Equal(t, "League room ended successfully", ended["message"])
	assert.Equal(t, float64(4), ended["memberships_closed"])

	w = env.post(t, "/end_league_room", map[string]interface{}{"league_room_id": leagueID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "League room has already ended", decode(t, w)["message"])

	w = env.post(t, "/get_active_league_room_id", map[string]uint64{"user_id": users[3].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["league_room_id"])
}

func TestMatchmakingHandler_OddParticipantsRejected(t *testing.T) {
	env := setupTestEnv(t)
	users := env.createUsers(t, 3)

	w := env.post(t, "/create_waiting_room", map[string]uint64{"userId": users[0].ID})
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := decode(t, w)["waiting_room_id"]
	for _, u := range users[1:] {
		w = env.post(t, "/join_waiting_room", map[string]interface{}{"userId": u.ID, "waitingRoomId": roomID})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = env.post(t, "/create_league_room", map[string]interface{}{"user_id": users[0].ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.post(t, "/get_active_league_room_id", map[string]uint64{"user_id": users[0].ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["league_room_id"])
}

func TestMatchmakingHandler_CreateTeam(t *testing.T) {
	env := setupTestEnv(t)
	users := env.createUsers(t, 4)
	league := formLeague(t, env, users[:2])

	w := env.post(t, "/create_team", map[string]interface{}{
		"user_ids":       []uint64{users[2].ID, users[3].ID},
		"league_room_id": league["league_room_id"],
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	team := decode(t, w)
	assert.Equal(t, "C & D", team["team_name"])

	w = env.post(t, "/create_team", map[string]interface{}{
		"user_ids":       []uint64{users[2].ID},
		"league_room_id": league["league_room_id"],
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.post(t, "/create_team", map[string]interface{}{
		"user_ids":       []uint64{users[2].ID},
		"league_room_id": 999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid league_room_id. League room not found.", decode(t, w)["error"])

	w = env.post(t, "/create_team", map[string]interface{}{"user_ids": []uint64{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode(t, w)["details"], 2)
}
