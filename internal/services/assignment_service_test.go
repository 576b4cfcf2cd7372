package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentService_AssignToUserTeam(t *testing.T) {
	store := newTestStore(t)
	clock := newTestClock()
	svc := NewAssignmentService(store, clock.Now)
	ctx := context.Background()
	users := createUsers(t, store, 4)

	teamA := createTeam(t, store, clock, users[0], users[1])
	teamB := createTeam(t, store, clock, users[2], users[3])
	first := createChallenge(t, store, clock, 5, 40)
	second := createChallenge(t, store, clock, 3, 22)

	tc, err := svc.AssignToUserTeam(ctx, users[0].ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, teamA.ID, tc.TeamID)
	assert.Equal(t, 1, tc.Multiplier)
	assert.False(t, tc.IsCompleted)

	// the challenge is bound to teamA until completed
	_, err = svc.AssignToUserTeam(ctx, users[2].ID, first.ID)
	assert.ErrorIs(t, err, ErrChallengeAlreadyAssigned)

	// teamA already has today's challenge
	_, err = svc.AssignToUserTeam(ctx, users[1].ID, second.ID)
	assert.ErrorIs(t, err, ErrTeamHasActiveChallenge)

	tcB, err := svc.AssignToTeam(ctx, teamB.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, teamB.ID, tcB.TeamID)
}

func TestAssignmentService_NextDayAllowed(t *testing.T) {
	store := newTestStore(t)
	clock := newTestClock()
	svc := NewAssignmentService(store, clock.Now)
	ctx := context.Background()
	users := createUsers(t, store, 2)

	team := createTeam(t, store, clock, users...)
	first := createChallenge(t, store, clock, 5, 40)
	second := createChallenge(t, store, clock, 3, 22)

	_, err := svc.AssignToTeam(ctx, team.ID, first.ID)
	require.NoError(t, err)

	clock.AddDays(1)
	tc, err := svc.AssignToTeam(ctx, team.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, tc.ChallengeID)
}

func TestAssignmentService_Errors(t *testing.T) {
	store := newTestStore(t)
	clock := newTestClock()
	svc := NewAssignmentService(store, clock.Now)
	ctx := context.Background()
	users := createUsers(t, store, 1)
	ch := createChallenge(t, store, clock, 5, 40)

	_, err := svc.AssignToUserTeam(ctx, 999, ch.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AssignToUserTeam(ctx, users[0].ID, 999)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = svc.AssignToUserTeam(ctx, users[0].ID, ch.ID)
	assert.ErrorIs(t, err, ErrNoActiveTeam)

	_, err = svc.AssignToTeam(ctx, 999, ch.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
