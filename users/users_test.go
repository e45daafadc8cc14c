package users_test

import (
	"encoding/json"
	"testing"

	"github.com/gongxings/ai-creator/internal/utils"
	"github.com/gongxings/ai-creator/users"
	"github.com/stretchr/testify/require"
)

func TestProfile_IsAdmin(t *testing.T) {
	var nilProfile *users.Profile
	require.False(t, nilProfile.IsAdmin())
	require.False(t, (&users.Profile{Role: users.RoleUser}).IsAdmin())
	require.False(t, (&users.Profile{Role: users.RoleVIP}).IsAdmin())
	require.True(t, (&users.Profile{Role: users.RoleAdmin}).IsAdmin())
}

func TestProfile_WithBalance(t *testing.T) {
	p := users.Profile{ID: 7, Username: "u7", Role: users.RoleVIP, Credits: 10}
	expiry := "2027-01-01T00:00:00"

	updated := p.WithBalance(users.Balance{Credits: 250, IsMember: true, MemberExpiredAt: &expiry})

	require.Equal(t, int64(7), updated.ID)
	require.Equal(t, "u7", updated.Username)
	require.Equal(t, users.RoleVIP, updated.Role)
	require.Equal(t, 250, updated.Credits)
	require.True(t, updated.IsMember)
	require.Equal(t, expiry, *updated.MemberExpiredAt)
	require.Equal(t, 10, p.Credits, "original must not change")
}

func TestProfile_DisplayName(t *testing.T) {
	p := &users.Profile{Username: "writer"}
	require.Equal(t, "writer", p.DisplayName())

	p.Nickname = utils.Ptr("Quill")
	require.Equal(t, "Quill", p.DisplayName())
}

func TestProfile_DecodeBackendShape(t *testing.T) {
	raw := `{"id":1,"username":"u1","email":"u1@example.com","role":"user","status":"active",
		"credits":5,"is_member":false,"member_expired_at":null,"daily_quota":100,"used_quota":3,
		"created_at":"2024-01-01T00:00:00"}`

	var p users.Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, users.RoleUser, p.Role)
	require.Equal(t, users.StatusActive, p.Status)
	require.Nil(t, p.MemberExpiredAt)
	require.Equal(t, 100, p.DailyQuota)
}
