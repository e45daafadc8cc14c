package sessions

import (
	"github.com/gongxings/ai-creator/internal/utils"
	"github.com/gongxings/ai-creator/users"
)

// Session is the authenticated identity of the running client.
// AccessToken is non-empty iff the client is logged in. User may lag behind a
// fresh login but is never set while AccessToken is empty.
type Session struct {
	AccessToken  string         // Bearer token attached to API requests
	RefreshToken string         // Exchanged for a new access token via /v1/auth/refresh
	User         *users.Profile // Cached profile, nil until fetched
}

func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

func (s Session) clone() Session {
	s.User = utils.Clone(s.User)
	return s
}
