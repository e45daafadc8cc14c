package users

// RoleType is the account role reported by the backend
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleVIP   RoleType = "vip"
	RoleAdmin RoleType = "admin" // Can open the operation pages (activities, coupons, referral, statistics)
)

type StatusType string

const (
	StatusActive   StatusType = "active"
	StatusInactive StatusType = "inactive"
	StatusBanned   StatusType = "banned"
)

// Profile is the cached view of the logged in user, as returned by GET /v1/auth/me.
type Profile struct {
	ID       int64      `json:"id"`                 // Backend user ID
	Username string     `json:"username"`          // Login name
	Email    string     `json:"email,omitempty"`    // Account email
	Nickname *string    `json:"nickname,omitempty"` // Display name
	Avatar   *string    `json:"avatar,omitempty"`   // Avatar URL
	Phone    *string    `json:"phone,omitempty"`    // Phone number
	Role     RoleType   `json:"role"`               // user, vip or admin
	Status   StatusType `json:"status,omitempty"`   // Account status
	IsActive *bool      `json:"is_active,omitempty"`

	// Economic fields, also refreshed on their own through Balance
	Credits         int     `json:"credits"`
	IsMember        bool    `json:"is_member"`
	MemberExpiredAt *string `json:"member_expired_at,omitempty"`

	DailyQuota     int    `json:"daily_quota,omitempty"`
	UsedQuota      int    `json:"used_quota,omitempty"`
	TotalCreations int    `json:"total_creations,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Balance is the mutable economic subset of a Profile, as returned by GET /v1/credit/balance.
type Balance struct {
	Credits         int     `json:"credits"`
	IsMember        bool    `json:"is_member"`
	MemberExpiredAt *string `json:"member_expired_at"`
}

// IsAdmin returns true if the user has the administrator role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Profile) HasRole(role RoleType) bool {
	return p != nil && p.Role == role
}

// DisplayName prefers the nickname and falls back to the username
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	return p.Username
}

// WithBalance returns a copy of the profile with the economic fields replaced.
// Identity fields are never touched.
func (p Profile) WithBalance(b Balance) Profile {
	p.Credits = b.Credits
	p.IsMember = b.IsMember
	p.MemberExpiredAt = b.MemberExpiredAt
	return p
}

// Balance extracts the economic subset of the profile
func (p *Profile) Balance() Balance {
	if p == nil {
		return Balance{}
	}
	return Balance{
		Credits:         p.Credits,
		IsMember:        p.IsMember,
		MemberExpiredAt: p.MemberExpiredAt,
	}
}
