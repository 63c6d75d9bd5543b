package group

import "time"

// Group represents a group of users sharing expenses
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatorID int64     `json:"creator_id"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated via JOIN
	CreatorName string    `json:"creator_name,omitempty"`
	Members     []*Member `json:"members,omitempty"`
}

// Member represents a user's membership in a group
type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshot is the read-mostly view of a group the expense engine consumes:
// identity, currency and the current member set, fetched fresh per operation.
type Snapshot struct {
	ID        int64
	Name      string
	Currency  string
	MemberIDs []int64
}

// HasMember reports whether the user is currently a member
func (s *Snapshot) HasMember(userID int64) bool {
	for _, id := range s.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
