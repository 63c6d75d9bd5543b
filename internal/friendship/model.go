package friendship

import "time"

// Status represents the state of a friend request
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	RecipientID int64     `json:"recipient_id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated via JOIN
	RequesterName  string `json:"requester_name,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty"`
}

// Friend is one entry in a user's friend list, derived from accepted
// requests in either direction
type Friend struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SendRequest represents the request to send a friend request
type SendRequest struct {
	RequesterID int64 `json:"requester_id"`
	RecipientID int64 `json:"recipient_id"`
}

// RespondRequest represents accepting or rejecting a friend request
type RespondRequest struct {
	Action string `json:"action"` // accept or reject
}
