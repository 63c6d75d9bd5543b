package invitation

import "time"

// Status represents the lifecycle state of a group invitation
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
)

// Invitation represents a pending or accepted invitation to join a group
type Invitation struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	InviterID int64     `json:"inviter_id"`
	InviteeID int64     `json:"invitee_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields for display
	GroupName   string `json:"group_name,omitempty"`
	InviterName string `json:"inviter_name,omitempty"`
	InviteeName string `json:"invitee_name,omitempty"`
}

// CreateInvitationRequest represents the request body for inviting a user to a group
type CreateInvitationRequest struct {
	GroupID   int64 `json:"group_id"`
	InviterID int64 `json:"inviter_id"`
	InviteeID int64 `json:"invitee_id"`
}

// RespondRequest represents the request body for answering an invitation
type RespondRequest struct {
	Action string `json:"action"` // "accept" or "reject"
}
