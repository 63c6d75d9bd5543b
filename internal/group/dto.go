package group

import "time"

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name          string  `json:"name"`
	CreatorID     int64   `json:"creator_id"`
	Currency      string  `json:"currency,omitempty"`
	InviteUserIDs []int64 `json:"invite_user_ids,omitempty"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name     *string `json:"name,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	CreatorID    int64             `json:"creator_id"`
	CreatorName  string            `json:"creator_name,omitempty"`
	Currency     string            `json:"currency"`
	Members      []*MemberResponse `json:"members"`
	MembersCount int               `json:"members_count"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

// MemberResponse represents a group member in a response
type MemberResponse struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	members := make([]*MemberResponse, len(g.Members))
	for i, m := range g.Members {
		members[i] = &MemberResponse{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		}
	}

	return &GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		CreatorID:    g.CreatorID,
		CreatorName:  g.CreatorName,
		Currency:     g.Currency,
		Members:      members,
		MembersCount: len(members),
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    g.UpdatedAt.Format(time.RFC3339),
	}
}
