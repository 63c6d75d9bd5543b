package invitation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/porpartes/porpartes/pkg/middleware"
	"github.com/porpartes/porpartes/pkg/response"
)

// Handler handles HTTP requests for group invitation operations
type Handler struct {
	service *Service
}

// NewHandler creates a new invitation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for invitation endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Put("/{id}", h.Respond)

	r.Get("/user/{userId}", h.ListByInvitee)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /invitations
// @Summary      Invite a user to a group
// @Description  The inviter must be a member of the group.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        request body CreateInvitationRequest true "Invitation"
// @Success      201 {object} response.APIResponse{data=Invitation}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /invitations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == 0 || req.InviterID == 0 || req.InviteeID == 0 {
		response.BadRequest(w, "group_id, inviter_id and invitee_id are required")
		return
	}

	inv, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, inv)
}

// Respond handles PUT /invitations/{id}
// @Summary      Accept or reject a group invitation
// @Description  Invitee only. Accepting joins the group; rejecting removes the invitation.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id path int true "Invitation ID"
// @Param        request body RespondRequest true "accept or reject"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /invitations/{id} [put]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invitation ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Acting user is required")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.service.Respond(r.Context(), id, actorID, req.Action)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if inv == nil {
		response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation rejected"})
		return
	}
	response.JSON(w, http.StatusOK, inv)
}

// ListByInvitee handles GET /invitations/user/{userId}
// @Summary      List pending invitations for a user
// @Tags         invitations
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]Invitation}
// @Failure      404 {object} response.APIResponse
// @Router       /invitations/user/{userId} [get]
func (h *Handler) ListByInvitee(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	invitations, err := h.service.ListByInvitee(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, invitations)
}

// ListByGroup handles GET /invitations/group/{groupId}
// @Summary      List pending invitations for a group
// @Tags         invitations
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]Invitation}
// @Failure      404 {object} response.APIResponse
// @Router       /invitations/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	invitations, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, invitations)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvitationNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrNotInvitee):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrAlreadyInvited):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrUnknownAction):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
