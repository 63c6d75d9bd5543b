package friendship

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/porpartes/porpartes/pkg/middleware"
	"github.com/porpartes/porpartes/pkg/response"
)

// Handler handles HTTP requests for friend request operations
type Handler struct {
	service *Service
}

// NewHandler creates a new friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friendship endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Send)
	r.Put("/{id}", h.Respond)
	r.Delete("/{id}", h.Cancel)

	r.Get("/received/{userId}", h.ListReceived)
	r.Get("/sent/{userId}", h.ListSent)
	r.Get("/friends/{userId}", h.ListFriends)

	return r
}

// Send handles POST /friend-requests
// @Summary      Send a friend request
// @Tags         friend-requests
// @Accept       json
// @Produce      json
// @Param        request body SendRequest true "Friend request"
// @Success      201 {object} response.APIResponse{data=FriendRequest}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friend-requests [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.RequesterID == 0 || req.RecipientID == 0 {
		response.BadRequest(w, "requester_id and recipient_id are required")
		return
	}

	fr, err := h.service.Send(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, fr)
}

// Respond handles PUT /friend-requests/{id}
// @Summary      Accept or reject a friend request
// @Description  Recipient only. Rejection removes the request.
// @Tags         friend-requests
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID"
// @Param        request body RespondRequest true "accept or reject"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /friend-requests/{id} [put]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
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

	fr, err := h.service.Respond(r.Context(), id, actorID, req.Action)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if fr == nil {
		response.JSON(w, http.StatusOK, map[string]string{"message": "Friend request rejected"})
		return
	}
	response.JSON(w, http.StatusOK, fr)
}

// Cancel handles DELETE /friend-requests/{id}
// @Summary      Cancel a sent friend request
// @Description  Requester only; pending requests only.
// @Tags         friend-requests
// @Produce      json
// @Param        id path int true "Request ID"
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /friend-requests/{id} [delete]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Acting user is required")
		return
	}

	if err := h.service.Cancel(r.Context(), id, actorID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friend request cancelled"})
}

// ListReceived handles GET /friend-requests/received/{userId}
// @Summary      List incoming pending friend requests
// @Tags         friend-requests
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]FriendRequest}
// @Router       /friend-requests/received/{userId} [get]
func (h *Handler) ListReceived(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.service.ListReceived)
}

// ListSent handles GET /friend-requests/sent/{userId}
// @Summary      List outgoing pending friend requests
// @Tags         friend-requests
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]FriendRequest}
// @Router       /friend-requests/sent/{userId} [get]
func (h *Handler) ListSent(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.service.ListSent)
}

func (h *Handler) listFor(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID int64) ([]*FriendRequest, error)) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	requests, err := list(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, requests)
}

// ListFriends handles GET /friend-requests/friends/{userId}
// @Summary      List a user's friends
// @Tags         friend-requests
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]Friend}
// @Failure      404 {object} response.APIResponse
// @Router       /friend-requests/friends/{userId} [get]
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	friends, err := h.service.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, friends)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotRecipient), errors.Is(err, ErrNotRequester):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrAlreadyPending):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrSelfRequest), errors.Is(err, ErrNotPending), errors.Is(err, ErrUnknownAction):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
