package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/porpartes/porpartes/internal/expense/split"
	"github.com/porpartes/porpartes/pkg/middleware"
	"github.com/porpartes/porpartes/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListAll)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/user/{userId}", h.ListByUser)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense split EQUAL across the group's members or MANUAL from supplied shares
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := missingCreateFields(&req); len(details) > 0 {
		response.ValidationFailed(w, "Missing or invalid required fields", details)
		return
	}

	e, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

func missingCreateFields(req *CreateExpenseRequest) map[string]string {
	details := map[string]string{}
	if req.GroupID == 0 {
		details["group_id"] = "group_id is required"
	}
	if req.Name == "" {
		details["name"] = "name is required"
	}
	if req.Total == 0 {
		details["total"] = "total is required and must be greater than zero"
	}
	if req.PayerID == 0 {
		details["payer_id"] = "payer_id is required"
	}
	if req.SplitType == "" {
		details["split_type"] = "split_type is required"
	}
	return details
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense with its shares, payer and group details
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Update handles PUT /expenses/{id}
// @Summary      Update an expense
// @Description  Update name, date, total, split type or shares, or remove one participant from the split. Only the payer or an administrator may update.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Fields to change, or remove_participant_id"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Acting user is required")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), id, actorID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Permanently delete an expense. Only the payer or an administrator may delete.
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Acting user is required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actorID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Description  Get a group's expenses, most recent first
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	expenses, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(expenses))
}

// ListByUser handles GET /expenses/user/{userId}
// @Summary      List a user's expenses
// @Description  Get the expenses of every group the user belongs to, most recent first
// @Tags         expenses
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/user/{userId} [get]
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	expenses, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(expenses))
}

// ListAll handles GET /expenses
// @Summary      List all expenses
// @Description  Get every expense in the system, most recent first. Administrators only.
// @Tags         expenses
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /expenses [get]
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Acting user is required")
		return
	}

	expenses, err := h.service.ListAll(r.Context(), actorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(expenses))
}

func toResponses(expenses []*Expense) []*ExpenseResponse {
	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}
	return out
}

// writeServiceError translates engine and calculator errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	var mismatch *split.MismatchError
	var nonMember *split.NonMemberError

	switch {
	case errors.Is(err, ErrExpenseNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrGroupGone),
		errors.Is(err, ErrPayerNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrParticipantNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrPayerNotMember),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrAdminOnly):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidSplitType),
		errors.Is(err, split.ErrNonPositiveTotal),
		errors.Is(err, split.ErrNoMembers),
		errors.Is(err, split.ErrInvalidShare):
		response.BadRequest(w, err.Error())
	case errors.As(err, &mismatch), errors.As(err, &nonMember):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
