package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/service/invitations"
)

type InvitationHandler struct {
	Service *invitations.Service
}

// NewInvitationHandler creates a new instance of InvitationHandler.
func NewInvitationHandler(service *invitations.Service) *InvitationHandler {
	return &InvitationHandler{Service: service}
}

type inviteRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	ProjectID string `json:"projectId"`
}

// Invite handles POST /users/invite (admin only, enforced by the route).
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	inv, err := h.Service.Create(req.Email, models.InvitationRole(req.Role), req.ProjectID)
	if err != nil {
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"message":      "Invitation email sent",
		"invitationId": inv.ID,
	})
}

type acceptInvitationRequest struct {
	InvitationID string `json:"invitationId"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// AcceptInvitation handles POST /auth/accept-invitation. Conflicts
// (already accepted, username or email taken) surface as 400 to keep
// the public surface of the original API.
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.InvitationID == "" || req.Username == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		respondWithError(w, http.StatusBadRequest, "invitationId, username, password, firstName, lastName are required")
		return
	}

	userID, err := h.Service.Accept(invitations.AcceptParams{
		InvitationID: req.InvitationID,
		Username:     req.Username,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, apperrors.ErrConflict):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "Account successfully created",
		"userId":  userID,
	})
}
