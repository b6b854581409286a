package userService

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// UserService handles user account operations.
type UserService struct {
	users       store.UserStore
	memberships store.MembershipStore
	Log         *logger.Logger
}

// UpdateProfileRequest is the merge patch a user may apply to their own
// account. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateUserRequest is the admin-side patch, which may also change the
// global role.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
}

// NewUserService initializes a new user service.
func NewUserService(stores *store.Stores, log *logger.Logger) *UserService {
	return &UserService{
		users:       stores.Users,
		memberships: stores.Memberships,
		Log:         log,
	}
}

// Profile handles GET /profile and GET /users/me: the caller's own record.
func (us *UserService) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, ok := us.users.FindByID(identity.UserID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /update-profile for the caller's own account.
func (us *UserService) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, ok := us.users.FindByID(identity.UserID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := applyProfilePatch(&user, req.Username, req.Email, req.FirstName, req.LastName); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := us.users.Update(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			respondWithError(w, http.StatusConflict, strings.TrimPrefix(err.Error(), apperrors.ErrConflict.Error()+": "))
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	us.Log.Info("Profile updated", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /users (admin only, enforced by the route). An
// optional ?search= filters by username or email substring.
func (us *UserService) ListUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

	users := us.users.List()
	if search == "" {
		respondWithJSON(w, http.StatusOK, users)
		return
	}

	results := []models.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), search) || strings.Contains(strings.ToLower(u.Email), search) {
			results = append(results, u)
		}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// GetUser handles GET /users/{user_id} (admin only, enforced by the route).
func (us *UserService) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := us.users.FindByID(mux.Vars(r)["user_id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /users/{user_id} (admin only, enforced by the
// route). Unlike UpdateProfile it may also change the global role.
func (us *UserService) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := us.users.FindByID(mux.Vars(r)["user_id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := applyProfilePatch(&user, req.Username, req.Email, req.FirstName, req.LastName); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Role != nil {
		role := models.GlobalRole(*req.Role)
		if !models.ValidGlobalRole(role) {
			respondWithError(w, http.StatusBadRequest, "role must be ADMIN or END_USER")
			return
		}
		user.Role = role
	}

	if err := us.users.Update(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			respondWithError(w, http.StatusConflict, strings.TrimPrefix(err.Error(), apperrors.ErrConflict.Error()+": "))
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	us.Log.Info("User updated", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{user_id} (admin only, enforced by
// the route). Deleting an account also removes its project memberships.
// Admins cannot delete themselves.
func (us *UserService) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID := mux.Vars(r)["user_id"]
	if userID == identity.UserID {
		respondWithError(w, http.StatusBadRequest, "Cannot delete yourself")
		return
	}
	if !us.users.Delete(userID) {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	removed := us.memberships.DeleteByUser(userID)
	us.Log.Info("User deleted", "user_id", userID, "memberships_removed", removed)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":            "User deleted",
		"membershipsRemoved": removed,
	})
}

// AnonymizeUser handles POST /users/{user_id}/anonymize (admin only,
// enforced by the route). The record stays but its personal fields are
// replaced with placeholders.
func (us *UserService) AnonymizeUser(w http.ResponseWriter, r *http.Request) {
	user, ok := us.users.FindByID(mux.Vars(r)["user_id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	user.Username = "anonymized_" + user.ID
	user.Email = "anonymized_" + user.ID + "@example.com"
	user.FirstName = "Anonymized"
	user.LastName = "User"

	if err := us.users.Update(user); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to anonymize user")
		return
	}

	us.Log.Info("User anonymized", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, user)
}

// applyProfilePatch merges the non-nil fields into user, rejecting
// empty username or email values.
func applyProfilePatch(user *models.User, username, email, firstName, lastName *string) (string, bool) {
	if username != nil {
		if strings.TrimSpace(*username) == "" {
			return "username must be a non-empty string", false
		}
		user.Username = strings.TrimSpace(*username)
	}
	if email != nil {
		if strings.TrimSpace(*email) == "" {
			return "email must be a non-empty string", false
		}
		user.Email = strings.ToLower(strings.TrimSpace(*email))
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	return "", true
}

// Helper functions for HTTP responses.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
