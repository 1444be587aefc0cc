package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/services"
)

// AccountProvider is the account surface the handlers need. Satisfied by
// services.AccountService.
type AccountProvider interface {
	Register(ctx context.Context, email, personName, phoneNumber, password string) (*services.AuthenticationResponse, error)
	Login(ctx context.Context, email, password string) (*services.AuthenticationResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	IsEmailRegistered(ctx context.Context, email string) (bool, error)
}

type authenticationBody struct {
	Token                  string    `json:"token"`
	Email                  string    `json:"email"`
	PersonName             string    `json:"personName"`
	Expiration             time.Time `json:"expiration"`
	RefreshToken           string    `json:"refreshToken"`
	RefreshTokenExpiration time.Time `json:"refreshTokenExpirationDateTime"`
}

func toAuthenticationBody(resp *services.AuthenticationResponse) authenticationBody {
	return authenticationBody{
		Token:                  resp.Token,
		Email:                  resp.Email,
		PersonName:             resp.PersonName,
		Expiration:             resp.Expiration,
		RefreshToken:           resp.RefreshToken,
		RefreshTokenExpiration: resp.RefreshTokenExpiration,
	}
}

type accountHandler struct {
	accounts AccountProvider
}

type registerRequest struct {
	PersonName  string `json:"personName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (h *accountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}
	if req.Email == "" || req.PersonName == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: personName, email and password are required", common.ErrorValidation))
		return
	}

	resp, err := h.accounts.Register(r.Context(), req.Email, req.PersonName, req.PhoneNumber, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthenticationBody(resp))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *accountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	resp, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthenticationBody(resp))
}

// checkEmail reports availability: true means no account uses the address.
func (h *accountHandler) checkEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, fmt.Errorf("%w: email is required", common.ErrorValidation))
		return
	}

	registered, err := h.accounts.IsEmailRegistered(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, !registered)
}

func (h *accountHandler) logout(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get(common.RefreshTokenHeaderName)
	if refreshToken != "" {
		if err := h.accounts.Logout(r.Context(), refreshToken); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
