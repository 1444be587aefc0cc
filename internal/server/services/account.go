// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login, logout, and the refresh
// token rotation behind the transparent token renewal flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/auth"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticationResponse is the authenticated-session payload returned by
// registration, login, and refresh.
type AuthenticationResponse struct {
	Token                  string
	Email                  string
	PersonName             string
	Expiration             time.Time
	RefreshToken           string
	RefreshTokenExpiration time.Time
}

// AccountService provides authentication-related operations:
// - Register: create accounts and mint an initial token pair
// - Login: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout: revoke the refresh token
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
}

// NewAccountService constructs an AccountService using repositories and the
// token issuer.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *AccountService {
	return &AccountService{db: db, repomanager: m, issuer: issuer}
}

// Register creates a new account and returns an authenticated session.
// A duplicate email yields common.ErrorAlreadyExists.
func (s *AccountService) Register(ctx context.Context, email, personName, phoneNumber, password string) (*AuthenticationResponse, error) {
	exists, err := s.repomanager.Users(s.db).ExistsByEmail(ctx, email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PersonName:   personName,
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
	}

	var response *AuthenticationResponse
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		response, err = s.startSession(ctx, tx, created)
		return err
	}); err != nil {
		return nil, err
	}

	return response, nil
}

// Login verifies the password against the stored hash and, on success,
// returns an authenticated session. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthenticationResponse, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.startSession(ctx, s.db, user)
}

// Refresh exchanges a stored refresh token for a fresh token pair. The swap
// is a single compare-and-swap on the old token value, so of several
// concurrent calls presenting the same token exactly one succeeds and the
// rest get common.ErrRefreshTokenInvalid.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*AuthenticationResponse, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	stored, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		return nil, common.ErrorInternal
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrRefreshTokenInvalid
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if _, err := repo.Rotate(ctx, refreshToken, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		return nil, common.ErrorInternal
	}

	return s.buildResponse(user, pair), nil
}

// Logout revokes the refresh token. Revoking an unknown token is not an
// error.
func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// IsEmailRegistered reports whether an account with the given email exists.
func (s *AccountService) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	exists, err := s.repomanager.Users(s.db).ExistsByEmail(ctx, email)
	if err != nil {
		return false, common.ErrorInternal
	}
	return exists, nil
}

// startSession mints a token pair for the user and persists the refresh
// token, replacing any token the user held before.
func (s *AccountService) startSession(ctx context.Context, db dbx.DBTX, user *models.User) (*AuthenticationResponse, error) {
	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := s.repomanager.RefreshTokens(db).Save(ctx, token); err != nil {
		return nil, common.ErrorInternal
	}

	return s.buildResponse(user, pair), nil
}

func (s *AccountService) buildResponse(user *models.User, pair *auth.TokenPair) *AuthenticationResponse {
	return &AuthenticationResponse{
		Token:                  pair.AccessToken,
		Email:                  user.Email,
		PersonName:             user.PersonName,
		Expiration:             pair.AccessExpiresAt,
		RefreshToken:           pair.RefreshToken,
		RefreshTokenExpiration: pair.RefreshExpiresAt,
	}
}
