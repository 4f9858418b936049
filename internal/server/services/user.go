// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, profile maintenance, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/dbx"
	"github.com/dmitrijs2005/bookworm/internal/server/auth"
	"github.com/dmitrijs2005/bookworm/internal/server/config"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the accounts were originally hashed
// with; changing it only affects newly stored hashes.
const bcryptCost = 10

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the client-supplied registration fields. There is
// deliberately no admin flag here: accounts are never created with admin
// privileges at a client's request.
type RegisterParams struct {
	Email       string
	UserName    string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth string
}

// UserService provides account and authentication operations. Every method
// takes the database handle of the current request, so all queries of one
// request stay pinned to its connection.
type UserService struct {
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user account and returns a fresh TokenPair for it.
// The duplicate checks and the insert run in one transaction, so a
// registration either fully succeeds or leaves no trace.
func (s *UserService) Register(ctx context.Context, db dbx.TxBeginner, params RegisterParams) (*TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.EmailExists(ctx, params.Email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return common.ErrDuplicateEmail
		}

		exists, err = repo.UserNameExists(ctx, params.UserName)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if exists {
			return common.ErrDuplicateUsername
		}

		user := &models.User{
			Email:        params.Email,
			UserName:     params.UserName,
			PasswordHash: string(hash),
			Admin:        false,
			FirstName:    params.FirstName,
			LastName:     params.LastName,
			DateOfBirth:  params.DateOfBirth,
		}
		created, err := repo.Create(ctx, user)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		var genErr error
		pair, genErr = s.generateTokenPair(ctx, tx, created.ID, created.Email, created.Admin)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns a new TokenPair carrying the user's identity claims.
func (s *UserService) Login(ctx context.Context, db dbx.DBTX, email string, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrEmailNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrWrongPassword
	}

	return s.generateTokenPair(ctx, db, user.ID, user.Email, user.Admin)
}

// ChangePassword re-verifies the old password before storing a hash of the
// new one. The session proves identity, not current knowledge of the
// password, so the old credential is always checked.
func (s *UserService) ChangePassword(ctx context.Context, db dbx.DBTX, email string, oldPassword string, newPassword string) error {
	repo := s.repomanager.Users(db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrEmailNotFound
		}
		return common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return common.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, email, string(hash)); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Profile returns the caller's client-visible account fields.
func (s *UserService) Profile(ctx context.Context, db dbx.DBTX, email string) (*models.Profile, error) {
	repo := s.repomanager.Users(db)

	p, err := repo.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return p, nil
}

// UpdateAttribute changes one profile field selected from the closed
// attribute set. Attribute names outside the set are rejected before any
// query runs.
func (s *UserService) UpdateAttribute(ctx context.Context, db dbx.DBTX, email string, attribute string, value string) error {
	attr, ok := models.ParseUserAttribute(attribute)
	if !ok {
		return common.ErrInvalidAttribute
	}

	repo := s.repomanager.Users(db)

	if attr == models.AttrUserName {
		exists, err := repo.UserNameExists(ctx, value)
		if err != nil {
			return common.ErrorInternal
		}
		if exists {
			return common.ErrDuplicateUsername
		}
	}

	if err := repo.UpdateAttribute(ctx, email, attr, value); err != nil {
		if errors.Is(err, common.ErrInvalidAttribute) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, db dbx.TxBeginner, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, tx, user.ID, user.Email, user.Admin)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented refresh token, if any. The access token
// cannot be revoked and simply ages out; logout still reports success so a
// client with no refresh token gets the same acknowledgement.
func (s *UserService) Logout(ctx context.Context, db dbx.DBTX, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(db).Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID int64, email string, admin bool) (string, error) {
	return auth.GenerateToken(userID, email, admin, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID int64, email string, admin bool) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID, email, admin)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(db)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
