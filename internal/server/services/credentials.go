package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/filestore"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/repomanager"
)

// CredentialService owns accounts: signup, password verification and
// administrative password resets.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	activity    *ActivityService
	logger      logging.Logger
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher,
	activity *ActivityService, logger logging.Logger) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		activity:    activity,
		logger:      logger.With("module", "credentials"),
	}
}

// CreateAccount registers userID. Surrounding whitespace is trimmed from
// userID and email; the password is stored hashed exactly as given.
func (s *CredentialService) CreateAccount(ctx context.Context, userID, email, password string) error {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)

	if userID == "" || email == "" || password == "" {
		return fmt.Errorf("%w: userid, email and password are required", common.ErrorInvalidInput)
	}
	if err := validateUserID(userID); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repomanager.Users(s.db).Create(ctx, &models.User{UserID: userID, PasswordHash: hash, Email: email})
	if err != nil {
		return backendError("create account", err)
	}

	s.logger.Info(ctx, "account created", "userid", userID)
	s.activity.Record(ctx, userID, models.ActionSignup, "New account created")
	return nil
}

// Authenticate verifies the password and returns the canonical userid.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *CredentialService) Authenticate(ctx context.Context, userID, password string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", common.ErrorInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", backendError("load account", err)
	}

	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		return "", common.ErrorInvalidCredentials
	}

	s.activity.Record(ctx, user.UserID, models.ActionLogin, "User logged in")
	return user.UserID, nil
}

// GetAccount returns the stored account without exposing the hash.
func (s *CredentialService) GetAccount(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, backendError("load account", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ResetPassword overwrites the stored hash and hands back the plaintext
// once so it can be passed to the user. No activity record is written.
func (s *CredentialService) ResetPassword(ctx context.Context, userID, newPassword string) (string, error) {
	if newPassword == "" {
		return "", fmt.Errorf("%w: password must not be empty", common.ErrorInvalidInput)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash); err != nil {
		return "", backendError("reset password", err)
	}

	s.logger.Warn(ctx, "password reset", "userid", userID)
	return newPassword, nil
}

// ResetAllPasswords assigns every account a generated password in one
// transaction and returns the new credentials. Either all passwords change
// or none do.
func (s *CredentialService) ResetAllPasswords(ctx context.Context, generate func() (string, error)) ([]models.Credential, error) {
	var creds []models.Credential

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		ids, err := repo.ListUserIDs(ctx)
		if err != nil {
			return err
		}

		creds = make([]models.Credential, 0, len(ids))
		for _, id := range ids {
			password, err := generate()
			if err != nil {
				return fmt.Errorf("generate password: %w", err)
			}
			hash, err := s.hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := repo.UpdatePassword(ctx, id, hash); err != nil {
				return err
			}
			creds = append(creds, models.Credential{UserID: id, Password: password})
		}
		return nil
	})
	if err != nil {
		return nil, backendError("reset all passwords", err)
	}

	s.logger.Warn(ctx, "all passwords reset", "count", len(creds))
	return creds, nil
}

// validateUserID keeps userids usable as storage namespaces.
func validateUserID(userID string) error {
	if userID == "." || userID == ".." || strings.ContainsAny(userID, "/\\\x00") {
		return fmt.Errorf("%w: userid %q contains forbidden characters", common.ErrorInvalidInput, userID)
	}
	if userID == filestore.StagingDir {
		return fmt.Errorf("%w: userid %q is reserved", common.ErrorInvalidInput, userID)
	}
	return nil
}
