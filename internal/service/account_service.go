package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

// AccountValidator checks credentials against the configured format rules.
// *domain.Validator implements it.
type AccountValidator interface {
	ValidEmail(email string) bool
	ValidPassword(password string) bool
}

// AccountService provides account operations.
type AccountService interface {
	// Register creates an account with its phones and returns its public view.
	Register(ctx context.Context, reg domain.Registration) (*domain.AccountView, error)

	// Update applies the fields set in changes. The username check ignores case.
	Update(ctx context.Context, id uuid.UUID, changes domain.AccountChanges) (*domain.Account, error)

	// Patch applies the fields set in changes. The username check is an
	// exact match.
	Patch(ctx context.Context, id uuid.UUID, changes domain.AccountChanges) (*domain.Account, error)

	// Delete permanently removes an account and its phones.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// FindAll returns every account. An empty store yields an empty slice.
	FindAll(ctx context.Context) ([]*domain.Account, error)
}

// AccountServiceDeps holds the collaborators of the account service.
type AccountServiceDeps struct {
	DB        store.TxBeginner
	Accounts  store.AccountStore
	Phones    store.PhoneStore
	Validator AccountValidator
	Hasher    auth.PasswordHasher
	Tokens    auth.TokenIssuer
	Logger    *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

type accountServiceImpl struct {
	db        store.TxBeginner
	accounts  store.AccountStore
	phones    store.PhoneStore
	validator AccountValidator
	hasher    auth.PasswordHasher
	tokens    auth.TokenIssuer
	logger    *slog.Logger
	now       func() time.Time
}

// NewAccountService creates an AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(deps AccountServiceDeps) (AccountService, error) {
	required := []struct {
		name  string
		isNil bool
	}{
		{"db", deps.DB == nil},
		{"accounts", deps.Accounts == nil},
		{"phones", deps.Phones == nil},
		{"validator", deps.Validator == nil},
		{"hasher", deps.Hasher == nil},
		{"tokens", deps.Tokens == nil},
	}
	for _, r := range required {
		if r.isNil {
			return nil, domain.NewValidationError(r.name, "cannot be nil", domain.ErrValidation)
		}
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &accountServiceImpl{
		db:        deps.DB,
		accounts:  deps.Accounts,
		phones:    deps.Phones,
		validator: deps.Validator,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		logger:    log.With(slog.String("component", "account_service")),
		now:       now,
	}, nil
}

// Register implements AccountService.Register.
func (s *accountServiceImpl) Register(ctx context.Context, reg domain.Registration) (*domain.AccountView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.ensureUsernameFree(ctx, s.accounts.GetByUsername, reg.Username, uuid.Nil); err != nil {
		log.Debug("registration rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if !s.validator.ValidEmail(reg.Email) {
		log.Debug("registration rejected", slog.String("reason", "invalid email"))
		return nil, domain.ErrInvalidEmail
	}
	if err := s.ensureEmailFree(ctx, s.accounts, reg.Email, uuid.Nil); err != nil {
		log.Debug("registration rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if !s.validator.ValidPassword(reg.Password) {
		log.Debug("registration rejected", slog.String("reason", "weak password"))
		return nil, domain.ErrWeakPassword
	}

	token, err := s.tokens.IssueToken(ctx, reg.Username)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return nil, NewAccountServiceError("register", "failed to issue token", err)
	}

	hash, err := s.hashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(reg.Username, reg.Email, hash, token, reg.Phones, s.now())
	if err != nil {
		log.Debug("registration rejected", slog.String("reason", err.Error()))
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
			return err
		}
		txPhones := s.phones.WithTx(tx)
		for i := range account.Phones {
			if err := txPhones.Create(ctx, &account.Phones[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if mapped := mapStoreError(err); mapped != err {
			log.Debug("registration lost a uniqueness race", slog.String("reason", mapped.Error()))
			return nil, mapped
		}
		log.Error("failed to persist account", slog.String("error", err.Error()))
		return nil, NewAccountServiceError("register", "failed to persist account", err)
	}

	log.Info("account registered",
		slog.String("account_id", account.ID.String()),
		slog.Int("phones", len(account.Phones)))
	return domain.NewAccountView(account), nil
}

// Update implements AccountService.Update.
func (s *accountServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	changes domain.AccountChanges,
) (*domain.Account, error) {
	return s.modify(ctx, "update", id, changes, func(accounts store.AccountStore) usernameLookup {
		return func(ctx context.Context, username string) (*domain.Account, error) {
			return accounts.GetByUsernameFold(ctx, username, id)
		}
	})
}

// Patch implements AccountService.Patch.
func (s *accountServiceImpl) Patch(
	ctx context.Context,
	id uuid.UUID,
	changes domain.AccountChanges,
) (*domain.Account, error) {
	return s.modify(ctx, "patch", id, changes, func(accounts store.AccountStore) usernameLookup {
		return accounts.GetByUsername
	})
}

type usernameLookup func(ctx context.Context, username string) (*domain.Account, error)

// modify applies changes to an account inside one transaction. Update and
// Patch differ only in how a username collision is looked up.
func (s *accountServiceImpl) modify(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	changes domain.AccountChanges,
	lookupFor func(store.AccountStore) usernameLookup,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", operation),
		slog.String("account_id", id.String()))

	var updated *domain.Account
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accounts.WithTx(tx)
		phones := s.phones.WithTx(tx)

		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if changes.Username != nil {
			if strings.TrimSpace(*changes.Username) == "" {
				return domain.ErrEmptyUsername
			}
			if err := s.ensureUsernameFree(ctx, lookupFor(accounts), *changes.Username, id); err != nil {
				return err
			}
			account.Username = *changes.Username
		}

		if changes.Email != nil {
			if !s.validator.ValidEmail(*changes.Email) {
				return domain.ErrInvalidEmail
			}
			if err := s.ensureEmailFree(ctx, accounts, *changes.Email, id); err != nil {
				return err
			}
			account.Email = *changes.Email
		}

		if changes.Password != nil {
			if !s.validator.ValidPassword(*changes.Password) {
				return domain.ErrWeakPassword
			}
			hash, err := s.hashPassword(*changes.Password)
			if err != nil {
				return err
			}
			account.PasswordHash = hash
		}

		if changes.Phones != nil {
			for _, p := range changes.Phones {
				if err := p.Validate(); err != nil {
					return err
				}
			}
			if err := phones.DeleteByAccount(ctx, id); err != nil {
				return err
			}
			replacement := account.NewPhones(changes.Phones)
			if err := phones.CreateMultiple(ctx, replacement); err != nil {
				return err
			}
			account.Phones = replacement
		}

		account.ModifiedAt = s.now().UTC()
		if err := accounts.Update(ctx, account); err != nil {
			return err
		}

		updated = account
		return nil
	})
	if err != nil {
		mapped := mapStoreError(err)
		if isExpected(mapped) {
			log.Debug("account change rejected", slog.String("reason", mapped.Error()))
			return nil, mapped
		}
		log.Error("failed to change account", slog.String("error", err.Error()))
		return nil, NewAccountServiceError(operation, "failed to change account", err)
	}

	log.Info("account changed")
	return updated, nil
}

// Delete implements AccountService.Delete.
func (s *accountServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.phones.WithTx(tx).DeleteByAccount(ctx, id); err != nil {
			return err
		}
		return s.accounts.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug("account to delete not found", slog.String("account_id", id.String()))
			return ErrAccountNotFound
		}
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return NewAccountServiceError("delete", "failed to delete account", err)
	}

	log.Info("account deleted", slog.String("account_id", id.String()))
	return nil
}

// FindByID implements AccountService.FindByID.
func (s *accountServiceImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, NewAccountServiceError("find", "failed to retrieve account", err)
	}
	return account, nil
}

// FindAll implements AccountService.FindAll.
func (s *accountServiceImpl) FindAll(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list accounts",
			slog.String("error", err.Error()))
		return nil, NewAccountServiceError("find_all", "failed to list accounts", err)
	}
	if accounts == nil {
		accounts = make([]*domain.Account, 0)
	}
	return accounts, nil
}

// ensureUsernameFree fails with ErrUsernameTaken when lookup finds an
// account other than self.
func (s *accountServiceImpl) ensureUsernameFree(
	ctx context.Context,
	lookup usernameLookup,
	username string,
	self uuid.UUID,
) error {
	existing, err := lookup(ctx, username)
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check username: %w", err)
	case existing.ID != self:
		return ErrUsernameTaken
	}
	return nil
}

// ensureEmailFree fails with ErrEmailTaken when another account uses the
// email, ignoring case.
func (s *accountServiceImpl) ensureEmailFree(
	ctx context.Context,
	accounts store.AccountStore,
	email string,
	self uuid.UUID,
) error {
	existing, err := accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != self:
		return ErrEmailTaken
	}
	return nil
}

// hashPassword hashes a password that already passed the policy. Inputs
// bcrypt cannot hash are reported as weak passwords.
func (s *accountServiceImpl) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", domain.ErrWeakPassword
		}
		return "", NewAccountServiceError("hash", "failed to hash password", err)
	}
	return hash, nil
}

// mapStoreError translates store conditions into service errors and
// returns any other error unchanged.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, store.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, store.ErrEmailExists):
		return ErrEmailTaken
	}
	return err
}

// isExpected reports whether err is a rejection the caller should see
// as-is rather than an internal failure.
func isExpected(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrIncompletePhone) ||
		errors.Is(err, domain.ErrEmptyUsername)
}
