package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/desk-reservation/internal/persistence"
)

const (
	msgEmailTaken    = "user with this email already exists"
	msgWrongEmail    = "wrong email"
	msgWrongPassword = "wrong password"
)

// AccountRepository captures the persistence operations needed by the account service.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account Account) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	IsReceptionist(ctx context.Context, email string) (bool, error)
	AddReceptionist(ctx context.Context, email string) error
}

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	IssueToken(subject, email, name string) (token string, expiresAt time.Time, err error)
}

// AccountService registers users and exchanges credentials for tokens.
type AccountService struct {
	accounts    AccountRepository
	tokens      TokenIssuer
	hash        PasswordHasher
	verify      PasswordVerifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAccountService constructs an account service with the provided dependencies.
// Nil hash and verify functions fall back to argon2id.
func NewAccountService(accounts AccountRepository, tokens TokenIssuer, hash PasswordHasher, verify PasswordVerifier, idGenerator func() string, now func() time.Time) *AccountService {
	return NewAccountServiceWithLogger(accounts, tokens, hash, verify, idGenerator, now, nil)
}

// NewAccountServiceWithLogger constructs an account service with a specified logger.
func NewAccountServiceWithLogger(accounts AccountRepository, tokens TokenIssuer, hash PasswordHasher, verify PasswordVerifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AccountService {
	if hash == nil {
		hash = HashPassword
	}
	if verify == nil {
		verify = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		accounts:    accounts,
		tokens:      tokens,
		hash:        hash,
		verify:      verify,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AccountService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AccountService", operation, attrs...)
}

// Register creates an account and signs the first token for it.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (result Result[AuthToken]) {
	if s == nil || s.accounts == nil || s.tokens == nil {
		return BadRequest[AuthToken]("account repository not configured")
	}

	email := normalizeEmail(params.Email)
	userName := strings.TrimSpace(params.UserName)

	var err error
	logger := s.loggerWith(ctx, "Register", "email", email)
	defer func() {
		logOutcome(ctx, logger, result, err, "failed to register account", "account registered")
	}()

	if vErr := validateRegisterParams(userName, email, params.Password); vErr.HasErrors() {
		return BadRequest[AuthToken](vErr.Messages...)
	}

	_, err = s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return BadRequest[AuthToken](msgEmailTaken)
	case isNotFound(err):
		err = nil
	default:
		return BadRequest[AuthToken](msgReadFailed)
	}

	var hashed string
	hashed, err = s.hash(params.Password)
	if err != nil {
		return BadRequest[AuthToken](msgSaveFailed)
	}

	account := Account{
		ID:           s.idGenerator(),
		UserName:     userName,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    s.now(),
	}
	if err = s.accounts.CreateAccount(ctx, account); err != nil {
		if isDuplicate(err) {
			err = nil
			return BadRequest[AuthToken](msgEmailTaken)
		}
		return BadRequest[AuthToken](msgSaveFailed)
	}

	var token AuthToken
	token, err = s.issue(ctx, account)
	if err != nil {
		return BadRequest[AuthToken](fmt.Sprintf("failed to issue token: %v", err))
	}
	return Ok(token)
}

// Login checks credentials and signs a token.
func (s *AccountService) Login(ctx context.Context, params LoginParams) (result Result[AuthToken]) {
	if s == nil || s.accounts == nil || s.tokens == nil {
		return BadRequest[AuthToken]("account repository not configured")
	}

	email := normalizeEmail(params.Email)

	var err error
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		logOutcome(ctx, logger, result, err, "login failed", "login succeeded")
	}()

	var account Account
	account, err = s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			err = nil
			return BadRequest[AuthToken](msgWrongEmail)
		}
		return BadRequest[AuthToken](msgReadFailed)
	}

	if verifyErr := s.verify(account.PasswordHash, params.Password); verifyErr != nil {
		if !errors.Is(verifyErr, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "stored password hash unreadable", "error", verifyErr)
		}
		return Forbidden[AuthToken](msgWrongPassword)
	}

	var token AuthToken
	token, err = s.issue(ctx, account)
	if err != nil {
		return BadRequest[AuthToken](fmt.Sprintf("failed to issue token: %v", err))
	}
	return Ok(token)
}

// IsReceptionist reports whether email holds the receptionist role.
func (s *AccountService) IsReceptionist(ctx context.Context, email string) (bool, error) {
	if s == nil || s.accounts == nil {
		return false, fmt.Errorf("account repository not configured")
	}
	ok, err := s.accounts.IsReceptionist(ctx, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check receptionist role: %w", err)
	}
	return ok, nil
}

// GrantReceptionist gives email the receptionist role. Granting twice is a no-op.
func (s *AccountService) GrantReceptionist(ctx context.Context, email string) error {
	if s == nil || s.accounts == nil {
		return fmt.Errorf("account repository not configured")
	}
	normalized := normalizeEmail(email)
	if normalized == "" {
		return &ValidationError{Messages: []string{"receptionist email can not be empty"}}
	}

	logger := s.loggerWith(ctx, "GrantReceptionist", "email", normalized)
	if err := s.accounts.AddReceptionist(ctx, normalized); err != nil {
		logger.ErrorContext(ctx, "failed to grant receptionist role", "error", err, "error_kind", ErrorKind(err))
		return fmt.Errorf("grant receptionist role: %w", err)
	}
	logger.InfoContext(ctx, "receptionist role granted")
	return nil
}

func (s *AccountService) issue(ctx context.Context, account Account) (AuthToken, error) {
	token, expiresAt, err := s.tokens.IssueToken(account.ID, account.Email, account.UserName)
	if err != nil {
		return AuthToken{}, err
	}
	receptionist, err := s.accounts.IsReceptionist(ctx, account.Email)
	if err != nil {
		return AuthToken{}, fmt.Errorf("check receptionist role: %w", err)
	}
	return AuthToken{
		Token:          token,
		ExpiresAt:      expiresAt,
		UserName:       account.UserName,
		Email:          account.Email,
		IsReceptionist: receptionist,
	}, nil
}

func validateRegisterParams(userName, email, password string) *ValidationError {
	vErr := &ValidationError{}
	if userName == "" {
		vErr.add("user name can not be empty")
	}
	vErr.merge(validateEmail(email))
	if len(password) < MinPasswordLength {
		vErr.add(fmt.Sprintf("password must have at least %d characters", MinPasswordLength))
	}
	return vErr
}

func validateEmail(email string) *ValidationError {
	if email == "" {
		return &ValidationError{Messages: []string{"email can not be empty"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Messages: []string{fmt.Sprintf("%s is not a valid email", email)}}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, persistence.ErrDuplicate)
}
