package user

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"uk.co.dudmesh.noticeboard/internal/boot"
	"uk.co.dudmesh.noticeboard/internal/mailer"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/token"
)

const bcryptCost = 10

type Store interface {
	CreateUser(user *model.User) error
	UserByEmail(email string) (*model.User, error)
	UserByVerificationToken(token string) (*model.User, error)
	UserByResetToken(token string, now time.Time) (*model.User, error)
	UpdateUser(user *model.User) error
}

type service struct {
	config *boot.Config
	store  Store
	issuer *token.Issuer
	mailer mailer.Mailer
}

func New(config *boot.Config, store Store, issuer *token.Issuer, m mailer.Mailer) *service {
	return &service{
		config: config,
		store:  store,
		issuer: issuer,
		mailer: m,
	}
}

// RegisterResult carries the persisted user plus a session token. EmailError
// is set when the verification mail could not be sent; the account is kept
// regardless, losing the email must not lose the account.
type RegisterResult struct {
	User         *model.User
	SessionToken string
	EmailError   error
}

func (s *service) Register(params *model.CreateUserParams) (*RegisterResult, error) {
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", model.ErrorValidation)
	}
	if len(params.Username) < 3 || len(params.Username) > 20 {
		return nil, fmt.Errorf("%w: username must be between 3 and 20 characters", model.ErrorValidation)
	}
	if len(params.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", model.ErrorValidation)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	verificationToken, err := token.Opaque()
	if err != nil {
		return nil, fmt.Errorf("generating verification token: %w", err)
	}

	user := &model.User{
		ID:                     model.UserID(model.CreateID()),
		CreatedAt:              time.Now().UTC(),
		Username:               params.Username,
		Email:                  params.Email,
		PasswordHash:           string(passwordHash),
		Role:                   model.RoleUser,
		IsEmailVerified:        false,
		EmailVerificationToken: &verificationToken,
	}

	// uniqueness is the store's job, a prior lookup would race
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	sessionToken, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{User: user, SessionToken: sessionToken}
	if err := s.mailer.SendVerification(user.Email, user.Username, verificationToken); err != nil {
		result.EmailError = fmt.Errorf("sending verification email: %w", err)
	}

	return result, nil
}

func (s *service) VerifyEmail(verificationToken string) (*model.User, error) {
	if verificationToken == "" {
		return nil, fmt.Errorf("%w: token is required", model.ErrorValidation)
	}

	user, err := s.store.UserByVerificationToken(verificationToken)
	if err != nil {
		// unknown and already-used tokens are the same outward error
		if err == model.ErrorUserNotFound {
			return nil, model.ErrorInvalidVerificationToken
		}
		return nil, err
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Login(params *model.LoginParams) (*model.User, string, error) {
	if params.Email == "" || params.Password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", model.ErrorValidation)
	}

	user, err := s.store.UserByEmail(params.Email)
	if err != nil {
		if err == model.ErrorUserNotFound {
			// same error as a bad password, account existence is not leaked
			return nil, "", model.ErrorInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		return nil, "", model.ErrorInvalidCredentials
	}

	if s.config.Auth.RequireVerifiedEmail && !user.IsEmailVerified {
		return nil, "", model.ErrorEmailNotVerified
	}

	sessionToken, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

// ForgotPassword starts the reset flow. The outcome for an unknown email is
// indistinguishable from a known one. A mail failure here is fatal to the
// request, unlike registration.
func (s *service) ForgotPassword(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrorValidation)
	}

	user, err := s.store.UserByEmail(email)
	if err != nil {
		if err == model.ErrorUserNotFound {
			return nil
		}
		return err
	}

	resetToken, err := token.Opaque()
	if err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}
	expires := time.Now().UTC().Add(s.config.Auth.ResetTokenTTL)

	// a new request supersedes any active token
	user.PasswordResetToken = &resetToken
	user.PasswordResetExpires = &expires
	if err := s.store.UpdateUser(user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.Username, resetToken); err != nil {
		return fmt.Errorf("sending password reset email: %w", err)
	}

	return nil
}

func (s *service) ResetPassword(resetToken, password string) error {
	if resetToken == "" || password == "" {
		return fmt.Errorf("%w: token and new password are required", model.ErrorValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", model.ErrorValidation)
	}

	user, err := s.store.UserByResetToken(resetToken, time.Now().UTC())
	if err != nil {
		if err == model.ErrorUserNotFound {
			return model.ErrorInvalidOrExpiredToken
		}
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return s.store.UpdateUser(user)
}
