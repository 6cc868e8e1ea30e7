package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"

	"print-order-backend/internal/auth"
	"print-order-backend/internal/models"
)

const minPasswordLength = 8

type UserService struct {
	store  UserStore
	tokens *auth.TokenManager
	now    func() time.Time
}

func NewUserService(store UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates a regular account.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleUser)
}

// CreateAdmin creates an administrator account.
func (s *UserService) CreateAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, req models.RegisterRequest, role string) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Role:           role,
		IsActive:       true,
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			if cerr := s.checkAvailable(ctx, req.Email, req.Username); cerr != nil {
				return nil, cerr
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username, "role", role)
	return user, nil
}

func (s *UserService) checkAvailable(ctx context.Context, email, username string) error {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !isNotFound(err) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !isNotFound(err) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

// Login accepts either the username or the email as identifier and returns
// a signed access token.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	if err := validateStruct(req); err != nil {
		return "", nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if isNotFound(err) {
		user, err = s.store.GetUserByEmail(ctx, req.Username)
	}
	if err != nil {
		if isNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInactiveUser
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its account. The role claim must
// still match the stored role.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if isNotFound(err) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if claims.Role != user.Role || !user.IsActive {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

func (s *UserService) ResetPassword(ctx context.Context, actor *models.User, req models.PasswordResetRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}
	return s.setPassword(ctx, actor, req.NewPassword)
}

// AdminResetPassword overwrites the password of the account registered
// under req.UserEmail.
func (s *UserService) AdminResetPassword(ctx context.Context, actor *models.User, req models.AdminPasswordResetRequest) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, req.UserEmail)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, req.NewPassword); err != nil {
		return err
	}

	slog.InfoContext(ctx, "password reset by admin", "user_id", user.ID, "admin", actor.Username)
	return nil
}

func (s *UserService) setPassword(ctx context.Context, user *models.User, password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	updated := *user
	updated.HashedPassword = hash
	now := s.now()
	updated.UpdatedAt = &now
	if err := s.store.UpdateUser(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	*user = updated
	return nil
}

// UpdateProfile applies only the fields present in req.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, req models.UserUpdateRequest) (*models.User, error) {
	updated := *actor
	if err := copier.CopyWithOption(&updated, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to merge profile: %w", err)
	}
	now := s.now()
	updated.UpdatedAt = &now

	if err := s.store.UpdateUser(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

// Get returns any account by id. Admin only.
func (s *UserService) Get(ctx context.Context, actor *models.User, id int64) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.store.GetUserByID(ctx, id)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than 72 bytes", ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
