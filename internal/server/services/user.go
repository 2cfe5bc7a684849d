package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/auth"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/mail"
	"github.com/dmitrijs2005/dailyroutine/internal/server/metrics"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyroutine/internal/validatex"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	User models.Profile `json:"user"`
	TokenPair
}

// ProfileUpdate carries the profile fields to change; nil leaves a field as is.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AvatarStager uploads new avatar renditions and releases old ones.
type AvatarStager interface {
	Stage(ctx context.Context, userID string, data []byte) (models.Avatar, error)
	Release(ctx context.Context, avatar models.Avatar) error
}

// UserService handles accounts: registration and verification, login and
// token refresh, profile and avatar changes, and the contact list.
type UserService struct {
	repomanager repomanager.RepositoryManager
	avatars     AvatarStager
	mailer      mail.Sender
	feed        *ActivityService
	logger      logging.Logger
	now         func() time.Time

	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	verifyTokenValidityDuration  time.Duration
	appURL                       string
	defaultAvatarURL             string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, avatars AvatarStager,
	mailer mail.Sender, feed *ActivityService, logger logging.Logger) *UserService {
	return &UserService{
		repomanager:                  m,
		avatars:                      avatars,
		mailer:                       mailer,
		feed:                         feed,
		logger:                       logger,
		now:                          time.Now,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		verifyTokenValidityDuration:  cfg.VerifyTokenValidityDuration,
		appURL:                       strings.TrimRight(cfg.AppURL, "/"),
		defaultAvatarURL:             cfg.DefaultAvatarURL,
	}
}

// Register creates an unverified account and mails a verification link.
// A failed mail is logged; the account is created regardless.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	email = validatex.NormalizeEmail(email)

	if name == "" {
		return nil, invalid("name is required")
	}
	if !validatex.Email(email) {
		return nil, invalid("invalid email address")
	}
	if len(password) < validatex.MinPasswordLength {
		return nil, invalid("password must be at least %d characters", validatex.MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, internal(ctx, s.logger, "hash password", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       models.DefaultAvatar(s.defaultAvatarURL),
		Tags:         []models.Tag{},
		Contacts:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repomanager.Users().Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, invalid("email is already registered")
		}
		return nil, internal(ctx, s.logger, "create user", err)
	}

	s.sendVerification(ctx, user)

	p := user.Profile()
	return &p, nil
}

func (s *UserService) sendVerification(ctx context.Context, user *models.User) {
	token, err := auth.GenerateVerifyToken(user.ID, s.jwtSecret, s.verifyTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "verification token", "user_id", user.ID, "error", err)
		return
	}
	msg, err := mail.Verification(user.Email, mail.VerificationData{
		Name: user.Name,
		Link: s.appURL + "/api/auth/verify/" + token,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		metrics.MailFailures.WithLabelValues("verification").Inc()
		s.logger.Warn(ctx, "verification mail not sent", "user_id", user.ID, "error", err)
	}
}

// VerifyAccount marks the account named by a verification token as
// verified. A token can be used once; a second use fails validation.
func (s *UserService) VerifyAccount(ctx context.Context, token string) error {
	userID, err := auth.GetUserIDFromVerifyToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return internal(ctx, s.logger, "verify account", err)
	}
	if user.Verified {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrAlreadyVerified)
	}
	if err := s.repomanager.Users().SetVerified(ctx, userID, s.now().UTC()); err != nil {
		return internal(ctx, s.logger, "verify account", err)
	}
	return nil
}

// Login checks the credentials and, on success, returns the caller's
// profile with a new TokenPair. The sign-in is recorded in the activity
// feed with the device described by userAgent.
func (s *UserService) Login(ctx context.Context, email, password, userAgent string) (*LoginResult, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, validatex.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(ctx, s.logger, "login", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, s.repomanager, user.ID)
	if err != nil {
		return nil, err
	}

	s.feed.Record(ctx, loginActivity(user.ID, userAgent))

	return &LoginResult{User: user.Profile(), TokenPair: *pair}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens().Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(ctx, s.logger, "find refresh token", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := s.repomanager.WithinTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		if err := m.RefreshTokens().Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, m, token.UserID)
		return genErr
	}); err != nil {
		return nil, internal(ctx, s.logger, "rotate refresh token", err)
	}
	return pair, nil
}

// Profile returns the caller's own account view.
func (s *UserService) Profile(ctx context.Context, id string) (*models.Profile, error) {
	user, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "get profile", err)
	}
	p := user.Profile()
	return &p, nil
}

// UpdateProfile merges the provided fields into the account.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.Profile, error) {
	repo := s.repomanager.Users()

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "update profile", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := validatex.NormalizeEmail(*in.Email)
		if !validatex.Email(email) {
			return nil, invalid("invalid email address")
		}
		if email != user.Email {
			other, err := repo.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, fmt.Errorf("%w: email is already in use", common.ErrorConflict)
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return nil, internal(ctx, s.logger, "update profile", err)
			}
		}
		user.Email = email
	}

	user.UpdatedAt = s.now().UTC()
	if err := repo.UpdateProfile(ctx, id, user.Name, user.Email, user.UpdatedAt); err != nil {
		return nil, internal(ctx, s.logger, "update profile", err)
	}
	p := user.Profile()
	return &p, nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: current and new password are required", common.ErrorUnauthorized)
	}
	if len(newPassword) < validatex.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorUnauthorized, validatex.MinPasswordLength)
	}

	repo := s.repomanager.Users()
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return internal(ctx, s.logger, "update password", err)
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: current password does not match", common.ErrorUnauthorized)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return internal(ctx, s.logger, "hash password", err)
	}
	if err := repo.UpdatePassword(ctx, id, hash, s.now().UTC()); err != nil {
		return internal(ctx, s.logger, "update password", err)
	}
	return nil
}

// UpdateAvatar replaces the profile picture. The new renditions are
// uploaded and saved before the old ones are released; if saving fails the
// new uploads are released instead and the old avatar stays in place.
func (s *UserService) UpdateAvatar(ctx context.Context, id, filename string, data []byte) (*models.Profile, error) {
	if !validatex.ImageFilename(filename) {
		return nil, invalid("only .jpg, .jpeg and .png images are accepted")
	}

	repo := s.repomanager.Users()
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "update avatar", err)
	}

	staged, err := s.avatars.Stage(ctx, id, data)
	if err != nil {
		return nil, internal(ctx, s.logger, "stage avatar", err)
	}

	now := s.now().UTC()
	if err := repo.UpdateAvatar(ctx, id, staged, now); err != nil {
		if relErr := s.avatars.Release(ctx, staged); relErr != nil {
			s.logger.Warn(ctx, "staged avatar not released", "user_id", id, "error", relErr)
		}
		return nil, internal(ctx, s.logger, "update avatar", err)
	}

	if err := s.avatars.Release(ctx, user.Avatar); err != nil {
		s.logger.Warn(ctx, "previous avatar not released", "user_id", id, "error", err)
	}

	user.Avatar = staged
	user.UpdatedAt = now
	p := user.Profile()
	return &p, nil
}

// AddContact adds contactID to the caller's contact set.
func (s *UserService) AddContact(ctx context.Context, id, contactID string) (*models.Profile, error) {
	if contactID == "" {
		return nil, invalid("contact id is required")
	}
	if contactID == id {
		return nil, invalid("you cannot add yourself")
	}

	repo := s.repomanager.Users()
	if _, err := repo.GetByID(ctx, contactID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("contact %s", contactID)
		}
		return nil, internal(ctx, s.logger, "add contact", err)
	}
	if err := repo.AddContact(ctx, id, contactID); err != nil {
		return nil, internal(ctx, s.logger, "add contact", err)
	}
	return s.Profile(ctx, id)
}

// RemoveContact drops contactID from the caller's contact set.
func (s *UserService) RemoveContact(ctx context.Context, id, contactID string) error {
	if err := s.repomanager.Users().RemoveContact(ctx, id, contactID); err != nil {
		return internal(ctx, s.logger, "remove contact", err)
	}
	return nil
}

// Contacts returns a page of the caller's contacts.
func (s *UserService) Contacts(ctx context.Context, id string, page, perPage int) ([]models.PublicUser, error) {
	skip, limit := common.Skip(page, perPage)
	out, err := s.repomanager.Users().ListContacts(ctx, id, skip, limit)
	if err != nil {
		return nil, internal(ctx, s.logger, "list contacts", err)
	}
	return out, nil
}

// Search finds accounts whose name or email contains query.
func (s *UserService) Search(ctx context.Context, query string, page, perPage int) ([]models.PublicUser, error) {
	skip, limit := common.Skip(page, perPage)
	out, err := s.repomanager.Users().Search(ctx, strings.TrimSpace(query), skip, limit)
	if err != nil {
		return nil, internal(ctx, s.logger, "search users", err)
	}
	return out, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, m repomanager.RepositoryManager, userID string) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, internal(ctx, s.logger, "generate access token", err)
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, internal(ctx, s.logger, "generate refresh token", err)
	}
	expires := s.now().Add(s.refreshTokenValidityDuration)
	if err := m.RefreshTokens().Create(ctx, userID, refresh, expires); err != nil {
		return nil, internal(ctx, s.logger, "store refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
