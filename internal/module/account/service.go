package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartblog/server/internal/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

// Service provides account management operations.
type Service struct {
	repo   Repository
	jwt    *JWTManager
	logger *logger.Logger
}

// NewService creates a new account service.
func NewService(repo Repository, jwt *JWTManager, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		jwt:    jwt,
		logger: log,
	}
}

// Register creates a new user with username, email and password.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Bio:          req.Bio,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, *TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	return user, &TokenResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GetProfile returns a user profile with follower counts. viewerID may be
// uuid.Nil for anonymous access.
func (s *Service) GetProfile(ctx context.Context, username string, viewerID uuid.UUID) (*Profile, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	followers, err := s.repo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := s.repo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}

	isFollowing := false
	if viewerID != uuid.Nil && viewerID != user.ID {
		follow, err := s.repo.GetFollow(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("get follow: %w", err)
		}
		isFollowing = follow != nil
	}

	return user.ToProfile(followers, following, isFollowing), nil
}

// UpdateProfile updates the caller's profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ToggleFollow follows target when not yet followed, unfollows otherwise.
// Returns the resulting state and the target's follower count.
func (s *Service) ToggleFollow(ctx context.Context, followerID uuid.UUID, targetUsername string) (*FollowResponse, error) {
	target, err := s.repo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	existing, err := s.repo.GetFollow(ctx, followerID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("get follow: %w", err)
	}

	following := false
	if existing != nil {
		if err := s.repo.DeleteFollow(ctx, followerID, target.ID); err != nil {
			return nil, fmt.Errorf("delete follow: %w", err)
		}
	} else {
		follow := &Follow{FollowerID: followerID, FollowingID: target.ID}
		if err := s.repo.CreateFollow(ctx, follow); err != nil {
			return nil, fmt.Errorf("create follow: %w", err)
		}
		following = true
	}

	count, err := s.repo.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}

	s.logger.Info("follow toggled",
		"follower_id", followerID,
		"target", targetUsername,
		"following", following,
	)

	return &FollowResponse{Following: following, FollowerCount: count}, nil
}

// ListFollowers returns the users following the given user.
func (s *Service) ListFollowers(ctx context.Context, username string) ([]*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFollowers(ctx, user.ID)
}

// ListFollowing returns the users the given user follows.
func (s *Service) ListFollowing(ctx context.Context, username string) ([]*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFollowing(ctx, user.ID)
}
