package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/requestdata"
	"github.com/glowist/glowist-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	// UpdateAvatarImage replaces the user's avatar with an uploaded image.
	UpdateAvatarImage(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
	RegisterDevice(ctx context.Context, userID uuid.UUID, platform, token string) (*types.DeviceToken, error)
	RemoveDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	deviceRepo    repos.DeviceTokenRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, deviceRepo repos.DeviceTokenRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		deviceRepo:    deviceRepo,
		avatarService: avatarService,
	}
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

func (s *userService) UpdateAvatarImage(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	if s.avatarService == nil {
		return nil, fmt.Errorf("avatar storage unavailable")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty avatar image")
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	user := users[0]
	if err := s.avatarService.CreateUserAvatarFromImage(ctx, user, raw); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, nil, user.ID, map[string]interface{}{"avatar_url": user.AvatarURL}); err != nil {
		return nil, fmt.Errorf("save avatar url: %w", err)
	}
	return user, nil
}

func (s *userService) RegisterDevice(ctx context.Context, userID uuid.UUID, platform, token string) (*types.DeviceToken, error) {
	if token == "" {
		return nil, fmt.Errorf("device token is required")
	}
	row := &types.DeviceToken{
		ID:       uuid.New(),
		UserID:   userID,
		Platform: platform,
		Token:    token,
	}
	if err := s.deviceRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}
	return row, nil
}

func (s *userService) RemoveDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	devices, err := s.deviceRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	for _, d := range devices {
		if d.ID == deviceID {
			return s.deviceRepo.DeleteByIDs(ctx, nil, []uuid.UUID{deviceID})
		}
	}
	return ErrNotFound
}
