package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrPreferencesNotFound = errors.New("notification preferences not found")
)

type ProfileUpdate struct {
	Name   *string
	Bio    *string
	Skills []string
}

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (User, error)

	GetNotificationPreferences(ctx context.Context, id uuid.UUID) (NotificationPreferences, error)
	SaveNotificationPreferences(ctx context.Context, id uuid.UUID, p NotificationPreferences) error
	GetNotificationPreferencesByEmail(ctx context.Context, email string) (NotificationPreferences, error)
}
