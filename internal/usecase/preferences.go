package usecase

import (
	"context"
	"errors"

	"hackmap/internal/domain/user"
)

type PreferenceLookup interface {
	GetNotificationPreferencesByEmail(ctx context.Context, email string) (user.NotificationPreferences, error)
}

// EmailAllowed reports whether the owner of address accepts the email kind
// selected by pick. Addresses without an account or without stored
// preferences get the defaults, and lookup failures err on the side of
// sending.
func EmailAllowed(ctx context.Context, prefs PreferenceLookup, address string, pick func(user.NotificationPreferences) bool) bool {
	p, err := prefs.GetNotificationPreferencesByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, user.ErrPreferencesNotFound) || errors.Is(err, user.ErrNotFound) {
			p = user.DefaultNotificationPreferences()
		} else {
			return true
		}
	}
	return p.EmailNotifications && pick(p)
}
