package app

import (
	"fmt"

	"hackmap/internal/infrastructure/email"
	"hackmap/internal/pkg/jwt"
	"hackmap/internal/repository"
	ucauth "hackmap/internal/usecase/auth"
	uchackathon "hackmap/internal/usecase/hackathon"
	ucmatchmaking "hackmap/internal/usecase/matchmaking"
	ucnotification "hackmap/internal/usecase/notification"
	ucprofile "hackmap/internal/usecase/profile"
	ucproject "hackmap/internal/usecase/project"
	ucreminder "hackmap/internal/usecase/reminder"
	ucstats "hackmap/internal/usecase/stats"
	ucteam "hackmap/internal/usecase/team"
)

type Services struct {
	JWT           jwt.Service
	Auth          *ucauth.Service
	Profile       *ucprofile.Service
	Hackathons    *uchackathon.Service
	Teams         *ucteam.Service
	Matchmaking   *ucmatchmaking.Service
	Projects      *ucproject.Service
	Notifications *ucnotification.Service
	Stats         *ucstats.Service
	Reminders     *ucreminder.Service
}

// NewServices wires repositories and usecases over the container. pusher may
// be nil when no websocket hub runs, as in the command line tool.
func NewServices(c *Container, pusher ucnotification.Pusher) (*Services, error) {
	cfg := c.Config
	log := c.Logger

	renderer, err := email.NewRenderer(cfg.App.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	emailer := email.NewService(renderer, email.NewMailer(cfg.SMTP, log, c.Metrics))

	users := repository.NewPostgresUserRepository(c.DB)
	hackathons := repository.NewPostgresHackathonRepository(c.DB)
	teams := repository.NewPostgresTeamRepository(c.DB)
	projects := repository.NewPostgresProjectRepository(c.DB)
	notifications := repository.NewPostgresNotificationRepository(c.DB)
	stats := repository.NewPostgresStatsRepository(c.DB)

	jwtSvc := jwt.NewHMACService(cfg.JWT)
	notifier := ucnotification.NewService(notifications, pusher, c.Metrics, log.With().Str("usecase", "notification").Logger())

	return &Services{
		JWT:         jwtSvc,
		Auth:        ucauth.NewService(users, jwtSvc),
		Profile:     ucprofile.NewService(users, stats, c.Cache, log.With().Str("usecase", "profile").Logger()),
		Hackathons:  uchackathon.NewService(hackathons),
		Matchmaking: ucmatchmaking.NewService(users, teams, c.Cache, cfg.Redis.TTL, c.Metrics, log.With().Str("usecase", "matchmaking").Logger()),
		Teams: ucteam.NewService(ucteam.Deps{
			Teams:         teams,
			Hackathons:    hackathons,
			Users:         users,
			Notifications: notifications,
			Notifier:      notifier,
			Emailer:       emailer,
			Cache:         c.Cache,
			Logger:        log.With().Str("usecase", "team").Logger(),
		}),
		Projects:      ucproject.NewService(projects, teams, users, notifier, log.With().Str("usecase", "project").Logger()),
		Notifications: notifier,
		Stats:         ucstats.NewService(stats, c.Cache, log.With().Str("usecase", "stats").Logger()),
		Reminders: ucreminder.NewService(
			hackathons,
			users,
			notifier,
			emailer,
			c.Cache,
			c.Metrics,
			log.With().Str("usecase", "reminder").Logger(),
			ucreminder.Options{Workers: cfg.Cron.EmailWorkers, PerSecond: cfg.Cron.EmailRate},
		),
	}, nil
}
