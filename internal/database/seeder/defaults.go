package seeder

import "time"

const (
	OrganizerEmail  = "organizer@example.com"
	DefaultPassword = "password123"
)

func Defaults(now time.Time) []Seeder {
	return []Seeder{
		UsersSeeder{Password: DefaultPassword},
		HackathonsSeeder{Now: now, OrganizerEmail: OrganizerEmail},
	}
}
