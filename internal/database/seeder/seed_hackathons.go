package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"hackmap/internal/database"
)

const day = 24 * time.Hour

type sampleHackathon struct {
	Title       string
	Description string
	Theme       string
	// Offsets from the seeding time.
	Start, End, Deadline time.Duration
	MaxTeamSize          int
	Prizes               []string
	Tags                 []string
}

var sampleHackathons = []sampleHackathon{
	{
		Title:       "AI Innovation Challenge 2024",
		Description: "Build the next generation of AI-powered applications",
		Theme:       "ai",
		Start:       30 * day,
		End:         32 * day,
		Deadline:    25 * day,
		MaxTeamSize: 4,
		Prizes:      []string{"$10,000 First Prize", "$5,000 Second Prize", "$2,500 Third Prize"},
		Tags:        []string{"AI", "Machine Learning", "Innovation"},
	},
	{
		Title:       "Web3 Builder Hackathon",
		Description: "Create decentralized applications that change the world",
		Theme:       "web3",
		Start:       60 * day,
		End:         62 * day,
		Deadline:    55 * day,
		MaxTeamSize: 5,
		Prizes:      []string{"$15,000 First Prize", "$7,500 Second Prize", "$3,000 Third Prize"},
		Tags:        []string{"Blockchain", "DeFi", "NFT", "Smart Contracts"},
	},
	{
		Title:       "FinTech Revolution",
		Description: "Revolutionize financial services with cutting-edge technology",
		Theme:       "fintech",
		Start:       90 * day,
		End:         92 * day,
		Deadline:    85 * day,
		MaxTeamSize: 4,
		Prizes:      []string{"$12,000 First Prize", "$6,000 Second Prize", "$3,000 Third Prize"},
		Tags:        []string{"FinTech", "Banking", "Payments", "Investment"},
	},
}

// HackathonsSeeder creates future hackathons owned by the seeded organizer,
// skipping titles that already exist.
type HackathonsSeeder struct {
	Now            time.Time
	OrganizerEmail string
}

func (HackathonsSeeder) Name() string { return "hackathons" }

func (s HackathonsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "hackathons", "id", "title", "theme", "registration_deadline", "organizer_id"); err != nil {
		return err
	}

	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}

	var organizerID uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, s.OrganizerEmail).Scan(&organizerID); err != nil {
		return fmt.Errorf("organizer %s: %w", s.OrganizerEmail, err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, h := range sampleHackathons {
			prizes, err := json.Marshal(h.Prizes)
			if err != nil {
				return err
			}
			tags, err := json.Marshal(h.Tags)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO hackathons
				   (id, title, description, theme, start_date, end_date, registration_deadline,
				    max_team_size, prizes, tags, organizer_id)
				 SELECT $1::uuid, $2::text, $3::text, $4::text, $5::timestamptz, $6::timestamptz, $7::timestamptz,
				        $8::int, $9::jsonb, $10::jsonb, $11::uuid
				 WHERE NOT EXISTS (SELECT 1 FROM hackathons WHERE title = $2::text)`,
				uuid.New(), h.Title, h.Description, h.Theme,
				now.Add(h.Start), now.Add(h.End), now.Add(h.Deadline),
				h.MaxTeamSize, string(prizes), string(tags), organizerID,
			); err != nil {
				return fmt.Errorf("insert %s: %w", h.Title, err)
			}
		}
		return nil
	})
}
