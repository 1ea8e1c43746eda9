package seeder

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hackmap/internal/database"
)

type sampleUser struct {
	Email  string
	Name   string
	Bio    string
	Skills []string
}

var sampleUsers = []sampleUser{
	{
		Email:  OrganizerEmail,
		Name:   "Sample Organizer",
		Bio:    "Experienced hackathon organizer passionate about innovation and technology.",
		Skills: []string{"Event Management", "Community Building", "Tech Leadership"},
	},
	{
		Email:  "alice@example.com",
		Name:   "Alice Johnson",
		Bio:    "Full-stack developer with a passion for AI and machine learning.",
		Skills: []string{"React", "Node.js", "Python", "TensorFlow", "AWS"},
	},
	{
		Email:  "bob@example.com",
		Name:   "Bob Smith",
		Bio:    "UI/UX designer and frontend developer focused on creating amazing user experiences.",
		Skills: []string{"Figma", "React", "TypeScript", "Tailwind CSS", "Design Systems"},
	},
	{
		Email:  "charlie@example.com",
		Name:   "Charlie Davis",
		Bio:    "Blockchain developer and Web3 enthusiast building the future of decentralized apps.",
		Skills: []string{"Solidity", "Web3.js", "React", "Smart Contracts", "DeFi"},
	},
}

// UsersSeeder creates the organizer and three participants. Existing emails
// are left untouched.
type UsersSeeder struct {
	Password string
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "bio", "skills"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, u := range sampleUsers {
			skills, err := json.Marshal(u.Skills)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO users (id, name, email, password_hash, bio, skills)
				 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
				 ON CONFLICT (email) DO NOTHING`,
				uuid.New(), u.Name, u.Email, string(hash), u.Bio, string(skills),
			); err != nil {
				return fmt.Errorf("insert %s: %w", u.Email, err)
			}
		}
		return nil
	})
}
