// Package usecasetest holds in-memory doubles shared by usecase tests.
package usecasetest

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"hackmap/internal/domain/notification"
	"hackmap/internal/infrastructure/email"
)

type MemCache struct {
	mu      sync.Mutex
	Items   map[string][]byte
	Deleted []string
	Err     error
}

func NewMemCache() *MemCache {
	return &MemCache{Items: map[string][]byte{}}
}

func (c *MemCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	b, ok := c.Items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *MemCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.Items[key] = b
	return nil
}

func (c *MemCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Items, key)
	c.Deleted = append(c.Deleted, key)
	return nil
}

func (c *MemCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.Items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.Items, k)
		}
	}
	c.Deleted = append(c.Deleted, pattern)
	return nil
}

func (c *MemCache) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.Items[key]; !ok || string(b) != value {
		return false, nil
	}
	delete(c.Items, key)
	c.Deleted = append(c.Deleted, key)
	return true, nil
}

func (c *MemCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.Items[key]; ok {
		return false, nil
	}
	c.Items[key] = []byte(value)
	return true, nil
}

type Notifier struct {
	mu   sync.Mutex
	Sent []notification.Draft
	Err  error
}

func (n *Notifier) Notify(_ context.Context, d notification.Draft) (notification.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return notification.Notification{}, n.Err
	}
	n.Sent = append(n.Sent, d)
	return notification.Notification{
		ID:        uuid.New(),
		UserID:    d.UserID,
		Type:      d.Type,
		Title:     d.Title,
		Message:   d.Message,
		ActorID:   d.ActorID,
		TeamID:    d.TeamID,
		CreatedAt: time.Now(),
	}, nil
}

func (n *Notifier) Drafts() []notification.Draft {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Draft(nil), n.Sent...)
}

type SentEmail struct {
	Template string
	To       string
	Data     any
}

// Emailer records every send. FailFor makes sends to the listed addresses
// fail with Err.
type Emailer struct {
	mu      sync.Mutex
	Sent    []SentEmail
	Err     error
	FailFor map[string]bool
}

func (e *Emailer) record(template, to string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil && (e.FailFor == nil || e.FailFor[to]) {
		return e.Err
	}
	e.Sent = append(e.Sent, SentEmail{Template: template, To: to, Data: data})
	return nil
}

func (e *Emailer) SendTeamInvite(_ context.Context, to string, d email.TeamInviteData) error {
	return e.record(email.TemplateTeamInvite, to, d)
}

func (e *Emailer) SendJoinRequest(_ context.Context, to string, d email.JoinRequestData) error {
	return e.record(email.TemplateJoinRequest, to, d)
}

func (e *Emailer) SendDeadlineReminder(_ context.Context, to string, d email.DeadlineReminderData) error {
	return e.record(email.TemplateDeadlineReminder, to, d)
}

func (e *Emailer) SendTeamUpdate(_ context.Context, to string, d email.TeamUpdateData) error {
	return e.record(email.TemplateTeamUpdate, to, d)
}

func (e *Emailer) Emails() []SentEmail {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]SentEmail(nil), e.Sent...)
}
