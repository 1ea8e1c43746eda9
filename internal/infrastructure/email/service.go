package email

import "context"

// Service renders a template and hands the result to the mailer.
type Service struct {
	renderer *Renderer
	mailer   Mailer
}

func NewService(renderer *Renderer, mailer Mailer) *Service {
	return &Service{renderer: renderer, mailer: mailer}
}

func (s *Service) SendTeamInvite(ctx context.Context, to string, d TeamInviteData) error {
	msg, err := s.renderer.TeamInvite(to, d)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *Service) SendJoinRequest(ctx context.Context, to string, d JoinRequestData) error {
	msg, err := s.renderer.JoinRequest(to, d)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *Service) SendDeadlineReminder(ctx context.Context, to string, d DeadlineReminderData) error {
	msg, err := s.renderer.DeadlineReminder(to, d)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *Service) SendTeamUpdate(ctx context.Context, to string, d TeamUpdateData) error {
	msg, err := s.renderer.TeamUpdate(to, d)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}
