package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
)

// RegistrationStore is the persistence surface the registration service
// needs.
type RegistrationStore interface {
	RegisterTeam(ctx context.Context, eventID, teamName, leaderID string, memberIDs []string) (*model.Team, error)
	ListForUser(ctx context.Context, userID string) ([]model.Registration, error)
	ListTeamsForEvent(ctx context.Context, eventID string) ([]model.TeamWithMembers, error)
}

// Notifier sends the registration confirmation to the team leader.
type Notifier interface {
	SendRegistrationConfirmation(ctx context.Context, user *model.User, event *model.Event) error
}

// ErrorReporter forwards unexpected errors to an error tracker.
type ErrorReporter interface {
	CaptureException(err error)
}

// RegistrationService turns a registration request into a durable team
// plus member rows and notifies the leader.
type RegistrationService struct {
	events   EventStore
	regs     RegistrationStore
	users    UserStore
	notifier Notifier
	reporter ErrorReporter
}

// NewRegistrationService constructs a RegistrationService. notifier and
// reporter may be nil.
func NewRegistrationService(events EventStore, regs RegistrationStore, users UserStore, notifier Notifier, reporter ErrorReporter) *RegistrationService {
	return &RegistrationService{
		events:   events,
		regs:     regs,
		users:    users,
		notifier: notifier,
		reporter: reporter,
	}
}

// normalizeMembers produces the full member set for a team: the leader
// first, then the requested members in order, with duplicates and blanks
// dropped.
func normalizeMembers(leaderID string, memberIDs []string) []string {
	members := []string{leaderID}
	seen := map[string]bool{leaderID: true}
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	return members
}

// RegisterTeam validates a registration request against the event's rules
// and persists it atomically. The leader is the authenticated caller.
//
// Size and deadline checks run here, before any row is written; the
// repository repeats the deadline, duplicate, and capacity checks inside
// the transaction that holds the event lock, which is what makes them
// authoritative under concurrency.
func (s *RegistrationService) RegisterTeam(ctx context.Context, leaderID string, req model.RegisterTeamRequest) (*model.Team, error) {
	req.TeamName = strings.TrimSpace(req.TeamName)
	if req.EventID == "" {
		return nil, fieldError("event_id", "event_id_required")
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if !event.RegistrationOpen(time.Now().UTC()) {
		return nil, repository.ErrRegistrationClosed
	}

	members := normalizeMembers(leaderID, req.MemberIDs)

	if event.IsTeamEvent() {
		fields := make(map[string]string)
		if req.TeamName == "" {
			fields["team_name"] = "team_name_required"
		}
		if len(members) < event.MinTeamSize {
			fields["member_ids"] = "team_below_minimum_size"
		} else if len(members) > event.MaxTeamSize {
			fields["member_ids"] = "team_above_maximum_size"
		}
		if len(fields) > 0 {
			return nil, &ValidationError{Fields: fields}
		}
	} else {
		if len(members) != 1 {
			return nil, fieldError("member_ids", "solo_event_takes_one_participant")
		}
		if req.TeamName == "" {
			req.TeamName = event.EventName + " entry"
		}
	}

	team, err := s.regs.RegisterTeam(ctx, req.EventID, req.TeamName, leaderID, members)
	if err != nil {
		// Surface domain errors directly so handlers can set correct HTTP
		// status.
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrEventFull) ||
			errors.Is(err, repository.ErrAlreadyRegistered) ||
			errors.Is(err, repository.ErrRegistrationClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("register team: %w", err)
	}

	s.notifyLeader(ctx, leaderID, event)
	return team, nil
}

// notifyLeader sends the confirmation email. Best-effort: the registration
// already committed, so failures are logged and reported but never undo or
// fail the registration.
func (s *RegistrationService) notifyLeader(ctx context.Context, leaderID string, event *model.Event) {
	if s.notifier == nil {
		return
	}
	leader, err := s.users.GetByID(ctx, leaderID)
	if err != nil {
		log.Printf("registration confirmation: lookup leader %s: %v", leaderID, err)
		return
	}
	if err := s.notifier.SendRegistrationConfirmation(ctx, leader, event); err != nil {
		log.Printf("registration confirmation for %s: %v", leader.Email, err)
		if s.reporter != nil {
			s.reporter.CaptureException(err)
		}
	}
}

// ListForUser returns the caller's registrations joined with event data.
func (s *RegistrationService) ListForUser(ctx context.Context, userID string) ([]model.Registration, error) {
	return s.regs.ListForUser(ctx, userID)
}

// ListTeamsForEvent returns the teams registered for an event.
func (s *RegistrationService) ListTeamsForEvent(ctx context.Context, eventID string) ([]model.TeamWithMembers, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.regs.ListTeamsForEvent(ctx, eventID)
}
