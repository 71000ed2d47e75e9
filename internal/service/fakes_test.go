package service

import (
	"context"
	"fmt"
	"time"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
)

// In-memory fakes standing in for the pgx repositories. The registration
// fake mirrors the real transaction's deadline/duplicate/capacity checks
// so service tests can exercise the full admission flow.

type fakeEventStore struct {
	events map[string]*model.Event
	regs   *fakeRegStore
	nextID int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]*model.Event)}
}

func (s *fakeEventStore) add(e *model.Event) *model.Event {
	s.nextID++
	e.ID = fmt.Sprintf("event-%d", s.nextID)
	e.CreatedAt = time.Now().UTC()
	s.events[e.ID] = e
	return e
}

func (s *fakeEventStore) Create(_ context.Context, e *model.Event) error {
	s.add(e)
	return nil
}

func (s *fakeEventStore) List(_ context.Context, f model.EventFilter) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if f.ParticipationType != "" && string(e.ParticipationType) != f.ParticipationType {
			continue
		}
		if f.Department != "" && e.Department != f.Department {
			continue
		}
		if f.Category != "" && string(e.Category) != f.Category {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeEventStore) ListByCreator(_ context.Context, creatorID string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if e.EventCreatorID == creatorID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEventStore) Update(_ context.Context, e *model.Event) error {
	if _, ok := s.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *fakeEventStore) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *fakeEventStore) ParticipationCount(_ context.Context, eventID string) (int, error) {
	count := 0
	if s.regs != nil {
		for _, m := range s.regs.members {
			if m.EventID == eventID {
				count++
			}
		}
	}
	return count, nil
}

type fakeRegStore struct {
	events  *fakeEventStore
	teams   []model.Team
	members []model.TeamMember
	nextID  int
	err     error // forced failure for the next RegisterTeam
}

func newFakeRegStore(events *fakeEventStore) *fakeRegStore {
	rs := &fakeRegStore{events: events}
	events.regs = rs
	return rs
}

func (s *fakeRegStore) memberCount(eventID string) int {
	count := 0
	for _, m := range s.members {
		if m.EventID == eventID {
			count++
		}
	}
	return count
}

func (s *fakeRegStore) RegisterTeam(_ context.Context, eventID, teamName, leaderID string, memberIDs []string) (*model.Team, error) {
	if s.err != nil {
		return nil, s.err
	}
	event, ok := s.events.events[eventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !event.RegistrationOpen(time.Now().UTC()) {
		return nil, repository.ErrRegistrationClosed
	}
	for _, m := range s.members {
		if m.EventID != eventID {
			continue
		}
		for _, id := range memberIDs {
			if m.MemberID == id {
				return nil, repository.ErrAlreadyRegistered
			}
		}
	}
	if event.MaxParticipants > 0 && s.memberCount(eventID)+len(memberIDs) > event.MaxParticipants {
		return nil, repository.ErrEventFull
	}

	s.nextID++
	team := model.Team{
		ID:        fmt.Sprintf("team-%d", s.nextID),
		EventID:   eventID,
		Name:      teamName,
		LeaderID:  leaderID,
		CreatedAt: time.Now().UTC(),
	}
	s.teams = append(s.teams, team)
	for _, id := range memberIDs {
		s.members = append(s.members, model.TeamMember{TeamID: team.ID, MemberID: id, EventID: eventID})
	}
	return &team, nil
}

func (s *fakeRegStore) ListForUser(_ context.Context, userID string) ([]model.Registration, error) {
	var out []model.Registration
	for _, m := range s.members {
		if m.MemberID != userID {
			continue
		}
		event := s.events.events[m.EventID]
		out = append(out, model.Registration{TeamID: m.TeamID, EventID: m.EventID, Event: *event})
	}
	return out, nil
}

func (s *fakeRegStore) ListTeamsForEvent(_ context.Context, eventID string) ([]model.TeamWithMembers, error) {
	var out []model.TeamWithMembers
	for _, t := range s.teams {
		if t.EventID != eventID {
			continue
		}
		tm := model.TeamWithMembers{Team: t}
		for _, m := range s.members {
			if m.TeamID == t.ID {
				tm.MemberIDs = append(tm.MemberIDs, m.MemberID)
			}
		}
		out = append(out, tm)
	}
	return out, nil
}

type fakeUserStore struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) add(u *model.User) *model.User {
	s.nextID++
	u.ID = fmt.Sprintf("user-%d", s.nextID)
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	s.add(u)
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

type fakeNotifier struct {
	sentTo []string
	err    error
}

func (n *fakeNotifier) SendRegistrationConfirmation(_ context.Context, user *model.User, _ *model.Event) error {
	if n.err != nil {
		return n.err
	}
	n.sentTo = append(n.sentTo, user.Email)
	return nil
}

type fakeReporter struct {
	captured []error
}

func (r *fakeReporter) CaptureException(err error) {
	r.captured = append(r.captured, err)
}
