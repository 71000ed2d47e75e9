package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
)

func validEventRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		EventName:         "Robo Wars",
		EventDescription:  "Robot combat tournament",
		Department:        "Mechanical",
		Category:          model.CategoryTechnical,
		ParticipationType: model.ParticipationTeam,
		MinTeamSize:       2,
		MaxTeamSize:       5,
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewEventService(newFakeEventStore(), nil)

	tests := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
		field  string
	}{
		{"missing name", func(r *model.CreateEventRequest) { r.EventName = "  " }, "event_name"},
		{"missing description", func(r *model.CreateEventRequest) { r.EventDescription = "" }, "event_description"},
		{"unknown category", func(r *model.CreateEventRequest) { r.Category = "Gaming" }, "category"},
		{"unknown participation type", func(r *model.CreateEventRequest) { r.ParticipationType = "Duo" }, "participation_type"},
		{"negative fee", func(r *model.CreateEventRequest) { r.RegistrationFee = -10 }, "registration_fee"},
		{"zero min team size", func(r *model.CreateEventRequest) { r.MinTeamSize = 0 }, "min_team_size"},
		{"max below min", func(r *model.CreateEventRequest) { r.MaxTeamSize = 1 }, "max_team_size"},
		{"negative participant cap", func(r *model.CreateEventRequest) { r.MaxParticipants = -1 }, "max_participants"},
		{"deadline after start", func(r *model.CreateEventRequest) {
			r.StartDate = time.Now().Add(24 * time.Hour)
			r.RegistrationDeadline = time.Now().Add(48 * time.Hour)
		}, "registration_deadline"},
		{"end before start", func(r *model.CreateEventRequest) {
			r.StartDate = time.Now().Add(48 * time.Hour)
			r.EndDate = time.Now().Add(24 * time.Hour)
		}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventRequest()
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), req, "creator", nil)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestCreateEventTagsCreator(t *testing.T) {
	store := newFakeEventStore()
	svc := NewEventService(store, nil)

	event, err := svc.Create(context.Background(), validEventRequest(), "creator-1", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if event.EventCreatorID != "creator-1" {
		t.Errorf("EventCreatorID = %q, want %q", event.EventCreatorID, "creator-1")
	}
	if event.ID == "" {
		t.Error("expected a generated event ID")
	}
}

func TestCreateSoloEventForcesTeamOfOne(t *testing.T) {
	svc := NewEventService(newFakeEventStore(), nil)

	req := validEventRequest()
	req.ParticipationType = model.ParticipationSolo
	req.MinTeamSize = 3
	req.MaxTeamSize = 10

	event, err := svc.Create(context.Background(), req, "creator", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if event.MinTeamSize != 1 || event.MaxTeamSize != 1 {
		t.Errorf("solo event team sizes = [%d,%d], want [1,1]", event.MinTeamSize, event.MaxTeamSize)
	}
}

func TestUpdateEventOwnership(t *testing.T) {
	store := newFakeEventStore()
	svc := NewEventService(store, nil)

	event, err := svc.Create(context.Background(), validEventRequest(), "owner", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	t.Run("non-owner gets forbidden", func(t *testing.T) {
		req := validEventRequest()
		req.EventName = "Hijacked"
		_, err := svc.Update(context.Background(), event.ID, req, "intruder", nil)
		if !errors.Is(err, repository.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		stored, _ := store.GetByID(context.Background(), event.ID)
		if stored.EventName != "Robo Wars" {
			t.Errorf("event name changed to %q despite forbidden update", stored.EventName)
		}
	})

	t.Run("owner can update", func(t *testing.T) {
		req := validEventRequest()
		req.EventName = "Robo Wars 2.0"
		updated, err := svc.Update(context.Background(), event.ID, req, "owner", nil)
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if updated.EventName != "Robo Wars 2.0" {
			t.Errorf("EventName = %q, want %q", updated.EventName, "Robo Wars 2.0")
		}
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "missing", validEventRequest(), "owner", nil)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteEventOwnership(t *testing.T) {
	store := newFakeEventStore()
	svc := NewEventService(store, nil)

	event, err := svc.Create(context.Background(), validEventRequest(), "owner", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), event.ID, "intruder"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := store.GetByID(context.Background(), event.ID); err != nil {
		t.Fatal("event should survive a forbidden delete")
	}

	if err := svc.Delete(context.Background(), event.ID, "owner"); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
	if _, err := store.GetByID(context.Background(), event.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Error("event should be gone after owner delete")
	}
}

func TestParticipationCount(t *testing.T) {
	events := newFakeEventStore()
	regs := newFakeRegStore(events)
	users := newFakeUserStore()
	eventSvc := NewEventService(events, nil)
	regSvc := NewRegistrationService(events, regs, users, nil, nil)

	event := events.add(teamEvent(1, 4, 0))
	leader := addUser(users, "leader@college.edu")
	member := addUser(users, "member@college.edu")

	if _, err := regSvc.RegisterTeam(context.Background(), leader.ID, model.RegisterTeamRequest{
		EventID:   event.ID,
		TeamName:  "Counted",
		MemberIDs: []string{member.ID},
	}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	count, err := eventSvc.ParticipationCount(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ParticipationCount returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	if _, err := eventSvc.ParticipationCount(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown event, got %v", err)
	}
}

func TestGetEvent(t *testing.T) {
	store := newFakeEventStore()
	svc := NewEventService(store, nil)
	event := store.add(teamEvent(2, 4, 0))

	got, err := svc.Get(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID != event.ID {
		t.Errorf("got event %q, want %q", got.ID, event.ID)
	}

	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty id, got %v", err)
	}
}
