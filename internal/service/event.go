package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
)

// EventStore is the persistence surface the event service needs.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
	ParticipationCount(ctx context.Context, eventID string) (int, error)
}

// Uploader stores an event image and returns its public URL.
type Uploader interface {
	UploadEventImage(ctx context.Context, filename string, data []byte) (string, error)
}

// Upload is an image file attached to an event create/update request.
type Upload struct {
	Filename string
	Data     []byte
}

// EventService orchestrates event CRUD and participation counting.
type EventService struct {
	events   EventStore
	uploader Uploader
}

// NewEventService constructs an EventService. uploader may be nil when no
// object store is configured; image uploads are then rejected.
func NewEventService(events EventStore, uploader Uploader) *EventService {
	return &EventService{events: events, uploader: uploader}
}

func validateEvent(req *model.CreateEventRequest) *ValidationError {
	req.EventName = strings.TrimSpace(req.EventName)
	req.EventDescription = strings.TrimSpace(req.EventDescription)

	fields := make(map[string]string)
	if req.EventName == "" {
		fields["event_name"] = "event_name_required"
	}
	if req.EventDescription == "" {
		fields["event_description"] = "event_description_required"
	}
	if !req.Category.Valid() {
		fields["category"] = "unknown_category"
	}
	if !req.ParticipationType.Valid() {
		fields["participation_type"] = "unknown_participation_type"
	}
	if req.RegistrationFee < 0 {
		fields["registration_fee"] = "fee_cannot_be_negative"
	}
	if req.MaxParticipants < 0 {
		fields["max_participants"] = "max_participants_cannot_be_negative"
	}

	switch req.ParticipationType {
	case model.ParticipationTeam:
		if req.MinTeamSize < 1 {
			fields["min_team_size"] = "min_team_size_must_be_positive"
		}
		if req.MaxTeamSize < req.MinTeamSize {
			fields["max_team_size"] = "max_team_size_below_minimum"
		}
	case model.ParticipationSolo:
		// Solo events are teams-of-one regardless of what the client sent.
		req.MinTeamSize = 1
		req.MaxTeamSize = 1
	}

	if !req.RegistrationDeadline.IsZero() && !req.StartDate.IsZero() &&
		req.RegistrationDeadline.After(req.StartDate) {
		fields["registration_deadline"] = "deadline_after_event_start"
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() &&
		req.EndDate.Before(req.StartDate) {
		fields["end_date"] = "end_date_before_start_date"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *EventService) uploadImage(ctx context.Context, image *Upload) (string, error) {
	if image == nil {
		return "", nil
	}
	if s.uploader == nil {
		return "", fieldError("file", "image_uploads_not_configured")
	}
	url, err := s.uploader.UploadEventImage(ctx, image.Filename, image.Data)
	if err != nil {
		return "", err
	}
	return url, nil
}

// Create validates the request, uploads the optional image, and inserts
// the event tagged with its creator.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest, creatorID string, image *Upload) (*model.Event, error) {
	if verr := validateEvent(&req); verr != nil {
		return nil, verr
	}

	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		EventName:            req.EventName,
		EventDescription:     req.EventDescription,
		Department:           req.Department,
		Venue:                req.Venue,
		Category:             req.Category,
		ParticipationType:    req.ParticipationType,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		MaxParticipants:      req.MaxParticipants,
		RegistrationFee:      req.RegistrationFee,
		RegistrationDeadline: req.RegistrationDeadline,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Organizer:            req.Organizer,
		ContactInfo:          req.ContactInfo,
		Prizes:               req.Prizes,
		ImageURL:             imageURL,
		EventCreatorID:       creatorID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// List returns events matching the filters.
func (s *EventService) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	return s.events.List(ctx, f)
}

// ListForCreator returns the caller's own events.
func (s *EventService) ListForCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	return s.events.ListByCreator(ctx, creatorID)
}

// Get returns a single event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.events.GetByID(ctx, id)
}

// ownedEvent fetches an event and verifies the caller created it. A
// non-owner gets ErrForbidden, distinct from ErrNotFound, instead of the
// silent zero-row update this replaces.
func (s *EventService) ownedEvent(ctx context.Context, id, callerID string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.EventCreatorID != callerID {
		return nil, repository.ErrForbidden
	}
	return event, nil
}

// Update applies the request to an event owned by the caller.
func (s *EventService) Update(ctx context.Context, id string, req model.CreateEventRequest, callerID string, image *Upload) (*model.Event, error) {
	event, err := s.ownedEvent(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if verr := validateEvent(&req); verr != nil {
		return nil, verr
	}

	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		event.ImageURL = imageURL
	}

	event.EventName = req.EventName
	event.EventDescription = req.EventDescription
	event.Department = req.Department
	event.Venue = req.Venue
	event.Category = req.Category
	event.ParticipationType = req.ParticipationType
	event.MinTeamSize = req.MinTeamSize
	event.MaxTeamSize = req.MaxTeamSize
	event.MaxParticipants = req.MaxParticipants
	event.RegistrationFee = req.RegistrationFee
	event.RegistrationDeadline = req.RegistrationDeadline
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Organizer = req.Organizer
	event.ContactInfo = req.ContactInfo
	event.Prizes = req.Prizes

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes an event owned by the caller.
func (s *EventService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedEvent(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ParticipationCount returns the number of registered participants for an
// event, verifying the event exists first.
func (s *EventService) ParticipationCount(ctx context.Context, id string) (int, error) {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}
	return s.events.ParticipationCount(ctx, id)
}
