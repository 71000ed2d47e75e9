package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utsavhq/utsav/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, event_name, event_description, department, venue,
	category, participation_type, min_team_size, max_team_size,
	max_participants, registration_fee, registration_deadline, start_date,
	end_date, organizer, contact_info, prize_first, prize_second, prize_third,
	image_url, event_creator_id, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e                    model.Event
		deadline, start, end *time.Time
	)
	err := row.Scan(
		&e.ID, &e.EventName, &e.EventDescription, &e.Department, &e.Venue,
		&e.Category, &e.ParticipationType, &e.MinTeamSize, &e.MaxTeamSize,
		&e.MaxParticipants, &e.RegistrationFee, &deadline, &start,
		&end, &e.Organizer, &e.ContactInfo, &e.Prizes.First, &e.Prizes.Second,
		&e.Prizes.Third, &e.ImageURL, &e.EventCreatorID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	if deadline != nil {
		e.RegistrationDeadline = *deadline
	}
	if start != nil {
		e.StartDate = *start
	}
	if end != nil {
		e.EndDate = *end
	}
	return &e, nil
}

// nullableTime maps the zero time to SQL NULL so "no deadline" round-trips.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Create inserts a new event and fills in its generated ID.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22)`,
		e.ID, e.EventName, e.EventDescription, e.Department, e.Venue,
		e.Category, e.ParticipationType, e.MinTeamSize, e.MaxTeamSize,
		e.MaxParticipants, e.RegistrationFee, nullableTime(e.RegistrationDeadline),
		nullableTime(e.StartDate), nullableTime(e.EndDate), e.Organizer,
		e.ContactInfo, e.Prizes.First, e.Prizes.Second, e.Prizes.Third,
		e.ImageURL, e.EventCreatorID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns events matching the given equality filters, newest first.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var (
		conds []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("participation_type", f.ParticipationType)
	add("department", f.Department)
	add("category", f.Category)
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByCreator returns all events created by the given user, newest first.
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_creator_id = $1
		 ORDER BY created_at DESC`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

// Update persists the mutable fields of e.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET event_name = $2, event_description = $3, department = $4,
		     venue = $5, category = $6, participation_type = $7,
		     min_team_size = $8, max_team_size = $9, max_participants = $10,
		     registration_fee = $11, registration_deadline = $12,
		     start_date = $13, end_date = $14, organizer = $15,
		     contact_info = $16, prize_first = $17, prize_second = $18,
		     prize_third = $19, image_url = $20
		 WHERE id = $1`,
		e.ID, e.EventName, e.EventDescription, e.Department, e.Venue,
		e.Category, e.ParticipationType, e.MinTeamSize, e.MaxTeamSize,
		e.MaxParticipants, e.RegistrationFee, nullableTime(e.RegistrationDeadline),
		nullableTime(e.StartDate), nullableTime(e.EndDate), e.Organizer,
		e.ContactInfo, e.Prizes.First, e.Prizes.Second, e.Prizes.Third,
		e.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Teams and members cascade at the schema level.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ParticipationCount counts team member rows for an event. Team sizes vary
// per team, so this is the one reliable signal of how full an event is.
func (r *EventRepository) ParticipationCount(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_members WHERE event_id = $1`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count participation: %w", err)
	}
	return count, nil
}
