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

// RegistrationRepository handles persistence for teams and their members.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// RegisterTeam creates a team and all of its member rows atomically.
// memberIDs is the full member set, already normalized: deduplicated and
// containing the leader exactly once.
//
// Two registrations racing for the last slots of an event must not both be
// admitted. Naively reading the participation count and then inserting
// lets both transactions see the same free capacity, overshooting
// max_participants. The event row is therefore locked with
// SELECT ... FOR UPDATE first: concurrent registrations for the same event
// serialize on that lock, so the count each one reads is authoritative
// until it commits.
//
// The same lock covers the duplicate-membership check; the
// UNIQUE (event_id, member_id) index backs it up in case a member joins
// through a different code path.
func (r *RegistrationRepository) RegisterTeam(ctx context.Context, eventID, teamName, leaderID string, memberIDs []string) (team *model.Team, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: lock the event row and read the admission inputs.
	var (
		maxParticipants int
		deadline        *time.Time
	)
	err = tx.QueryRow(ctx,
		`SELECT max_participants, registration_deadline
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		eventID,
	).Scan(&maxParticipants, &deadline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	// Step 2: deadline check, against the clock at lock time.
	if deadline != nil && time.Now().UTC().After(*deadline) {
		return nil, ErrRegistrationClosed
	}

	// Step 3: no proposed member may already be registered for this event.
	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_members
		 WHERE event_id = $1 AND member_id = ANY($2)`,
		eventID, memberIDs,
	).Scan(&dupCount)
	if err != nil {
		return nil, fmt.Errorf("check duplicate members: %w", err)
	}
	if dupCount > 0 {
		return nil, ErrAlreadyRegistered
	}

	// Step 4: capacity. max_participants <= 0 means unlimited.
	if maxParticipants > 0 {
		var current int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM team_members WHERE event_id = $1`,
			eventID,
		).Scan(&current)
		if err != nil {
			return nil, fmt.Errorf("count participation: %w", err)
		}
		if current+len(memberIDs) > maxParticipants {
			return nil, ErrEventFull
		}
	}

	// Step 5: create the team.
	team = &model.Team{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Name:      teamName,
		LeaderID:  leaderID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO teams (id, event_id, name, leader_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		team.ID, team.EventID, team.Name, team.LeaderID, team.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}

	// Step 6: bulk-insert the member rows in the same transaction, so a
	// failure here rolls the team back too - no orphan teams.
	batch := &pgx.Batch{}
	for _, memberID := range memberIDs {
		batch.Queue(
			`INSERT INTO team_members (team_id, member_id, event_id)
			 VALUES ($1, $2, $3)`,
			team.ID, memberID, eventID,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range memberIDs {
		if _, execErr := results.Exec(); execErr != nil {
			_ = results.Close()
			if isUniqueViolation(execErr) {
				err = ErrAlreadyRegistered
			} else {
				err = fmt.Errorf("insert team member: %w", execErr)
			}
			return nil, err
		}
	}
	if err = results.Close(); err != nil {
		return nil, fmt.Errorf("close member batch: %w", err)
	}

	// Step 7: commit - only now do other registrations see the change.
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return team, nil
}

// ListForUser returns the caller's registrations joined with their events,
// newest event first.
func (r *RegistrationRepository) ListForUser(ctx context.Context, userID string) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tm.team_id, `+prefixedEventColumns("e")+`
		 FROM team_members tm
		 JOIN events e ON e.id = tm.event_id
		 WHERE tm.member_id = $1
		 ORDER BY e.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var (
			reg                  model.Registration
			deadline, start, end *time.Time
		)
		e := &reg.Event
		err := rows.Scan(
			&reg.TeamID,
			&e.ID, &e.EventName, &e.EventDescription, &e.Department, &e.Venue,
			&e.Category, &e.ParticipationType, &e.MinTeamSize, &e.MaxTeamSize,
			&e.MaxParticipants, &e.RegistrationFee, &deadline, &start,
			&end, &e.Organizer, &e.ContactInfo, &e.Prizes.First,
			&e.Prizes.Second, &e.Prizes.Third, &e.ImageURL, &e.EventCreatorID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
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
		reg.EventID = e.ID
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// ListTeamsForEvent returns all teams registered for an event together
// with their member ids, in registration order.
func (r *RegistrationRepository) ListTeamsForEvent(ctx context.Context, eventID string) ([]model.TeamWithMembers, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.event_id, t.name, t.leader_id, t.created_at, tm.member_id
		 FROM teams t
		 JOIN team_members tm ON tm.team_id = t.id
		 WHERE t.event_id = $1
		 ORDER BY t.created_at ASC, t.id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var (
		teams []model.TeamWithMembers
		byID  = map[string]int{}
	)
	for rows.Next() {
		var (
			t        model.Team
			memberID string
		)
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.LeaderID, &t.CreatedAt, &memberID); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		idx, ok := byID[t.ID]
		if !ok {
			idx = len(teams)
			byID[t.ID] = idx
			teams = append(teams, model.TeamWithMembers{Team: t})
		}
		teams[idx].MemberIDs = append(teams[idx].MemberIDs, memberID)
	}
	return teams, rows.Err()
}

// prefixedEventColumns qualifies every event column with a table alias for
// use in joins.
func prefixedEventColumns(alias string) string {
	cols := []string{
		"id", "event_name", "event_description", "department", "venue",
		"category", "participation_type", "min_team_size", "max_team_size",
		"max_participants", "registration_fee", "registration_deadline",
		"start_date", "end_date", "organizer", "contact_info", "prize_first",
		"prize_second", "prize_third", "image_url", "event_creator_id",
		"created_at",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}
