// Package model defines the core domain types for the college event
// management system.
package model

import "time"

// EventCategory classifies an event for browsing filters.
type EventCategory string

const (
	CategoryTechnical    EventCategory = "Technical"
	CategoryNonTechnical EventCategory = "Non-Technical"
	CategoryCultural     EventCategory = "Cultural"
	CategorySports       EventCategory = "Sports"
)

// Valid reports whether c is one of the known categories.
func (c EventCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryNonTechnical, CategoryCultural, CategorySports:
		return true
	}
	return false
}

// ParticipationType says whether an event is entered alone or as a team.
type ParticipationType string

const (
	ParticipationSolo ParticipationType = "Solo"
	ParticipationTeam ParticipationType = "Team"
)

// Valid reports whether p is a known participation type.
func (p ParticipationType) Valid() bool {
	return p == ParticipationSolo || p == ParticipationTeam
}

// EventStatus is derived from the event dates at read time, never stored.
type EventStatus string

const (
	StatusUpcoming  EventStatus = "Upcoming"
	StatusOngoing   EventStatus = "Ongoing"
	StatusCompleted EventStatus = "Completed"
)

// User is a student or organizer profile. The password hash never leaves
// the server.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender,omitempty"`
	Stream         string     `json:"stream,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassingOutYear *int       `json:"passing_out_year,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	PasswordHash   string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UserRef is the minimal projection returned by the by-email lookup used
// when a team leader adds members on the registration form.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the public projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Prizes holds the prize descriptions for the top three places.
type Prizes struct {
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Third  string `json:"third,omitempty"`
}

// Event represents a college event created by an organizer.
type Event struct {
	ID                   string            `json:"id"`
	EventName            string            `json:"event_name"`
	EventDescription     string            `json:"event_description"`
	Department           string            `json:"department,omitempty"`
	Venue                string            `json:"venue,omitempty"`
	Category             EventCategory     `json:"category"`
	ParticipationType    ParticipationType `json:"participation_type"`
	MinTeamSize          int               `json:"min_team_size"`
	MaxTeamSize          int               `json:"max_team_size"`
	MaxParticipants      int               `json:"max_participants"`
	RegistrationFee      float64           `json:"registration_fee"`
	RegistrationDeadline time.Time         `json:"registration_deadline"`
	StartDate            time.Time         `json:"start_date"`
	EndDate              time.Time         `json:"end_date"`
	Organizer            string            `json:"organizer,omitempty"`
	ContactInfo          string            `json:"contact_info,omitempty"`
	Prizes               Prizes            `json:"prizes"`
	ImageURL             string            `json:"image_url,omitempty"`
	EventCreatorID       string            `json:"event_creator_id"`
	CreatedAt            time.Time         `json:"created_at"`
}

// IsTeamEvent reports whether registrations are made by teams rather than
// individuals.
func (e *Event) IsTeamEvent() bool {
	return e.ParticipationType == ParticipationTeam
}

// RegistrationOpen reports whether new registrations are still accepted at
// the given instant. A zero deadline means registration never closes.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.RegistrationDeadline.IsZero() || !now.After(e.RegistrationDeadline)
}

// DeriveStatus computes the lifecycle status of an event at the given
// instant. It is the single source of truth for upcoming/ongoing/completed
// so the server and its clients never drift.
func DeriveStatus(e *Event, now time.Time) EventStatus {
	if !e.EndDate.IsZero() && now.After(e.EndDate) {
		return StatusCompleted
	}
	if !e.StartDate.IsZero() && now.Before(e.StartDate) {
		return StatusUpcoming
	}
	if e.StartDate.IsZero() && e.EndDate.IsZero() {
		return StatusUpcoming
	}
	return StatusOngoing
}

// Team is the registration unit for an event. Solo events register a
// team-of-one.
type Team struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember links a user to a team. EventID is denormalized so per-event
// participation counts are a single indexed scan.
type TeamMember struct {
	TeamID   string `json:"team_id"`
	MemberID string `json:"member_id"`
	EventID  string `json:"event_id"`
}

// TeamWithMembers is a team joined with its member ids, as listed in an
// event's registrations view.
type TeamWithMembers struct {
	Team
	MemberIDs []string `json:"member_ids"`
}

// Registration is one of the caller's registrations joined with its event,
// as shown on the dashboard.
type Registration struct {
	TeamID  string `json:"team_id"`
	EventID string `json:"event_id"`
	Event   Event  `json:"event"`
}

// EventFilter holds the equality filters accepted by the event listing.
type EventFilter struct {
	ParticipationType string
	Department        string
	Category          string
}

// ─── Request payloads ────────────────────────────────────────────────────────

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	Gender         string     `json:"gender,omitempty"`
	Stream         string     `json:"stream,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassingOutYear *int       `json:"passing_out_year,omitempty"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Name           string     `json:"name"`
	Gender         string     `json:"gender,omitempty"`
	Stream         string     `json:"stream,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassingOutYear *int       `json:"passing_out_year,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	Bio            string     `json:"bio,omitempty"`
}

// CreateEventRequest is the payload for creating or updating an event. On
// the wire it arrives as the eventData field of a multipart form, with the
// optional image as a separate file part.
type CreateEventRequest struct {
	EventName            string            `json:"event_name"`
	EventDescription     string            `json:"event_description"`
	Department           string            `json:"department,omitempty"`
	Venue                string            `json:"venue,omitempty"`
	Category             EventCategory     `json:"category"`
	ParticipationType    ParticipationType `json:"participation_type"`
	MinTeamSize          int               `json:"min_team_size"`
	MaxTeamSize          int               `json:"max_team_size"`
	MaxParticipants      int               `json:"max_participants"`
	RegistrationFee      float64           `json:"registration_fee"`
	RegistrationDeadline time.Time         `json:"registration_deadline"`
	StartDate            time.Time         `json:"start_date"`
	EndDate              time.Time         `json:"end_date"`
	Organizer            string            `json:"organizer,omitempty"`
	ContactInfo          string            `json:"contact_info,omitempty"`
	Prizes               Prizes            `json:"prizes"`
}

// RegisterTeamRequest is the payload for registering a team (or a solo
// entrant) for an event. The leader is the authenticated caller and does
// not appear in member_ids on the wire.
type RegisterTeamRequest struct {
	EventID   string   `json:"event_id"`
	TeamName  string   `json:"team_name"`
	MemberIDs []string `json:"member_ids"`
}

// ErrorResponse is the standard JSON error envelope. Fields carries
// per-field validation codes when present.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
