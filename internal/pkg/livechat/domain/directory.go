package livechat

import "time"

// The directory types below are owned by the CRUD side of the platform; the
// chat engine only ever reads them.

// Attendee is one registered viewer of one webinar session.
type Attendee struct {
	ID        string    `db:"id"`
	VisitorID string    `db:"visitor_id"`
	SetID     string    `db:"set_id"`
	WebinarID string    `db:"ewebinar_id"`
	StartTime time.Time `db:"start_time"`
	JoinTime  time.Time `db:"join_time"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	OptOut    bool      `db:"opt_out"`
}

// Key returns the attendee's natural key.
func (a *Attendee) Key() AttendeeKey {
	return AttendeeKey{VisitorID: a.VisitorID, SetID: a.SetID, StartTime: a.StartTime}
}

// User is a staff member of a team.
type User struct {
	ID              string `db:"id"`
	FirstName       string `db:"first_name"`
	LastName        string `db:"last_name"`
	ProfileMediaURL string `db:"profile_media_url"`
	TeamID          string `db:"team_id"`
}

// Team groups the staff running webinars together.
type Team struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Webinar carries the room durations and chat settings the engine needs.
type Webinar struct {
	ID                      string `db:"id"`
	WaitingRoomDurationSecs int    `db:"waiting_room_duration_secs"`
	DurationSecs            int    `db:"duration_secs"`
	ExitRoomDurationSecs    int    `db:"exit_room_duration_secs"`
	PrivateWelcomeMessage   string `db:"private_welcome_message"`
}

// WebinarSet is one scheduled series of a webinar, owned by a team and
// assigned a moderator of record.
type WebinarSet struct {
	ID          string  `db:"id"`
	TeamID      string  `db:"team_id"`
	WebinarID   string  `db:"ewebinar_id"`
	ModeratorID *string `db:"moderator_id"`
}

// StaffIdentity is a verified bearer-token identity.
type StaffIdentity struct {
	UserID string
	Role   string
	TeamID string
}
