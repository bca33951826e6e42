package livechat

import "time"

// Connection is one live push-channel registered with the gateway. A
// connection is bound to either an attendee identity or a staff identity,
// never both; the two bindings arrive through different events.
type Connection struct {
	ConnectionID  string     `db:"connection_id"`
	AttendeeID    *string    `db:"attendee_id"`
	SetID         *string    `db:"set_id"`
	UserID        *string    `db:"user_id"`
	Role          *string    `db:"role"`
	TeamID        *string    `db:"team_id"`
	TimeConnected time.Time `db:"time_connected"`
}

// IsStaff reports whether a staff identity has authenticated over this
// connection.
func (c *Connection) IsStaff() bool {
	return c.UserID != nil && *c.UserID != ""
}

// IsAttendee reports whether an attendee has identified over this connection.
func (c *Connection) IsAttendee() bool {
	return c.AttendeeID != nil && *c.AttendeeID != ""
}

// BindStaff rewrites the staff binding. It returns true when anything
// actually changed so callers can skip needless writes.
func (c *Connection) BindStaff(userID, role, teamID string) bool {
	if c.UserID != nil && *c.UserID == userID &&
		c.Role != nil && *c.Role == role &&
		c.TeamID != nil && *c.TeamID == teamID {
		return false
	}
	c.UserID = &userID
	c.Role = &role
	c.TeamID = &teamID
	return true
}

// BindAttendee attaches an attendee identity and their session set.
func (c *Connection) BindAttendee(attendeeID, setID string) {
	c.AttendeeID = &attendeeID
	c.SetID = &setID
}
