package livechat

// AttendeeOnline reports whether any live connection is bound to the given
// attendee.
func AttendeeOnline(attendeeID string, live []Connection) bool {
	for i := range live {
		if live[i].AttendeeID != nil && *live[i].AttendeeID == attendeeID {
			return true
		}
	}
	return false
}

// ActingStaffOnline reports whether the specific acting staff member has a
// live connection. Deliberately not "any teammate online": offline
// notifications target the assignee, so presence is judged against them
// alone.
func ActingStaffOnline(userID string, live []Connection) bool {
	for i := range live {
		if live[i].UserID != nil && *live[i].UserID == userID {
			return true
		}
	}
	return false
}
