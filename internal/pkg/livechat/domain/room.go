package livechat

import "time"

// RoomPhase identifies which room of a webinar a moment in time falls into.
type RoomPhase string

const (
	RoomWaiting      RoomPhase = "Waiting"
	RoomPresentation RoomPhase = "Presentation"
	RoomExit         RoomPhase = "Exit"
)

// PhaseAt maps a wall-clock send time onto a (phase, secondsIntoPhase) pair for
// the given webinar. When the client supplied an explicit offset into the
// session it is used directly; otherwise the offset is approximated from the
// attendee's start time. The approximation is only used for staff-authored
// messages and does not hold up in replay scenarios.
func PhaseAt(startTime time.Time, webinar Webinar, sentAt time.Time, explicitSecs *float64) (RoomPhase, float64) {
	var offset float64
	if explicitSecs != nil {
		offset = *explicitSecs
	} else {
		offset = sentAt.Sub(startTime).Seconds()
	}

	waiting := float64(webinar.WaitingRoomDurationSecs)
	duration := float64(webinar.DurationSecs)

	if offset < waiting {
		return RoomWaiting, offset
	}
	if offset < waiting+duration {
		return RoomPresentation, offset - waiting
	}
	return RoomExit, offset - waiting - duration
}

// PresentationOffset converts a phase-relative position back into elapsed
// presentation seconds. Waiting contributes nothing and Exit counts as the
// full presentation; analytics relies on this when bucketing reactions.
func PresentationOffset(phase RoomPhase, secsIntoPhase float64, webinar Webinar) float64 {
	switch phase {
	case RoomWaiting:
		return 0
	case RoomExit:
		return float64(webinar.DurationSecs)
	default:
		return secsIntoPhase
	}
}

// PhaseForOffset is the coarse inverse of PresentationOffset: it classifies a
// presentation-relative offset without waiting-room context.
func PhaseForOffset(offsetSecs float64, webinar Webinar) RoomPhase {
	if offsetSecs < 0 {
		return RoomWaiting
	}
	if offsetSecs < float64(webinar.DurationSecs) {
		return RoomPresentation
	}
	return RoomExit
}

// IsReplay reports whether the attendee's session has already run past the
// live window, i.e. they are watching a recording.
func IsReplay(attendee Attendee, webinar Webinar, now time.Time) bool {
	end := attendee.StartTime.Add(time.Duration(webinar.DurationSecs+webinar.ExitRoomDurationSecs) * time.Second)
	return now.After(end)
}
