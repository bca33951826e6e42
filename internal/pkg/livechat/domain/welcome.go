package livechat

import "strings"

// InjectWelcomeVariables substitutes the attendee variables supported by
// welcome-message templates. The variable set is a fixed table; templates may
// reference {firstName}, {lastName} and {name}.
func InjectWelcomeVariables(template string, attendee Attendee) string {
	name := strings.TrimSpace(attendee.FirstName + " " + attendee.LastName)
	r := strings.NewReplacer(
		"{firstName}", attendee.FirstName,
		"{lastName}", attendee.LastName,
		"{name}", name,
	)
	return r.Replace(template)
}
