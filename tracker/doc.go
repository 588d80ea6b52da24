// Package tracker files tickets in Jira, GitHub Issues or GitLab Issues.
//
// Every implementation sends a single create request per CreateTicket call
// and reports failures as *Error with a Kind the caller can branch on:
//
//	ref, err := t.CreateTicket(ctx, d, "PROJ")
//	switch tracker.KindOf(err) {
//	case tracker.KindAuth:       // credentials rejected
//	case tracker.KindValidation: // board or fields rejected
//	}
package tracker
