// Package query turns loose chat text like "alice's tasks" into a
// structured task query.
package query

import (
	"regexp"
	"strings"
)

// Query is a parsed task query. State defaults to "open" when the text
// does not name one.
type Query struct {
	User  string
	State string
}

var commandPattern = regexp.MustCompile(`^(.+) tasks?\??$`)

// Parse matches text of the shape "<subject> tasks" or "<subject> task"
// (optional trailing "?"). A nil result means the text is not a task
// query at all; that is not an error, other handlers may still want it.
//
//	"kdreyer's tasks"
//	"kdreyer failed tasks"
//	"kdreyer task?"
func Parse(text string) *Query {
	m := commandPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return fromSubject(m[1])
}

func fromSubject(subject string) *Query {
	parts := strings.Fields(subject)

	var state string
	switch len(parts) {
	case 1:
		state = "open"
	case 2:
		state = parts[1]
	default:
		return nil
	}

	// cleanup a possessive username
	user := parts[0]
	if strings.HasSuffix(user, "'s") {
		user = user[:len(user)-2]
	} else if strings.HasSuffix(user, "'") {
		user = user[:len(user)-1]
	}

	return &Query{User: user, State: state}
}
