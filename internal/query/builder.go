package query

import (
	"fmt"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

// Kind selects the entity a query runs against.
type Kind int

const (
	KindConference Kind = iota
	KindSession
)

// Build compiles parsed filters into an executable query descriptor.
// Ordering is mandatory and deterministic: the inequality column (when
// present) sorts first, followed by the tie-breaking keys of the kind
// (conferences: name; sessions: start_time, name). A non-empty excluded-type
// set compiles to a single equality-against-allow-list clause. For sessions,
// a non-nil conferenceID scopes the query to that conference's children.
func Build(kind Kind, p *Parsed, conferenceID *int64) *domain.Query {
	q := &domain.Query{}
	n := 1
	for _, pr := range p.Predicates {
		if pr.Column == "topics" {
			// topics is a repeated value; compare against any element.
			q.Where = append(q.Where, fmt.Sprintf("$%d %s ANY(topics)", n, pr.Op))
		} else {
			q.Where = append(q.Where, fmt.Sprintf("%s %s $%d", pr.Column, pr.Op, n))
		}
		q.Args = append(q.Args, pr.Value)
		n++
	}

	switch kind {
	case KindConference:
		q.Order = orderKeys(p.InequalityColumn, "name")
	case KindSession:
		if len(p.ExcludedTypes) > 0 {
			// The store cannot express NOT IN directly: build the
			// allow-list of the remaining types and require equality with
			// one of them.
			allowed := allowedSessionTypes(p.ExcludedTypes)
			q.Where = append(q.Where, fmt.Sprintf("type_of_session = ANY($%d)", n))
			q.Args = append(q.Args, pq.Array(allowed))
			n++
		}
		if conferenceID != nil {
			q.Where = append(q.Where, fmt.Sprintf("conference_id = $%d", n))
			q.Args = append(q.Args, *conferenceID)
			n++
		}
		q.Order = orderKeys(p.InequalityColumn, "start_time", "name")
	default:
		panic(fmt.Sprintf("query: unsupported kind %d", kind))
	}
	return q
}

// orderKeys prepends the inequality column to the deterministic tie-break
// keys, skipping it when it already is one of them.
func orderKeys(inequalityColumn string, tieBreaks ...string) []string {
	if inequalityColumn == "" {
		return tieBreaks
	}
	keys := []string{inequalityColumn}
	for _, k := range tieBreaks {
		if k != inequalityColumn {
			keys = append(keys, k)
		}
	}
	return keys
}

func allowedSessionTypes(excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		skip[t] = true
	}
	var allowed []string
	for _, t := range domain.SessionTypeNames() {
		if !skip[t] {
			allowed = append(allowed, t)
		}
	}
	return allowed
}
