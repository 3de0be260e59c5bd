package domain

import "strings"

// Filter is one raw user-supplied filter triple: a logical field tag (e.g.
// CITY), an operator tag (e.g. GTEQ), and a string value.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Query is an executable query descriptor against the storage collaborator:
// conjoined WHERE fragments with positional args and a mandatory
// deterministic ordering. Repositories render it into the final statement.
type Query struct {
	Where []string
	Args  []any
	Order []string
	Limit int
}

// WhereSQL joins the conjoined predicate fragments; empty when unfiltered.
func (q *Query) WhereSQL() string {
	return strings.Join(q.Where, " AND ")
}

// OrderSQL renders the ordering clause.
func (q *Query) OrderSQL() string {
	return strings.Join(q.Order, ", ")
}
