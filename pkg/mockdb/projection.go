package mockdb

import "strings"

// projection is a parsed select string.
type projection struct {
	wildcard  bool
	columns   []string
	relations []string
}

// parseProjection splits columns at top-level commas. Commas inside a
// relation's parentheses belong to that relation.
func parseProjection(columns string) projection {
	var p projection
	for _, item := range splitTopLevel(columns) {
		switch {
		case item == "":
		case item == "*":
			p.wildcard = true
		case strings.Contains(item, "("):
			p.relations = append(p.relations, item)
		default:
			p.columns = append(p.columns, item)
		}
	}
	if len(p.columns) == 0 && len(p.relations) == 0 {
		p.wildcard = true
	}
	return p
}

func (p projection) passthrough() bool {
	return p.wildcard && len(p.columns) == 0 && len(p.relations) == 0
}

func splitTopLevel(s string) []string {
	var (
		items []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(items, strings.TrimSpace(s[start:]))
}

// project applies p to rows. Relation data is read once per call.
func (s *Store) project(rows []Record, p projection) []Record {
	if p.passthrough() {
		return rows
	}

	joiners := make([]joiner, len(p.relations))
	for i, expr := range p.relations {
		joiners[i] = s.relationJoiner(expr)
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		var target Record
		if p.wildcard {
			target = Copy(row)
		} else {
			target = make(Record, len(p.columns)+len(joiners))
			for _, col := range p.columns {
				if v, ok := row[col]; ok {
					target[col] = v
				}
			}
		}
		for _, join := range joiners {
			join(row, target)
		}
		out[i] = target
	}
	return out
}
