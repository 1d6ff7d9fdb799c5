package mockdb

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Relation is a parsed embedded-relation clause.
type Relation struct {
	// Alias is the key the related record is attached under.
	Alias string
	// ForeignTable is the related table when a hint is given.
	ForeignTable string
	// ForeignKey is the local column holding the related identifier when a
	// hint is given.
	ForeignKey string
	// Fields are the related columns to copy. "*" copies all of them.
	Fields []string
}

// Table is the related table name.
func (r Relation) Table() string {
	if r.ForeignTable != "" {
		return r.ForeignTable
	}
	return r.Alias
}

// LocalKey is the column of the source record that references the related
// record.
func (r Relation) LocalKey() string {
	if r.ForeignKey != "" {
		return r.ForeignKey
	}
	return r.Alias + "_id"
}

type relationClause struct {
	Alias  string        `parser:"@Ident"`
	Hint   *relationHint `parser:"( \":\" @@ )?"`
	Fields []string      `parser:"\"(\" @( Ident | \"*\" ) ( \",\" @( Ident | \"*\" ) )* \")\""`
}

type relationHint struct {
	Table  string `parser:"@Ident \"!\""`
	Column string `parser:"@Ident"`
}

var relationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[:!(),*]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var relationParser = participle.MustBuild[relationClause](
	participle.Lexer(relationLexer),
	participle.Elide("Whitespace"),
)

// ParseRelation parses a clause such as "categories(name)" or
// "assignee:users!assigned_to(email)".
func ParseRelation(expr string) (*Relation, error) {
	clause, err := relationParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid relation %q: %w", expr, err)
	}
	rel := &Relation{
		Alias:  clause.Alias,
		Fields: clause.Fields,
	}
	if clause.Hint != nil {
		rel.ForeignTable = clause.Hint.Table
		rel.ForeignKey = clause.Hint.Column
	}
	return rel, nil
}

// joiner attaches one related record to a projected record. source is the
// unprojected row the local key is read from.
type joiner func(source, target Record)

// relationJoiner prepares a joiner for expr. The related table is copied
// once so every row of a query sees the same related data. An expression
// that does not parse yields a joiner that leaves records untouched.
func (s *Store) relationJoiner(expr string) joiner {
	rel, err := ParseRelation(expr)
	if err != nil {
		slog.Debug("mockdb: ignoring unparseable relation", "expr", expr, "error", err)
		return func(Record, Record) {}
	}

	var related []Record
	idField := "id"
	if t, err := s.Table(rel.Table()); err == nil {
		related = t.Snapshot()
		idField = t.schema.identifierField()
	}

	localKey := rel.LocalKey()
	return func(source, target Record) {
		target[rel.Alias] = lookupRelated(related, idField, source[localKey], rel.Fields)
	}
}

func lookupRelated(related []Record, idField string, key any, fields []string) any {
	if key == nil {
		return nil
	}
	for _, candidate := range related {
		if !matches(candidate, idField, key) {
			continue
		}
		out := Record{}
		for _, f := range fields {
			if f == "*" {
				for k, v := range candidate {
					out[k] = Copy(v)
				}
				continue
			}
			if v, ok := candidate[f]; ok {
				out[f] = Copy(v)
			}
		}
		return out
	}
	return nil
}
