package mockdb

import (
	"strings"
)

// Result is the outcome of Execute, Insert, Update and Delete. Exactly one
// of Data and Error is meaningful.
type Result struct {
	Data  []Record `json:"data"`
	Error *Error   `json:"error"`
}

// Err returns Error as a plain error, or nil.
func (r Result) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// SingleResult is the outcome of Single. Data is nil when no row matched.
type SingleResult struct {
	Data  Record `json:"data"`
	Error *Error `json:"error"`
}

// Err returns Error as a plain error, or nil.
func (r SingleResult) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

type condition struct {
	column string
	value  any
}

type ordering struct {
	column    string
	ascending bool
}

type bounds struct {
	from, to int
}

// QueryBuilder accumulates clauses for one query against one table. The
// clause methods return the same builder; a terminal method runs the query
// and consumes the builder. A builder is not safe for concurrent use.
type QueryBuilder struct {
	store    *Store
	table    string
	columns  string
	filters  []condition
	order    *ordering
	rng      *bounds
	consumed bool
}

// Select sets the projection. Several arguments are joined with commas.
func (q *QueryBuilder) Select(columns ...string) *QueryBuilder {
	q.columns = strings.Join(columns, ",")
	return q
}

// Eq adds an equality filter. Filters are combined with AND.
func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	q.filters = append(q.filters, condition{column: column, value: Normalize(value)})
	return q
}

// Order sets the ordering, replacing any earlier one.
func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	q.order = &ordering{column: column, ascending: ascending}
	return q
}

// Range limits the result to positions from..to inclusive, replacing any
// earlier range.
func (q *QueryBuilder) Range(from, to int) *QueryBuilder {
	q.rng = &bounds{from: from, to: to}
	return q
}

func (q *QueryBuilder) begin() (*Table, *Error) {
	if q.consumed {
		return nil, consumedError()
	}
	q.consumed = true
	t, ok := q.store.tables[q.table]
	if !ok {
		return nil, unknownTableError(q.table)
	}
	return t, nil
}

func (q *QueryBuilder) filter(rows []Record) []Record {
	for _, c := range q.filters {
		rows = FilterEquals(rows, c.column, c.value)
	}
	return rows
}

// Execute runs filter, projection, order and range in that order and
// returns copies of the selected rows.
func (q *QueryBuilder) Execute() Result {
	t, qerr := q.begin()
	if qerr != nil {
		return Result{Error: qerr}
	}

	rows := q.filter(t.Snapshot())
	rows = q.store.project(rows, parseProjection(q.columns))
	if q.order != nil {
		rows = OrderBy(rows, q.order.column, q.order.ascending)
	}
	if q.rng != nil {
		rows = Range(rows, q.rng.from, q.rng.to)
	}
	return Result{Data: rows}
}

// Single runs Execute and expects at most one row.
func (q *QueryBuilder) Single() SingleResult {
	res := q.Execute()
	switch {
	case res.Error != nil:
		return SingleResult{Error: res.Error}
	case len(res.Data) > 1:
		return SingleResult{Error: tooManyRowsError()}
	case len(res.Data) == 1:
		return SingleResult{Data: res.Data[0]}
	}
	return SingleResult{}
}

// Insert appends records after filling identifiers and timestamps. Every
// record is checked against the stored rows before any is appended, so a
// violation leaves the table unchanged.
func (q *QueryBuilder) Insert(records ...Record) Result {
	t, qerr := q.begin()
	if qerr != nil {
		return Result{Error: qerr}
	}

	now := q.store.timestamp()
	schema := t.schema

	t.mu.Lock()
	defer t.mu.Unlock()

	serial := maxSerial(t.rows, schema.IDField)
	prepared := make([]Record, len(records))
	for i, rec := range records {
		rec = NormalizeRecord(Copy(rec))
		if rec == nil {
			rec = Record{}
		}
		if schema.IDField != "" && isBlank(rec[schema.IDField]) {
			switch schema.IDKind {
			case IDUUID:
				rec[schema.IDField] = q.store.newID()
			case IDSerial:
				serial++
				rec[schema.IDField] = serial
			}
		}
		if schema.CreatedAtField != "" && isBlank(rec[schema.CreatedAtField]) {
			rec[schema.CreatedAtField] = now
		}
		if schema.UpdatedAtField != "" && isBlank(rec[schema.UpdatedAtField]) {
			rec[schema.UpdatedAtField] = now
		}
		prepared[i] = rec
	}

	for _, rec := range prepared {
		for _, col := range schema.uniqueColumns() {
			v, ok := rec[col]
			if !ok || v == nil {
				continue
			}
			for _, row := range t.rows {
				if matches(row, col, v) {
					return Result{Error: duplicateKeyError(col)}
				}
			}
		}
	}

	t.rows = append(t.rows, prepared...)
	return Result{Data: CopyAll(prepared)}
}

// Update shallow-merges patch into every row matching the filters and
// refreshes the table's update timestamp. It returns the updated rows.
func (q *QueryBuilder) Update(patch Record) Result {
	t, qerr := q.begin()
	if qerr != nil {
		return Result{Error: qerr}
	}

	patch = NormalizeRecord(Copy(patch))
	now := q.store.timestamp()

	t.mu.Lock()
	defer t.mu.Unlock()

	updated := []Record{}
	for i, row := range t.rows {
		if !q.matchesAll(row) {
			continue
		}
		merged := make(Record, len(row)+len(patch)+1)
		for k, v := range row {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = Copy(v)
		}
		if t.schema.UpdatedAtField != "" {
			merged[t.schema.UpdatedAtField] = now
		}
		t.rows[i] = merged
		updated = append(updated, Copy(merged))
	}
	return Result{Data: updated}
}

// Delete removes every row matching the filters and returns them.
func (q *QueryBuilder) Delete() Result {
	t, qerr := q.begin()
	if qerr != nil {
		return Result{Error: qerr}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := []Record{}
	kept := t.rows[:0:0]
	for _, row := range t.rows {
		if q.matchesAll(row) {
			removed = append(removed, Copy(row))
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return Result{Data: removed}
}

func (q *QueryBuilder) matchesAll(row Record) bool {
	for _, c := range q.filters {
		if !matches(row, c.column, c.value) {
			return false
		}
	}
	return true
}

// isBlank reports whether v counts as "not provided" for generated
// columns: absent, null, empty string or zero.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int64:
		return x == 0
	case float64:
		return x == 0
	case bool:
		return !x
	}
	return false
}

func maxSerial(rows []Record, idField string) int64 {
	var highest int64
	if idField == "" {
		return 0
	}
	for _, row := range rows {
		if id, ok := row[idField].(int64); ok && id > highest {
			highest = id
		}
	}
	return highest
}
