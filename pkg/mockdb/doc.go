// Package mockdb is an in-process stand-in for a hosted relational
// query API.
//
// Tables hold plain records (map[string]any) in memory. Callers reach them
// through a fluent builder that mirrors the hosted client: accumulate
// equality filters, an ordering, an inclusive range and a projection, then
// run one terminal operation.
//
//	client := mockdb.NewClient(store)
//	res := client.From("tickets").
//	    Select("id, title, categories(name), priorities(name)").
//	    Eq("status", "Open").
//	    Order("created_at", false).
//	    Range(0, 9).
//	    Execute()
//	if err := res.Err(); err != nil {
//	    return err
//	}
//
// # Isolation
//
// Every record that enters the store is normalised and deep-copied, and
// every record handed back is a fresh copy. Mutating a result never
// affects stored data.
//
// # Projection
//
// A projection string is a comma separated list of plain column names,
// the wildcard "*" and relation clauses of the form
//
//	alias(field, ...)
//	alias:foreignTable!foreignKey(field, ...)
//
// A relation clause attaches the first record of the related table whose
// identifier equals the local key. Without a hint the related table is the
// alias and the local key is "<alias>_id".
//
// # Errors
//
// Expected failures are returned in Result.Error with a stable code:
//
//   - 23505: duplicate key on insert
//   - 42P01: unknown table
//   - PGRST116: more than one row for Single
//   - PGRST000: builder already executed
//
// # Concurrency
//
// Each table is guarded by its own sync.RWMutex. Reads copy rows out under
// the read lock; writes hold the write lock for the whole
// check-then-mutate sequence. No code path holds two table locks at once.
package mockdb
