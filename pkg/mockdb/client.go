package mockdb

// Client is the entry point callers use instead of a hosted client.
type Client struct {
	store *Store
}

// NewClient returns a client over store.
func NewClient(store *Store) *Client {
	return &Client{store: store}
}

// From starts a query against table. An unknown table is reported by the
// terminal call.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{store: c.store, table: table, columns: "*"}
}

// Store returns the underlying store.
func (c *Client) Store() *Store {
	return c.store
}
