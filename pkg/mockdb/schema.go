package mockdb

// IDKind says how Insert synthesises a missing identifier.
type IDKind int

const (
	// IDNone marks tables without an identifier column.
	IDNone IDKind = iota
	// IDUUID generates a random UUID string.
	IDUUID
	// IDSerial uses one more than the largest integer identifier present.
	IDSerial
)

// TableSchema describes the bookkeeping columns of one table. The store
// does not validate any other column.
type TableSchema struct {
	Name string

	// IDField is the identifier column. Empty for join tables.
	IDField string
	IDKind  IDKind

	// Unique lists columns that must not repeat across stored rows. The
	// identifier column is always treated as unique.
	Unique []string

	// CreatedAtField is filled on insert when absent.
	CreatedAtField string
	// UpdatedAtField is filled on insert when absent and refreshed on
	// every update.
	UpdatedAtField string
}

func (s TableSchema) uniqueColumns() []string {
	cols := make([]string, 0, len(s.Unique)+1)
	if s.IDField != "" {
		cols = append(cols, s.IDField)
	}
	for _, c := range s.Unique {
		if c != s.IDField {
			cols = append(cols, c)
		}
	}
	return cols
}

func (s TableSchema) identifierField() string {
	if s.IDField == "" {
		return "id"
	}
	return s.IDField
}
