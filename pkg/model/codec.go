package model

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("model: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Records are keyed by column name, so untyped maps must decode as
		// map[string]any rather than CBOR's map[any]any default.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("model: CBOR decoder initialization failed: " + err.Error())
	}
}

// ToRecord converts a model struct into a normalised mockdb record.
func ToRecord(v any) (mockdb.Record, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var rec map[string]any
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %T as record: %w", v, err)
	}
	return mockdb.NormalizeRecord(rec), nil
}

// FromRecord converts a mockdb record into a model struct.
func FromRecord[T any](rec mockdb.Record) (*T, error) {
	data, err := encMode.Marshal(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out T
	if err := decMode.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode record as %T: %w", out, err)
	}
	return &out, nil
}

// FromRecords converts every record of rows.
func FromRecords[T any](rows []mockdb.Record) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, rec := range rows {
		v, err := FromRecord[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
