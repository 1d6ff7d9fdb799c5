package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
)

// LoadFile reads a YAML seed file.
func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return data, nil
}

// Decode parses YAML seed data from r. An empty document yields no tables.
func Decode(r io.Reader) (Data, error) {
	var raw map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	data := make(Data, len(raw))
	for name, rows := range raw {
		records := make([]mockdb.Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, mockdb.NormalizeRecord(row))
		}
		data[name] = records
	}
	return data, nil
}

// Encode writes data as YAML, tables in name order.
func Encode(w io.Writer, data Data) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		rows := make([]map[string]any, 0, len(data[name]))
		for _, rec := range data[name] {
			rows = append(rows, rec)
		}
		var value yaml.Node
		if err := value.Encode(rows); err != nil {
			return fmt.Errorf("seed: encode %s: %w", name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
