package usage

//go:generate go run ./gen

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/usage_tables.yaml
var tableYAML []byte

type pageDoc struct {
	ID     uint16     `yaml:"id"`
	Name   string     `yaml:"name"`
	Usages []usageDoc `yaml:"usages"`
}

type usageDoc struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
}

type tableDoc struct {
	Pages []pageDoc `yaml:"pages"`
}

var (
	once     sync.Once
	tables   *Table
	loadErr  error
)

// Tables returns the process-wide Usage Table, parsed from the embedded
// data file on first use. Construction is idempotent and safe for
// concurrent callers, matching the "process-wide, lazily-initialized
// immutable value" resource policy (spec §5).
func Tables() *Table {
	once.Do(func() {
		tables, loadErr = parseTables(tableYAML)
		if loadErr != nil {
			panic(fmt.Sprintf("usage: embedded table data is invalid: %v", loadErr))
		}
	})
	return tables
}

func parseTables(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse usage table data: %w", err)
	}

	t := &Table{
		byID:   make(map[uint16]Page, len(doc.Pages)),
		byName: make(map[string]Page, len(doc.Pages)),
	}
	for _, pd := range doc.Pages {
		p := Page{
			ID:     pd.ID,
			Name:   pd.Name,
			byID:   make(map[uint16]string, len(pd.Usages)),
			byName: make(map[string]uint16, len(pd.Usages)),
		}
		for _, ud := range pd.Usages {
			p.byID[ud.ID] = ud.Name
			p.byName[ud.Name] = ud.ID
		}
		t.byID[p.ID] = p
		t.byName[p.Name] = p
	}
	return t, nil
}
