//nolint:tagliatelle // field names are fixed by the systems.json format.
package topology

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evemaps/pipecleaner/internal/esi"
)

// Row describes one watched pipe: an entry system and the destination
// system it leads to, with region and security metadata for both ends.
type Row struct {
	EntryID      esi.SystemID `json:"Entry_ID"`
	DestID       esi.SystemID `json:"Dest_ID"`
	Entry        string       `json:"Entry"`
	Dest         string       `json:"Dest"`
	EntryRegion  string       `json:"Entry_Region"`
	DestRegion   string       `json:"Dest_Region"`
	EntryTrueSec float64      `json:"Entry_TrueSec"`
	DestTrueSec  float64      `json:"Dest_TrueSec"`
}

// Topology is the immutable set of watched pipes loaded at startup.
type Topology struct {
	rows      []Row
	systemIDs []esi.SystemID
}

// Load reads the topology file and derives the universal system id set.
// A missing or malformed file is an error; callers treat it as fatal.
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse topology file: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("topology file %s contains no rows", path)
	}

	return New(rows), nil
}

// New builds a Topology from already-decoded rows.
func New(rows []Row) *Topology {
	// Collect every referenced system id, entry ids first, preserving
	// first-seen order and dropping duplicates.
	seen := make(map[esi.SystemID]bool, len(rows)*2)
	ids := make([]esi.SystemID, 0, len(rows)*2)

	add := func(id esi.SystemID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, row := range rows {
		add(row.EntryID)
	}

	for _, row := range rows {
		add(row.DestID)
	}

	return &Topology{rows: rows, systemIDs: ids}
}

// Rows returns the topology rows in file order.
// Callers must not mutate the returned slice.
func (t *Topology) Rows() []Row {
	return t.rows
}

// SystemIDs returns every system id referenced by any row, deduplicated,
// in a deterministic order.
func (t *Topology) SystemIDs() []esi.SystemID {
	return t.systemIDs
}
