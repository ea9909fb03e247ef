// Package merge joins the latest kill and jump observations onto the
// static topology, producing the display-ready activity table.
package merge

import (
	"sort"

	"github.com/evemaps/pipecleaner/internal/esi"
	"github.com/evemaps/pipecleaner/internal/topology"
)

// Row is one topology row augmented with the latest activity counts for
// both ends of the pipe. Systems with no recorded activity carry zeros.
type Row struct {
	topology.Row

	EntryShipKills int `json:"entry_ship_kills"`
	EntryPodKills  int `json:"entry_pod_kills"`
	EntryJumps     int `json:"entry_jumps"`
	DestShipKills  int `json:"dest_ship_kills"`
	DestPodKills   int `json:"dest_pod_kills"`
	DestJumps      int `json:"dest_jumps"`
}

// Merge joins kill and jump tables onto the topology rows and sorts the
// result by destination region. The sort is stable: rows in the same
// region keep their topology order. Merge is pure; absence of a system
// from either table means zero activity, not missing data.
func Merge(
	rows []topology.Row,
	kills map[esi.SystemID]esi.KillStats,
	jumps map[esi.SystemID]esi.JumpStats,
) []Row {
	merged := make([]Row, len(rows))

	for i, row := range rows {
		entryKills := kills[row.EntryID]
		entryJumps := jumps[row.EntryID]
		destKills := kills[row.DestID]
		destJumps := jumps[row.DestID]

		merged[i] = Row{
			Row:            row,
			EntryShipKills: entryKills.ShipKills,
			EntryPodKills:  entryKills.PodKills,
			EntryJumps:     entryJumps.Jumps,
			DestShipKills:  destKills.ShipKills,
			DestPodKills:   destKills.PodKills,
			DestJumps:      destJumps.Jumps,
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DestRegion < merged[j].DestRegion
	})

	return merged
}
