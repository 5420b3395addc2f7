package debug

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
)

// SolventTable renders a Solvent's Stats as a human-readable table.
func SolventTable(sv *oxide.Solvent) string {
	stats := sv.Stats()
	t := table.NewWriter()
	t.AppendHeader(table.Row{"metric", "value"})
	t.AppendRow(table.Row{"cells", stats.CellCount})
	return t.Render()
}

// TransferTable renders a sync pull/push result as a table of keys
// transferred, numbered in transfer order.
func TransferTable(transferred []key.Key) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "key"})
	for i, k := range transferred {
		t.AppendRow(table.Row{i + 1, k.String()})
	}
	return t.Render()
}
