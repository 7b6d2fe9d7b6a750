// Package lowstock classifies records against a minimum quantity and
// formats the warning shown for the ones that fall short.
package lowstock

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// DefaultThreshold is the quantity below which a record is low.
const DefaultThreshold = 5

// Result is the outcome of Partition. Both slices keep input order.
type Result struct {
	Threshold int
	Below     []types.Record
	Rest      []types.Record

	low map[int64]bool
}

// Partition splits records into those with Quantity < threshold and the
// rest. Equal to the threshold is not low.
func Partition(records []types.Record, threshold int) Result {
	res := Result{Threshold: threshold, low: make(map[int64]bool)}
	for _, r := range records {
		if r.Quantity < threshold {
			res.Below = append(res.Below, r)
			res.low[r.ID] = true
			continue
		}
		res.Rest = append(res.Rest, r)
	}
	return res
}

// HasLow reports whether any record is below the threshold.
func (r Result) HasLow() bool {
	return len(r.Below) > 0
}

// IsLow reports whether the record with id was classified as low.
func (r Result) IsLow(id int64) bool {
	return r.low[id]
}

// Warning returns one line per low record, "<name> (ID <id>) - <qty>",
// joined by newlines. It is empty when nothing is low.
func (r Result) Warning() string {
	lines := make([]string, 0, len(r.Below))
	for _, rec := range r.Below {
		lines = append(lines, fmt.Sprintf("%s (ID %d) - %d", rec.Name, rec.ID, rec.Quantity))
	}
	return strings.Join(lines, "\n")
}
