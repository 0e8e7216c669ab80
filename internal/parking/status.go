package parking

import (
	"fmt"

	"github.com/atlanticdynamic/parklynx/internal/fancy"
)

// Status is the externally visible snapshot of the facility. StateLabel is
// COMPLET whenever FreeSlots is zero.
type Status struct {
	StateLabel      string  `json:"state_label"`
	FreeSlots       int     `json:"free_slots"`
	TotalSlots      int     `json:"total_slots"`
	Revenue         float64 `json:"revenue"`
	VisitorCount    int     `json:"visitor_count"`
	SubscriberCount int     `json:"subscriber_count"`
}

// Occupied returns the number of parked vehicles.
func (st Status) Occupied() int {
	return st.TotalSlots - st.FreeSlots
}

// IsFull reports whether no slot is free.
func (st Status) IsFull() bool {
	return st.FreeSlots == 0
}

// String renders the snapshot as a tree.
func (st Status) String() string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render("Facility Status"))

	state := fancy.StateText(st.StateLabel)
	if st.IsFull() {
		state = fancy.ErrorText(st.StateLabel)
	}
	t.Child(fmt.Sprintf("State: %s", state))
	t.Child(fmt.Sprintf("Slots: %d free / %d total", st.FreeSlots, st.TotalSlots))
	t.Child(fmt.Sprintf("Revenue: %s", fancy.MoneyText(fmt.Sprintf("%.2f", st.Revenue))))
	t.Child(fmt.Sprintf("Visitors: %d", st.VisitorCount))
	t.Child(fmt.Sprintf("Subscribers: %d", st.SubscriberCount))
	return t.String()
}
