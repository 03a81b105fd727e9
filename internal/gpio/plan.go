package gpio

import (
	"fmt"
	"sort"

	"github.com/sweeney/pinmap/internal/pins"
)

// lineClaim is one line request: a digital pin and every role bound to it.
type lineClaim struct {
	number int
	roles  []pins.Role
}

// claimPlan lists the lines to request for m, one per digital pin number,
// in ascending pin order.
func claimPlan(m pins.Map) []lineClaim {
	seen := make(map[int]bool)
	var plan []lineClaim
	for _, a := range m.Assignments() {
		n := a.Pin.Number()
		if seen[n] {
			continue
		}
		seen[n] = true
		plan = append(plan, lineClaim{number: n, roles: m.RolesOn(n)})
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].number < plan[j].number })
	return plan
}

// outputPin returns the pin Set may drive for role.
func outputPin(m pins.Map, role pins.Role) (pins.Pin, error) {
	if role.IsInput() {
		return 0, fmt.Errorf("%s is not an output", role)
	}
	p, ok := m.Pin(role)
	if !ok {
		return 0, fmt.Errorf("unknown role %d", role)
	}
	for _, other := range m.RolesOn(p.Number()) {
		if other.IsInput() {
			return 0, fmt.Errorf("%s shares pin %s with input %s", role, p, other)
		}
	}
	return p, nil
}
