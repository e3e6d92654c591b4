package ordering

// Menu answers availability questions for order validation. Implementations
// must be stable for the duration of one order.
type Menu interface {
	IsItemAvailable(name string) bool
}

// StaticMenu is an immutable set of item names, typically a snapshot of the
// restaurant catalog taken when the session opens.
type StaticMenu struct {
	items map[string]struct{}
}

func NewStaticMenu(names ...string) *StaticMenu {
	m := &StaticMenu{items: make(map[string]struct{}, len(names))}
	for _, n := range names {
		m.items[n] = struct{}{}
	}
	return m
}

// IsItemAvailable is a case-sensitive exact match on the item name.
func (m *StaticMenu) IsItemAvailable(name string) bool {
	_, ok := m.items[name]
	return ok
}
