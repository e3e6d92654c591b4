package ordering

type Status string

const (
	StatusEmpty           Status = "EMPTY"
	StatusPending         Status = "PENDING"
	StatusValidated       Status = "VALIDATED"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusConfirmed       Status = "CONFIRMED"
	StatusFailed          Status = "FAILED"
)

var validNext = map[Status]map[Status]bool{
	StatusEmpty:           {StatusPending: true},
	StatusPending:         {StatusEmpty: true, StatusValidated: true},
	StatusValidated:       {StatusEmpty: true, StatusPending: true, StatusAwaitingPayment: true},
	StatusAwaitingPayment: {StatusConfirmed: true, StatusFailed: true},
	StatusConfirmed:       {},
	StatusFailed:          {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}
