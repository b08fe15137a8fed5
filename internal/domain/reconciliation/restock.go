package reconciliation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReturnReason is why a customer brought an item back in an exchange
type ReturnReason string

const (
	ReasonWrongItem   ReturnReason = "WRONG_ITEM"
	ReasonChangedMind ReturnReason = "CHANGED_MIND"
	ReasonDamaged     ReturnReason = "DAMAGED"
	ReasonExpired     ReturnReason = "EXPIRED"
)

// AllReturnReasons lists every known reason
func AllReturnReasons() []ReturnReason {
	return []ReturnReason{ReasonWrongItem, ReasonChangedMind, ReasonDamaged, ReasonExpired}
}

// ParseReturnReason converts free text ("wrong item", "WRONG_ITEM") into a reason
func ParseReturnReason(s string) (ReturnReason, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), "_"))
	reason := ReturnReason(normalized)
	if !reason.IsValid() {
		return "", ErrInvalidReason.WithMessage("Unknown return reason %q", s).WithDetail("reason", s)
	}
	return reason, nil
}

// IsValid checks if the reason is known
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReasonWrongItem, ReasonChangedMind, ReasonDamaged, ReasonExpired:
		return true
	}
	return false
}

// Label returns a display label, e.g. "Wrong Item"
func (r ReturnReason) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(string(r)), "_", " "))
}

// RestockPolicy decides whether goods returned in an exchange go back on
// the shelf or are scrapped.
type RestockPolicy struct {
	restockable map[ReturnReason]bool
}

// DefaultRestockPolicy restocks wrong items and change-of-mind returns;
// damaged and expired goods are scrapped.
func DefaultRestockPolicy() RestockPolicy {
	return NewRestockPolicy(ReasonWrongItem, ReasonChangedMind)
}

// NewRestockPolicy builds a policy that restocks exactly the given reasons
func NewRestockPolicy(reasons ...ReturnReason) RestockPolicy {
	p := RestockPolicy{restockable: make(map[ReturnReason]bool, len(reasons))}
	for _, r := range reasons {
		p.restockable[r] = true
	}
	return p
}

// ParseRestockPolicy builds a policy from configuration strings
func ParseRestockPolicy(reasons []string) (RestockPolicy, error) {
	parsed := make([]ReturnReason, 0, len(reasons))
	for _, s := range reasons {
		r, err := ParseReturnReason(s)
		if err != nil {
			return RestockPolicy{}, err
		}
		parsed = append(parsed, r)
	}
	return NewRestockPolicy(parsed...), nil
}

// Restocks reports whether goods returned for reason are put back into stock
func (p RestockPolicy) Restocks(reason ReturnReason) bool {
	return p.restockable[reason]
}

// RestockableReasons lists the reasons this policy restocks
func (p RestockPolicy) RestockableReasons() []ReturnReason {
	out := make([]ReturnReason, 0, len(p.restockable))
	for _, r := range AllReturnReasons() {
		if p.restockable[r] {
			out = append(out, r)
		}
	}
	return out
}
