package guardango

import (
	"github.com/n0h4rt/guardango/utils"
)

// Filters guard engine operations. They combine fluently, for example
//   NewKindFilter(AdminEvents).And(NewAdminFilter().Not())
// matches an admin command sent by a non admin.
//
// Each filter type declares the combinators itself since Go has no method inheritance.

// Filter is an interface that defines the methods for filtering events.
type Filter interface {
	Check(*Event) bool // Check evaluates if the given event passes the filter conditions.
	And(Filter) Filter // And combines the current filter with another using logical AND.
	Or(Filter) Filter  // Or combines the current filter with another using logical OR.
	Xor(Filter) Filter // Xor combines the current filter with another using logical XOR.
	Not() Filter       // Not negates the current filter.
}

const (
	// CombineFilterAnd combines filters using logical AND.
	CombineFilterAnd int = iota
	// CombineFilterOr combines filters using logical OR.
	CombineFilterOr
	// CombineFilterXor combines filters using logical XOR.
	CombineFilterXor
)

// CombineFilter joins two filters with a logical operator.
type CombineFilter struct {
	Left  Filter // Left is the first operand.
	Right Filter // Right is the second operand.
	Mode  int    // Mode is one of CombineFilterAnd, CombineFilterOr or CombineFilterXor.
}

// Check evaluates both operands according to Mode.
func (f *CombineFilter) Check(event *Event) bool {
	switch f.Mode {
	case CombineFilterAnd:
		return f.Left.Check(event) && f.Right.Check(event)
	case CombineFilterOr:
		return f.Left.Check(event) || f.Right.Check(event)
	case CombineFilterXor:
		return f.Left.Check(event) != f.Right.Check(event)
	default:
		return false
	}
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *CombineFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *CombineFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *CombineFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *CombineFilter) Not() Filter {
	return &NotFilter{f}
}

// NotFilter negates a filter.
type NotFilter struct {
	Base Filter // Base is the negated filter.
}

// Check returns the logical negation of the filter's result.
func (f *NotFilter) Check(event *Event) bool {
	return !f.Base.Check(event)
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *NotFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *NotFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *NotFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *NotFilter) Not() Filter {
	return &NotFilter{f}
}

// UserFilter represents a filter for users.
type UserFilter struct {
	Users []int64 // Users is a list of user IDs to filter events based on the sender.
}

// Check checks if the event's user is in the filter's list of users.
func (f *UserFilter) Check(event *Event) bool {
	if event.User == nil {
		return false
	}
	return utils.Contains(f.Users, event.User.ID)
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *UserFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *UserFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *UserFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *UserFilter) Not() Filter {
	return &NotFilter{f}
}

// NewUserFilter returns a new `UserFilter`.
func NewUserFilter(userIDs ...int64) Filter {
	return &UserFilter{Users: userIDs}
}

// AdminFilter matches events sent by an administrator or the creator of the chat.
type AdminFilter struct{}

// Check checks if the event's sender may run moderation commands.
func (f *AdminFilter) Check(event *Event) bool {
	return event.Role.IsAdmin()
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *AdminFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *AdminFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *AdminFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *AdminFilter) Not() Filter {
	return &NotFilter{f}
}

// NewAdminFilter returns a new `AdminFilter`.
func NewAdminFilter() Filter {
	return &AdminFilter{}
}

// PrivateFilter matches events from a private conversation with the bot.
type PrivateFilter struct{}

// Check checks if the event happened in a private chat.
func (f *PrivateFilter) Check(event *Event) bool {
	return event.IsPrivate
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *PrivateFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *PrivateFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *PrivateFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *PrivateFilter) Not() Filter {
	return &NotFilter{f}
}

// NewPrivateFilter returns a new `PrivateFilter`.
func NewPrivateFilter() Filter {
	return &PrivateFilter{}
}

// KindFilter matches events whose kind is in a set.
type KindFilter struct {
	Kinds EventKind // Kinds is a mask of accepted event kinds.
}

// Check checks if the event's kind is in the filter's mask.
func (f *KindFilter) Check(event *Event) bool {
	return f.Kinds&event.Kind != 0
}

// And returns a new CombineFilter that combines the current filter with the provided filter using logical AND.
func (f *KindFilter) And(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterAnd}
}

// Or returns a new CombineFilter that combines the current filter with the provided filter using logical OR.
func (f *KindFilter) Or(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterOr}
}

// Xor returns a new CombineFilter that combines the current filter with the provided filter using logical XOR.
func (f *KindFilter) Xor(filter Filter) Filter {
	return &CombineFilter{f, filter, CombineFilterXor}
}

// Not returns a new NotFilter negating the current filter.
func (f *KindFilter) Not() Filter {
	return &NotFilter{f}
}

// NewKindFilter returns a new `KindFilter`.
func NewKindFilter(kinds EventKind) Filter {
	return &KindFilter{Kinds: kinds}
}
