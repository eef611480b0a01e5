package models

import "strings"

// Permission is a bit set of administrator rights granted by a promotion.
type Permission int64

const (
	PermChangeInfo Permission = 1 << iota
	PermDeleteMessages
	PermInviteUsers
	PermRestrictMembers
	PermPinMessages
	PermPromoteMembers
)

// AdminPermissions is the set granted by the promote command.
const AdminPermissions = PermChangeInfo | PermDeleteMessages | PermInviteUsers |
	PermRestrictMembers | PermPinMessages | PermPromoteMembers

var permissionNames = []struct {
	Flag Permission
	Name string
}{
	{PermChangeInfo, "can_change_info"},
	{PermDeleteMessages, "can_delete_messages"},
	{PermInviteUsers, "can_invite_users"},
	{PermRestrictMembers, "can_restrict_members"},
	{PermPinMessages, "can_pin_messages"},
	{PermPromoteMembers, "can_promote_members"},
}

// Has reports whether every flag of other is set in p.
func (p Permission) Has(other Permission) bool {
	return p&other == other
}

// Names returns the platform field names of the set flags, in declaration order.
func (p Permission) Names() (names []string) {
	for _, pn := range permissionNames {
		if p&pn.Flag != 0 {
			names = append(names, pn.Name)
		}
	}

	return
}

// String returns the comma separated names of the set flags.
func (p Permission) String() string {
	return strings.Join(p.Names(), ",")
}
