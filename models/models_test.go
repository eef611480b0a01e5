package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "alice", (&User{ID: 1, Name: "alice"}).DisplayName())
	assert.Equal(t, "User_42", (&User{ID: 42}).DisplayName())
}

func TestRole(t *testing.T) {
	assert.Equal(t, RoleCreator, ParseRole("creator"))
	assert.Equal(t, RoleAdministrator, ParseRole("administrator"))
	assert.Equal(t, RoleMember, ParseRole("kicked"))

	assert.True(t, RoleCreator.IsAdmin())
	assert.True(t, RoleAdministrator.IsAdmin())
	assert.False(t, RoleMember.IsAdmin())
	assert.Equal(t, "administrator", RoleAdministrator.String())
}

func TestPermission_Names(t *testing.T) {
	p := PermDeleteMessages | PermPinMessages

	assert.Equal(t, []string{"can_delete_messages", "can_pin_messages"}, p.Names())
	assert.Equal(t, "can_delete_messages,can_pin_messages", p.String())
	assert.True(t, AdminPermissions.Has(p))
	assert.False(t, p.Has(PermPromoteMembers))
	assert.Len(t, AdminPermissions.Names(), 6)
}

func TestRole_JSON(t *testing.T) {
	var payload struct {
		Role Role `json:"role"`
	}

	assert.NoError(t, json.Unmarshal([]byte(`{"role":"creator"}`), &payload))
	assert.Equal(t, RoleCreator, payload.Role)

	data, err := json.Marshal(payload)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"role":"creator"}`, string(data))
}
