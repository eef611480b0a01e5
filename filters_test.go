package guardango

import (
	"testing"

	"github.com/n0h4rt/guardango/models"
	"github.com/stretchr/testify/assert"
)

func TestUserFilter_Check(t *testing.T) {
	filter := NewUserFilter(1, 2, 3)
	event1 := &Event{User: &models.User{ID: 1}}
	event2 := &Event{User: &models.User{ID: 4}}

	assert.True(t, filter.Check(event1), "UserFilter should match event1")
	assert.False(t, filter.Check(event2), "UserFilter should not match event2")
	assert.False(t, filter.Check(&Event{}), "UserFilter should not match an event without user")
}

func TestAdminFilter_Check(t *testing.T) {
	filter := NewAdminFilter()

	assert.True(t, filter.Check(&Event{Role: models.RoleAdministrator}))
	assert.True(t, filter.Check(&Event{Role: models.RoleCreator}))
	assert.False(t, filter.Check(&Event{Role: models.RoleMember}))
}

func TestPrivateFilter_Check(t *testing.T) {
	filter := NewPrivateFilter()

	assert.True(t, filter.Check(&Event{IsPrivate: true}))
	assert.False(t, filter.Check(&Event{IsPrivate: false}))
}

func TestKindFilter_Check(t *testing.T) {
	filter := NewKindFilter(AdminEvents)

	assert.True(t, filter.Check(&Event{Kind: EventWarn}))
	assert.True(t, filter.Check(&Event{Kind: EventSetWelcome}))
	assert.False(t, filter.Check(&Event{Kind: EventAfk}))
	assert.False(t, filter.Check(&Event{Kind: EventBroadcast}))
}

func TestCombineFilter_And(t *testing.T) {
	filter := NewKindFilter(AdminEvents).And(NewAdminFilter().Not())

	event1 := &Event{Kind: EventBan, Role: models.RoleMember}
	event2 := &Event{Kind: EventBan, Role: models.RoleAdministrator}
	event3 := &Event{Kind: EventRules, Role: models.RoleMember}

	assert.True(t, filter.Check(event1), "Combined filter should match event1")
	assert.False(t, filter.Check(event2), "Combined filter should not match event2")
	assert.False(t, filter.Check(event3), "Combined filter should not match event3")
}

func TestCombineFilter_Or(t *testing.T) {
	filter := NewUserFilter(1).Or(NewPrivateFilter())

	event1 := &Event{User: &models.User{ID: 1}}
	event2 := &Event{User: &models.User{ID: 2}, IsPrivate: true}
	event3 := &Event{User: &models.User{ID: 2}}

	assert.True(t, filter.Check(event1), "Combined filter should match event1")
	assert.True(t, filter.Check(event2), "Combined filter should match event2")
	assert.False(t, filter.Check(event3), "Combined filter should not match event3")
}

func TestCombineFilter_Xor(t *testing.T) {
	filter := NewUserFilter(1).Xor(NewPrivateFilter())

	event1 := &Event{User: &models.User{ID: 1}, IsPrivate: true}
	event2 := &Event{User: &models.User{ID: 2}, IsPrivate: true}

	assert.False(t, filter.Check(event1), "Combined filter should not match event1")
	assert.True(t, filter.Check(event2), "Combined filter should match event2")
}

func TestCombineFilter_Not(t *testing.T) {
	notFilter := NewUserFilter(1).Not()

	assert.False(t, notFilter.Check(&Event{User: &models.User{ID: 1}}), "NOT filter should not match event1")
	assert.True(t, notFilter.Check(&Event{User: &models.User{ID: 2}}), "NOT filter should match event2")
	assert.True(t, notFilter.Not().Not().Check(&Event{User: &models.User{ID: 2}}))
}
