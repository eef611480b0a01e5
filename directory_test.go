package guardango

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberDirectory_FirstWriteWins(t *testing.T) {
	md := NewMemberDirectory()

	assert.True(t, md.Observe(1, "Alice"))
	assert.False(t, md.Observe(1, "Bob"))

	name, ok := md.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
	assert.Equal(t, 1, md.Len())

	_, ok = md.Name(2)
	assert.False(t, ok)
}

func TestMemberDirectory_All(t *testing.T) {
	md := NewMemberDirectory()
	md.Observe(3, "Carol")
	md.Observe(1, "Alice")
	md.Observe(2, "Bob")

	collect := func() (ids []int64, names []string) {
		for id, name := range md.All() {
			ids = append(ids, id)
			names = append(names, name)
		}
		return
	}

	ids, names := collect()
	assert.Equal(t, []int64{3, 1, 2}, ids)
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names)

	// Restartable.
	again, _ := collect()
	assert.Equal(t, ids, again)
}

func TestMemberDirectory_AllSnapshot(t *testing.T) {
	md := NewMemberDirectory()
	md.Observe(1, "Alice")
	md.Observe(2, "Bob")

	seq := md.All()
	md.Observe(3, "Carol")

	var ids []int64
	for id := range seq {
		// Inserting while ranging neither blocks nor shows up.
		md.Observe(id+100, "late")
		ids = append(ids, id)
	}

	assert.Equal(t, []int64{1, 2}, ids)
	assert.Equal(t, 5, md.Len())
}

func TestMemberDirectory_AllEarlyStop(t *testing.T) {
	md := NewMemberDirectory()
	md.Observe(1, "Alice")
	md.Observe(2, "Bob")

	var ids []int64
	for id := range md.All() {
		ids = append(ids, id)
		break
	}

	assert.Equal(t, []int64{1}, ids)
}

func TestMemberDirectory_Lookup(t *testing.T) {
	md := NewMemberDirectory()
	md.Observe(1, "Alice")
	md.Observe(2, "bob")

	id, ok := md.Lookup("@alice")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = md.Lookup("BOB")
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = md.Lookup("@carol")
	assert.False(t, ok)
}

func TestMemberDirectory_Suggest(t *testing.T) {
	md := NewMemberDirectory()
	md.Observe(1, "Alice")
	md.Observe(2, "Robert")

	suggestion, ok := md.Suggest("@alicee")
	assert.True(t, ok)
	assert.Equal(t, "Alice", suggestion)

	suggestion, ok = md.Suggest("@robet")
	assert.True(t, ok)
	assert.Equal(t, "Robert", suggestion)

	_, ok = md.Suggest("@zzzzzz")
	assert.False(t, ok)

	_, ok = md.Suggest("@")
	assert.False(t, ok)
}
