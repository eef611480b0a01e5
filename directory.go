package guardango

import (
	"iter"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance bounds how far a mistyped @name may be from a known member to be suggested.
const maxSuggestDistance = 2

// MemberDirectory registers the users seen in the chat, in first-seen order.
//
// Display names are set once: a later observation never renames a member.
type MemberDirectory struct {
	members OrderedSyncMap[int64, string]
}

// NewMemberDirectory creates an empty directory.
func NewMemberDirectory() *MemberDirectory {
	return &MemberDirectory{members: NewOrderedSyncMap[int64, string]()}
}

// Observe records the user with the display name if the user is not known yet.
// It reports whether the user was inserted.
func (md *MemberDirectory) Observe(user int64, name string) bool {
	_, inserted := md.members.SetIfAbsent(user, name)
	return inserted
}

// Name returns the display name recorded for the user.
func (md *MemberDirectory) Name(user int64) (string, bool) {
	return md.members.Get(user)
}

// Len returns the number of known members.
func (md *MemberDirectory) Len() int {
	return md.members.Len()
}

// All returns the members as of the call, in first-seen order.
//
// The sequence is backed by a snapshot: members observed while it is being ranged over
// are not included, and ranging over it again yields the same members.
func (md *MemberDirectory) All() iter.Seq2[int64, string] {
	snapshot := md.members.Snapshot()

	return func(yield func(int64, string) bool) {
		for _, entry := range snapshot {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// Lookup finds a member by display name, ignoring case and a leading "@".
// The earliest observed member wins when names collide.
func (md *MemberDirectory) Lookup(name string) (user int64, ok bool) {
	name = strings.TrimPrefix(name, "@")

	md.members.Range(func(id int64, display string) bool {
		if strings.EqualFold(display, name) {
			user, ok = id, true
			return false
		}
		return true
	})

	return
}

// Suggest returns the display name closest to name by edit distance,
// if one is within a small distance.
func (md *MemberDirectory) Suggest(name string) (suggestion string, ok bool) {
	target := []rune(strings.ToLower(strings.TrimPrefix(name, "@")))
	if len(target) == 0 {
		return
	}

	best := maxSuggestDistance + 1
	md.members.Range(func(_ int64, display string) bool {
		distance := levenshtein.DistanceForStrings(target, []rune(strings.ToLower(display)), levenshtein.DefaultOptions)
		if distance < best {
			best, suggestion = distance, display
		}
		return best > 0
	})

	ok = best <= maxSuggestDistance

	return
}
