package entity

import "slices"

// LikeSet is the set of actor ids that liked a post, comment or reply.
// An id appears at most once.
type LikeSet []string

// Contains reports whether actorID liked the item.
func (s LikeSet) Contains(actorID string) bool {
	return slices.Contains(s, actorID)
}

// Toggle returns a new set with actorID added when absent and removed when
// present, and whether the actor likes the item afterwards.
func (s LikeSet) Toggle(actorID string) (LikeSet, bool) {
	if s.Contains(actorID) {
		out := make(LikeSet, 0, len(s))
		for _, id := range s {
			if id != actorID {
				out = append(out, id)
			}
		}

		return out, false
	}

	out := make(LikeSet, 0, len(s)+1)
	out = append(out, s...)

	return append(out, actorID), true
}

// Len returns the number of likes.
func (s LikeSet) Len() int {
	return len(s)
}

func (s LikeSet) values() []string {
	if s == nil {
		return []string{}
	}

	return slices.Clone([]string(s))
}
