package service

import (
	"cmp"
	"slices"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

// SortComments returns a sorted shallow copy of comments. Unknown orders
// keep insertion order. Equal keys keep their relative order.
func SortComments(comments []model.Comment, order model.SortOrder) []model.Comment {
	out := slices.Clone(comments)

	var compare func(a, b model.Comment) int
	switch order {
	case model.SortLatest:
		compare = func(a, b model.Comment) int { return cmp.Compare(b.Timestamp, a.Timestamp) }
	case model.SortOldest:
		compare = func(a, b model.Comment) int { return cmp.Compare(a.Timestamp, b.Timestamp) }
	case model.SortMostReplies:
		compare = func(a, b model.Comment) int { return cmp.Compare(len(b.Replies), len(a.Replies)) }
	case model.SortLeastReplies:
		compare = func(a, b model.Comment) int { return cmp.Compare(len(a.Replies), len(b.Replies)) }
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}

func starredIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
