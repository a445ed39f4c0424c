package model

type SortOrder string

const (
	SortLatest       SortOrder = "latest"
	SortOldest       SortOrder = "oldest"
	SortMostReplies  SortOrder = "mostReplies"
	SortLeastReplies SortOrder = "leastReplies"
)

// SortOrders lists the selectable orders in the order the selector shows them.
var SortOrders = []SortOrder{SortLatest, SortOldest, SortMostReplies, SortLeastReplies}

func (s SortOrder) Valid() bool {
	switch s {
	case SortLatest, SortOldest, SortMostReplies, SortLeastReplies:
		return true
	}
	return false
}

// Label is the human readable name used by both render surfaces.
func (s SortOrder) Label() string {
	switch s {
	case SortLatest:
		return "Latest"
	case SortOldest:
		return "Oldest"
	case SortMostReplies:
		return "Most Replies"
	case SortLeastReplies:
		return "Least Replies"
	}
	return string(s)
}

// Next cycles through SortOrders. Unknown values restart at SortLatest.
func (s SortOrder) Next() SortOrder {
	for i, o := range SortOrders {
		if o == s {
			return SortOrders[(i+1)%len(SortOrders)]
		}
	}
	return SortLatest
}
