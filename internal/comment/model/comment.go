package model

import "time"

type Reply struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type Comment struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"`
	Replies   []Reply `json:"replies"`
}

// CreatedAt converts the millisecond timestamp to a time.Time in UTC.
func (c Comment) CreatedAt() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}

func (r Reply) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// HasReply reports whether the comment owns a reply with the given id.
func (c Comment) HasReply(id int64) bool {
	for _, r := range c.Replies {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the replies slice.
func (c Comment) Clone() Comment {
	out := c
	out.Replies = append(make([]Reply, 0, len(c.Replies)), c.Replies...)
	return out
}
