package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/idgen"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/storage"
)

type Repo struct {
	mu sync.RWMutex

	ids      *idgen.Generator
	comments []model.Comment
	index    map[int64]int
}

func New() *Repo {
	return NewWithClock(nil)
}

// NewWithClock is New with an injectable clock, used by tests that need
// fixed timestamps.
func NewWithClock(now func() time.Time) *Repo {
	return &Repo{
		ids:   idgen.New(now),
		index: make(map[int64]int),
	}
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[id]
	return ok, nil
}

func (r *Repo) CreateComment(ctx context.Context, text string) (model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return model.Comment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ts := r.ids.Next()
	c := model.Comment{
		ID:        id,
		Text:      text,
		Timestamp: ts,
		Replies:   []model.Reply{},
	}

	r.index[c.ID] = len(r.comments)
	r.comments = append(r.comments, c)

	return c.Clone(), nil
}

func (r *Repo) CreateReply(ctx context.Context, commentID int64, text string) (model.Reply, error) {
	if err := ctx.Err(); err != nil {
		return model.Reply{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[commentID]
	if !ok {
		return model.Reply{}, storage.ErrNotFound
	}

	id, ts := r.ids.Next()
	reply := model.Reply{ID: id, Text: text, Timestamp: ts}

	c := &r.comments[pos]
	c.Replies = append(c.Replies, reply)

	return reply, nil
}

func (r *Repo) List(ctx context.Context) ([]model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *Repo) DeleteComment(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return storage.ErrNotFound
	}
	r.retainLocked(func(c model.Comment) bool { return c.ID != id })
	return nil
}

func (r *Repo) DeleteReply(ctx context.Context, commentID, replyID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[commentID]
	if !ok {
		return storage.ErrNotFound
	}

	c := &r.comments[pos]
	if !c.HasReply(replyID) {
		return storage.ErrNotFound
	}
	c.Replies = removeReply(c.Replies, replyID)
	return nil
}

func (r *Repo) DeleteMatching(ctx context.Context, id int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []int64
	r.retainLocked(func(c model.Comment) bool {
		if c.ID == id || c.HasReply(id) {
			removed = append(removed, c.ID)
			return false
		}
		return true
	})
	return removed, nil
}

// retainLocked keeps the comments for which keep returns true and rebuilds
// the position index.
func (r *Repo) retainLocked(keep func(model.Comment) bool) {
	out := make([]model.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	r.comments = out

	r.index = make(map[int64]int, len(out))
	for i, c := range out {
		r.index[c.ID] = i
	}
}

func removeReply(replies []model.Reply, target int64) []model.Reply {
	out := make([]model.Reply, 0, len(replies))
	for _, v := range replies {
		if v.ID != target {
			out = append(out, v)
		}
	}
	return out
}
