package storage

import (
	"context"
	"errors"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository owns the comment list of one panel. List returns comments in
// insertion order; callers get copies and may modify them freely.
type Repository interface {
	CreateComment(ctx context.Context, text string) (model.Comment, error)
	CreateReply(ctx context.Context, commentID int64, text string) (model.Reply, error)
	List(ctx context.Context) ([]model.Comment, error)
	Exists(ctx context.Context, id int64) (bool, error)
	DeleteComment(ctx context.Context, id int64) error
	DeleteReply(ctx context.Context, commentID, replyID int64) error
	// DeleteMatching removes every comment whose id is id or that holds a
	// reply with that id, and returns the removed comment ids.
	DeleteMatching(ctx context.Context, id int64) ([]int64, error)
}
