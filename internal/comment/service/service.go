package service

import (
	"context"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

// PanelService is the comment thread panel: its comment list plus the
// display state the render surfaces read and mutate.
type PanelService interface {
	SetPending(ctx context.Context, text string) error
	Post(ctx context.Context) (model.Comment, error)

	Reply(ctx context.Context, commentID int64, text string) (model.Reply, error)
	SetReplyDraft(ctx context.Context, commentID int64, text string) error
	SubmitReply(ctx context.Context, commentID int64) (model.Reply, error)

	DeleteComment(ctx context.Context, commentID int64) error
	DeleteReply(ctx context.Context, commentID, replyID int64) error
	// DeleteByID removes every comment whose own id or any reply id equals
	// id. A reply id therefore takes its whole parent comment with it.
	DeleteByID(ctx context.Context, id int64) (deleted int, err error)

	SetSortOrder(ctx context.Context, order model.SortOrder) error
	ToggleTimestamps(ctx context.Context) (bool, error)
	ToggleStar(ctx context.Context, commentID int64) (bool, error)

	View(ctx context.Context) (model.PanelView, error)
}
