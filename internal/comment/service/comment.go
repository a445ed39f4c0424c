package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/storage"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Option func(*panelService)

func WithSortOrder(order model.SortOrder) Option {
	return func(s *panelService) { s.sort = order }
}

func WithShowTimestamps(show bool) Option {
	return func(s *panelService) { s.showTimestamps = show }
}

// WithMaxTextLength caps new comment text in runes. Zero disables the cap.
func WithMaxTextLength(n int) Option {
	return func(s *panelService) { s.maxTextLength = n }
}

type panelService struct {
	repo   storage.Repository
	logger *zap.Logger

	mu             sync.Mutex
	pending        string
	drafts         map[int64]string
	sort           model.SortOrder
	showTimestamps bool
	starred        map[int64]struct{}
	maxTextLength  int
}

func New(repo storage.Repository, logger *zap.Logger, opts ...Option) PanelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &panelService{
		repo:           repo,
		logger:         logger,
		drafts:         make(map[int64]string),
		sort:           model.SortLatest,
		showTimestamps: true,
		starred:        make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *panelService) SetPending(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = text
	s.mu.Unlock()
	return nil
}

func (s *panelService) Post(ctx context.Context) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateText(s.pending); err != nil {
		return model.Comment{}, err
	}

	c, err := s.repo.CreateComment(ctx, s.pending)
	if err != nil {
		return model.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	s.pending = ""

	s.logger.Debug("comment posted", zap.Int64("id", c.ID), zap.Int("length", len(c.Text)))
	return c, nil
}

func (s *panelService) Reply(ctx context.Context, commentID int64, text string) (model.Reply, error) {
	if commentID <= 0 {
		return model.Reply{}, ErrInvalidInput
	}

	r, err := s.repo.CreateReply(ctx, commentID, text)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Reply{}, ErrNotFound
	}
	if err != nil {
		return model.Reply{}, fmt.Errorf("create reply: %w", err)
	}

	s.logger.Debug("reply added", zap.Int64("comment_id", commentID), zap.Int64("id", r.ID))
	return r, nil
}

func (s *panelService) SetReplyDraft(ctx context.Context, commentID int64, text string) error {
	ok, err := s.exists(ctx, commentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if text == "" {
		delete(s.drafts, commentID)
		return nil
	}
	s.drafts[commentID] = text
	return nil
}

func (s *panelService) SubmitReply(ctx context.Context, commentID int64) (model.Reply, error) {
	ok, err := s.exists(ctx, commentID)
	if err != nil {
		return model.Reply{}, err
	}
	if !ok {
		return model.Reply{}, ErrNotFound
	}

	s.mu.Lock()
	draft := s.drafts[commentID]
	s.mu.Unlock()

	if strings.TrimSpace(draft) == "" {
		return model.Reply{}, ErrInvalidInput
	}

	r, err := s.Reply(ctx, commentID, draft)
	if err != nil {
		return model.Reply{}, err
	}

	s.mu.Lock()
	if s.drafts[commentID] == draft {
		delete(s.drafts, commentID)
	}
	s.mu.Unlock()

	return r, nil
}

func (s *panelService) DeleteComment(ctx context.Context, commentID int64) error {
	if commentID <= 0 {
		return ErrInvalidInput
	}

	err := s.repo.DeleteComment(ctx, commentID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.forgetDrafts(commentID)
	s.logger.Debug("comment deleted", zap.Int64("id", commentID))
	return nil
}

func (s *panelService) DeleteReply(ctx context.Context, commentID, replyID int64) error {
	if commentID <= 0 || replyID <= 0 {
		return ErrInvalidInput
	}

	err := s.repo.DeleteReply(ctx, commentID, replyID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}

	s.logger.Debug("reply deleted", zap.Int64("comment_id", commentID), zap.Int64("id", replyID))
	return nil
}

func (s *panelService) DeleteByID(ctx context.Context, id int64) (int, error) {
	removed, err := s.repo.DeleteMatching(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete by id: %w", err)
	}

	s.forgetDrafts(removed...)
	if len(removed) > 0 {
		s.logger.Debug("comments deleted by id", zap.Int64("id", id), zap.Int64s("removed", removed))
	}
	return len(removed), nil
}

// SetSortOrder stores order as given. Values outside the four known orders
// are kept and render in insertion order.
func (s *panelService) SetSortOrder(ctx context.Context, order model.SortOrder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sort = order
	s.mu.Unlock()
	return nil
}

func (s *panelService) ToggleTimestamps(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showTimestamps = !s.showTimestamps
	return s.showTimestamps, nil
}

// ToggleStar flips membership of commentID in the starred set. Ids are not
// checked against the comment list and survive comment deletion.
func (s *panelService) ToggleStar(ctx context.Context, commentID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.starred[commentID]; ok {
		delete(s.starred, commentID)
		return false, nil
	}
	s.starred[commentID] = struct{}{}
	return true, nil
}

func (s *panelService) View(ctx context.Context) (model.PanelView, error) {
	comments, err := s.repo.List(ctx)
	if err != nil {
		return model.PanelView{}, fmt.Errorf("list comments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := SortComments(comments, s.sort)
	threads := make([]model.Thread, 0, len(sorted))
	for _, c := range sorted {
		_, starred := s.starred[c.ID]
		threads = append(threads, model.Thread{
			Comment:    c,
			Starred:    starred,
			ReplyDraft: s.drafts[c.ID],
		})
	}

	return model.PanelView{
		Threads:        threads,
		Pending:        s.pending,
		Sort:           s.sort,
		ShowTimestamps: s.showTimestamps,
		Starred:        starredIDs(s.starred),
		Total:          len(threads),
	}, nil
}

func (s *panelService) exists(ctx context.Context, commentID int64) (bool, error) {
	if commentID <= 0 {
		return false, ErrInvalidInput
	}
	ok, err := s.repo.Exists(ctx, commentID)
	if err != nil {
		return false, fmt.Errorf("lookup comment: %w", err)
	}
	return ok, nil
}

func (s *panelService) forgetDrafts(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.drafts, id)
	}
}

func (s *panelService) validateText(text string) error {
	t := strings.TrimSpace(text)
	if t == "" {
		return ErrInvalidInput
	}
	if s.maxTextLength > 0 && utf8.RuneCountInString(text) > s.maxTextLength {
		return ErrInvalidInput
	}
	return nil
}
