package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	inm "github.com/MyNameIsWhaaat/commentpanel/internal/comment/storage/inmemory"
)

// clock is a settable time source shared by the repo under test.
type clock struct{ ms int64 }

func (c *clock) now() time.Time { return time.UnixMilli(c.ms) }

func newPanel(t *testing.T, opts ...Option) (PanelService, *clock) {
	t.Helper()
	clk := &clock{ms: 1_000}
	return New(inm.NewWithClock(clk.now), nil, opts...), clk
}

func post(t *testing.T, svc PanelService, text string) model.Comment {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.SetPending(ctx, text))
	c, err := svc.Post(ctx)
	require.NoError(t, err)
	return c
}

func view(t *testing.T, svc PanelService) model.PanelView {
	t.Helper()
	v, err := svc.View(context.Background())
	require.NoError(t, err)
	return v
}

func TestPostAddsOneCommentWithRawText(t *testing.T) {
	svc, _ := newPanel(t)

	c := post(t, svc, "  hello world \n")

	v := view(t, svc)
	require.Equal(t, 1, v.Total)
	assert.Equal(t, "  hello world \n", v.Threads[0].Text)
	assert.Equal(t, c.ID, v.Threads[0].ID)
	assert.Empty(t, v.Threads[0].Replies)
	assert.Empty(t, v.Pending, "pending text is cleared after posting")
}

func TestPostWhitespaceIsNoop(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, "   "))
	_, err := svc.Post(ctx)
	assert.ErrorIs(t, err, ErrInvalidInput)

	v := view(t, svc)
	assert.Zero(t, v.Total)
	assert.Equal(t, "   ", v.Pending, "a rejected post keeps the pending text")
}

func TestPostMaxTextLength(t *testing.T) {
	svc, _ := newPanel(t, WithMaxTextLength(5))
	ctx := context.Background()

	require.NoError(t, svc.SetPending(ctx, "héllo!"))
	_, err := svc.Post(ctx)
	assert.ErrorIs(t, err, ErrInvalidInput)

	post(t, svc, "héllo")
	assert.Equal(t, 1, view(t, svc).Total)
}

func TestDeleteByIDWithReplyRemovesParent(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	other := post(t, svc, "other")
	parent := post(t, svc, "parent")
	_, err := svc.Reply(ctx, parent.ID, "first reply")
	require.NoError(t, err)
	second, err := svc.Reply(ctx, parent.ID, "second reply")
	require.NoError(t, err)

	deleted, err := svc.DeleteByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	v := view(t, svc)
	require.Equal(t, 1, v.Total)
	assert.Equal(t, other.ID, v.Threads[0].ID)
}

func TestDeleteByIDUnknownLeavesListUnchanged(t *testing.T) {
	svc, _ := newPanel(t)
	post(t, svc, "a")
	post(t, svc, "b")
	before := view(t, svc)

	deleted, err := svc.DeleteByID(context.Background(), 777)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	after := view(t, svc)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("view changed (-before +after):\n%s", diff)
	}
}

func TestDeleteReplyOnlyRemovesThatReply(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	parent := post(t, svc, "parent")
	first, err := svc.Reply(ctx, parent.ID, "first")
	require.NoError(t, err)
	second, err := svc.Reply(ctx, parent.ID, "second")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReply(ctx, parent.ID, second.ID))

	v := view(t, svc)
	require.Equal(t, 1, v.Total)
	require.Len(t, v.Threads[0].Replies, 1)
	assert.Equal(t, first.ID, v.Threads[0].Replies[0].ID)

	assert.ErrorIs(t, svc.DeleteReply(ctx, parent.ID, second.ID), ErrNotFound)
}

func TestDeleteComment(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	c := post(t, svc, "gone")
	_, err := svc.Reply(ctx, c.ID, "child")
	require.NoError(t, err)
	require.NoError(t, svc.SetReplyDraft(ctx, c.ID, "unsent"))

	require.NoError(t, svc.DeleteComment(ctx, c.ID))
	assert.Zero(t, view(t, svc).Total)

	assert.ErrorIs(t, svc.DeleteComment(ctx, c.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteComment(ctx, 0), ErrInvalidInput)
}

func TestReplyKeepsTextAsIs(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	c := post(t, svc, "root")
	r, err := svc.Reply(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "", r.Text)

	v := view(t, svc)
	require.Len(t, v.Threads[0].Replies, 1)
}

func TestReplyMissingCommentIsNoop(t *testing.T) {
	svc, _ := newPanel(t)
	post(t, svc, "root")
	before := view(t, svc)

	_, err := svc.Reply(context.Background(), 999_999, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, view(t, svc))
}

func TestSubmitReplyUsesPerCommentDraft(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	a := post(t, svc, "a")
	b := post(t, svc, "b")
	require.NoError(t, svc.SetPending(ctx, "main composer text"))
	require.NoError(t, svc.SetReplyDraft(ctx, a.ID, "reply to a"))
	require.NoError(t, svc.SetReplyDraft(ctx, b.ID, "reply to b"))

	r, err := svc.SubmitReply(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "reply to a", r.Text)

	v := view(t, svc)
	byID := map[int64]model.Thread{}
	for _, th := range v.Threads {
		byID[th.ID] = th
	}
	assert.Empty(t, byID[a.ID].ReplyDraft)
	assert.Equal(t, "reply to b", byID[b.ID].ReplyDraft)
	assert.Empty(t, byID[b.ID].Replies)
	assert.Equal(t, "main composer text", v.Pending)
}

func TestSubmitReplyBlankDraft(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	c := post(t, svc, "root")
	_, err := svc.SubmitReply(ctx, c.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.SetReplyDraft(ctx, c.ID, "  "))
	_, err = svc.SubmitReply(ctx, c.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, view(t, svc).Threads[0].Replies)

	assert.ErrorIs(t, svc.SetReplyDraft(ctx, 31337, "x"), ErrNotFound)
	_, err = svc.SubmitReply(ctx, 31337)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleStarRoundTrip(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	c := post(t, svc, "star me")
	before := view(t, svc).Starred

	on, err := svc.ToggleStar(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, on)
	v := view(t, svc)
	assert.Equal(t, []int64{c.ID}, v.Starred)
	assert.True(t, v.Threads[0].Starred)

	off, err := svc.ToggleStar(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Equal(t, before, view(t, svc).Starred)
}

func TestStarSurvivesDeletion(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	c := post(t, svc, "soon gone")
	_, err := svc.ToggleStar(ctx, c.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteComment(ctx, c.ID))

	assert.Equal(t, []int64{c.ID}, view(t, svc).Starred)

	// ids are not validated
	on, err := svc.ToggleStar(ctx, 5)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestToggleTimestampsTwice(t *testing.T) {
	svc, _ := newPanel(t)
	ctx := context.Background()

	initial := view(t, svc).ShowTimestamps
	assert.True(t, initial)

	first, err := svc.ToggleTimestamps(ctx)
	require.NoError(t, err)
	assert.Equal(t, !initial, first)

	second, err := svc.ToggleTimestamps(ctx)
	require.NoError(t, err)
	assert.Equal(t, initial, second)
	assert.Equal(t, initial, view(t, svc).ShowTimestamps)
}

func TestViewSortOrders(t *testing.T) {
	svc, clk := newPanel(t)
	ctx := context.Background()

	// timestamps [100, 300, 200], reply counts [0, 2, 1]
	clk.ms = 100
	post(t, svc, "t100")
	clk.ms = 300
	c300 := post(t, svc, "t300")
	clk.ms = 200
	c200 := post(t, svc, "t200")

	clk.ms = 400
	for _, target := range []int64{c300.ID, c300.ID, c200.ID} {
		_, err := svc.Reply(ctx, target, "r")
		require.NoError(t, err)
	}

	timestamps := func(v model.PanelView) []int64 {
		out := make([]int64, 0, len(v.Threads))
		for _, th := range v.Threads {
			out = append(out, th.Timestamp)
		}
		return out
	}
	replyCounts := func(v model.PanelView) []int {
		out := make([]int, 0, len(v.Threads))
		for _, th := range v.Threads {
			out = append(out, len(th.Replies))
		}
		return out
	}

	tests := []struct {
		order  model.SortOrder
		stamps []int64
		counts []int
	}{
		{model.SortLatest, []int64{300, 200, 100}, []int{2, 1, 0}},
		{model.SortOldest, []int64{100, 200, 300}, []int{0, 1, 2}},
		{model.SortMostReplies, []int64{300, 200, 100}, []int{2, 1, 0}},
		{model.SortLeastReplies, []int64{100, 200, 300}, []int{0, 1, 2}},
		{model.SortOrder("bogus"), []int64{100, 300, 200}, []int{0, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			require.NoError(t, svc.SetSortOrder(ctx, tt.order))
			v := view(t, svc)
			assert.Equal(t, tt.order, v.Sort)
			assert.Equal(t, tt.stamps, timestamps(v))
			assert.Equal(t, tt.counts, replyCounts(v))
		})
	}
}

func TestSortCommentsDoesNotMutateInput(t *testing.T) {
	in := []model.Comment{
		{ID: 1, Timestamp: 100},
		{ID: 2, Timestamp: 300},
		{ID: 3, Timestamp: 200},
	}
	orig := append([]model.Comment(nil), in...)

	out := SortComments(in, model.SortLatest)

	assert.Equal(t, orig, in)
	assert.Equal(t, []int64{2, 3, 1}, []int64{out[0].ID, out[1].ID, out[2].ID})
}

func TestOptions(t *testing.T) {
	svc, _ := newPanel(t, WithSortOrder(model.SortOldest), WithShowTimestamps(false))

	v := view(t, svc)
	assert.Equal(t, model.SortOldest, v.Sort)
	assert.False(t, v.ShowTimestamps)
}
