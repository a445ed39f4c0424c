// Package tui is the terminal surface of the comment panel: a composer, the
// sorted thread list and a per-comment reply input, driven by bubbletea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/service"
)

type focus int

const (
	focusComposer focus = iota
	focusList
	focusReply
)

// row is one selectable line of the thread list. replyID is zero on
// comment rows.
type row struct {
	commentID int64
	replyID   int64
}

type Model struct {
	svc    service.PanelService
	ctx    context.Context
	logger *zap.Logger
	layout string
	keys   keyMap
	styles Styles

	composer    textarea.Model
	reply       textinput.Model
	replyTarget int64

	focus  focus
	cursor int
	view   model.PanelView
	rows   []row

	width    int
	quitting bool
}

type Option func(*Model)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithTimestampLayout(layout string) Option {
	return func(m *Model) {
		if layout != "" {
			m.layout = layout
		}
	}
}

func New(ctx context.Context, svc service.PanelService, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your comment..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(60)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Reply to this comment..."
	ti.Width = 56

	m := Model{
		svc:      svc,
		ctx:      ctx,
		logger:   zap.NewNop(),
		layout:   "2006-01-02 15:04:05",
		keys:     defaultKeyMap(),
		styles:   DefaultStyles(),
		composer: ta,
		reply:    ti,
		focus:    focusComposer,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.composer.SetWidth(msg.Width - 4)
			m.reply.Width = msg.Width - 10
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.focus {
		case focusComposer:
			return m.updateComposer(msg)
		case focusReply:
			return m.updateReply(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusComposer:
		m.composer, cmd = m.composer.Update(msg)
	case focusReply:
		m.reply, cmd = m.reply.Update(msg)
	}
	return m, cmd
}

func (m Model) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Post):
		if _, err := m.svc.Post(m.ctx); err != nil {
			m.ignore("post", err)
		} else {
			m.composer.Reset()
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.focusOn(focusList)
		return m, nil
	}

	before := m.composer.Value()
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	if after := m.composer.Value(); after != before {
		m.ignore("set pending", m.svc.SetPending(m.ctx, after))
		m.view.Pending = after
	}
	return m, cmd
}

func (m Model) updateReply(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if _, err := m.svc.SubmitReply(m.ctx, m.replyTarget); err != nil {
			m.ignore("submit reply", err)
		} else {
			m.reply.Reset()
		}
		m.focusOn(focusList)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.focusOn(focusList)
		m.refresh()
		return m, nil
	}

	before := m.reply.Value()
	var cmd tea.Cmd
	m.reply, cmd = m.reply.Update(msg)
	if after := m.reply.Value(); after != before {
		m.ignore("set reply draft", m.svc.SetReplyDraft(m.ctx, m.replyTarget, after))
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Compose):
		m.focusOn(focusComposer)
		return m, textarea.Blink

	case key.Matches(msg, m.keys.Sort):
		m.ignore("set sort", m.svc.SetSortOrder(m.ctx, m.view.Sort.Next()))
		m.refresh()

	case key.Matches(msg, m.keys.Timestamps):
		_, err := m.svc.ToggleTimestamps(m.ctx)
		m.ignore("toggle timestamps", err)
		m.refresh()

	case key.Matches(msg, m.keys.Star):
		if r, ok := m.selected(); ok {
			_, err := m.svc.ToggleStar(m.ctx, r.commentID)
			m.ignore("toggle star", err)
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.selected(); ok {
			if r.replyID != 0 {
				m.ignore("delete reply", m.svc.DeleteReply(m.ctx, r.commentID, r.replyID))
			} else {
				m.ignore("delete comment", m.svc.DeleteComment(m.ctx, r.commentID))
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Reply):
		if r, ok := m.selected(); ok {
			m.refresh()
			m.replyTarget = r.commentID
			m.reply.SetValue(m.draftFor(r.commentID))
			m.focusOn(focusReply)
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) focusOn(f focus) {
	m.focus = f
	m.composer.Blur()
	m.reply.Blur()
	switch f {
	case focusComposer:
		m.composer.Focus()
	case focusReply:
		m.reply.Focus()
	}
}

// refresh reloads the panel view and rebuilds the selectable rows.
func (m *Model) refresh() {
	v, err := m.svc.View(m.ctx)
	if err != nil {
		m.logger.Error("load panel view", zap.Error(err))
		return
	}
	m.view = v

	rows := make([]row, 0, len(v.Threads))
	for _, th := range v.Threads {
		rows = append(rows, row{commentID: th.ID})
		for _, r := range th.Replies {
			rows = append(rows, row{commentID: th.ID, replyID: r.ID})
		}
	}
	m.rows = rows

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) draftFor(commentID int64) string {
	for _, th := range m.view.Threads {
		if th.ID == commentID {
			return th.ReplyDraft
		}
	}
	return ""
}

// ignore logs a rejected panel operation. The panel itself gives no
// feedback for these.
func (m Model) ignore(op string, err error) {
	if err != nil {
		m.logger.Debug("panel operation ignored", zap.String("op", op), zap.Error(err))
	}
}

// Run starts the bubbletea program on the alternate screen and blocks
// until the user quits.
func Run(ctx context.Context, svc service.PanelService, opts ...Option) error {
	p := tea.NewProgram(New(ctx, svc, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
