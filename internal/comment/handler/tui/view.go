package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("Comments"))
	sb.WriteString("  ")
	sb.WriteString(m.controls())
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Composer.Render(m.composer.View()))
	sb.WriteString("\n\n")

	if len(m.view.Threads) == 0 {
		sb.WriteString(m.styles.Empty.Render("No comments yet."))
		sb.WriteString("\n")
	}

	idx := 0
	for _, th := range m.view.Threads {
		sb.WriteString(m.renderComment(th, idx))
		sb.WriteString("\n")
		idx++

		for _, r := range th.Replies {
			sb.WriteString(m.renderReply(r, idx))
			sb.WriteString("\n")
			idx++
		}

		if m.focus == focusReply && m.replyTarget == th.ID {
			sb.WriteString(m.styles.Reply.Render(m.reply.View()))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render(m.helpLine()))
	return sb.String()
}

func (m Model) controls() string {
	ts := "[ ]"
	if m.view.ShowTimestamps {
		ts = "[x]"
	}
	return m.styles.Control.Render(fmt.Sprintf(
		"Sort By: %s   %s Show Timestamp   %d comments",
		m.view.Sort.Label(), ts, m.view.Total,
	))
}

func (m Model) renderComment(th model.Thread, idx int) string {
	star := "☆"
	if th.Starred {
		star = m.styles.Star.Render("★")
	}

	line := fmt.Sprintf("%s %s %s", m.marker(idx), star, th.Text)
	if m.view.ShowTimestamps {
		line += "  " + m.styles.Time.Render(m.formatTime(th.Timestamp))
	}
	if m.focus == focusList && idx == m.cursor {
		return m.styles.Comment.Render(m.styles.Selected.Render(line))
	}
	return m.styles.Comment.Render(line)
}

func (m Model) renderReply(r model.Reply, idx int) string {
	line := fmt.Sprintf("%s ↳ %s", m.marker(idx), r.Text)
	if m.view.ShowTimestamps {
		line += "  " + m.styles.Time.Render(m.formatTime(r.Timestamp))
	}
	if m.focus == focusList && idx == m.cursor {
		return m.styles.Reply.Render(m.styles.Selected.Render(line))
	}
	return m.styles.Reply.Render(line)
}

func (m Model) marker(idx int) string {
	if m.focus == focusList && idx == m.cursor {
		return ">"
	}
	return " "
}

func (m Model) formatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format(m.layout)
}

func (m Model) helpLine() string {
	k := m.keys
	var line string
	switch m.focus {
	case focusComposer:
		line = help(k.Post, k.Back)
	case focusReply:
		line = help(k.Submit, k.Back)
	default:
		line = help(k.Up, k.Down, k.Reply, k.Delete, k.Star, k.Sort, k.Timestamps, k.Compose, k.Quit)
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}
