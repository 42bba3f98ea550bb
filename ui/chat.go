package ui

import (
	"context"
	"fmt"
	"strings"

	"parley/models"
)

// renderActive redraws the conversation title line.
func (a *App) renderActive() {
	if a.titleView == nil {
		return
	}
	active := a.state.Active()
	switch active.Kind {
	case models.KindRoom:
		a.titleView.SetText(fmt.Sprintf(" [::b]# %s[-:-:-]  [gray](F8 to leave)[-]", tviewEscape(active.Name)))
	case models.KindDM:
		a.titleView.SetText(fmt.Sprintf(" [::b]%s[-:-:-]", tviewEscape(active.Name)))
	default:
		a.titleView.SetText(" [gray]Select a conversation[-]")
	}
}

// renderMessages redraws the whole visible list from state. Used after
// history fetches and list clears; live pushes go through
// appendMessageLine instead.
func (a *App) renderMessages() {
	if a.messageView == nil {
		return
	}
	a.messageView.Clear()

	var sb strings.Builder
	var lastDate string
	for _, m := range a.state.Messages() {
		a.writeMessage(&sb, m, &lastDate)
	}
	a.messageView.SetText(sb.String())
	a.messageView.ScrollToEnd()
}

// appendMessageLine appends a single pushed message without redrawing
// history.
func (a *App) appendMessageLine(m models.Message) {
	if a.messageView == nil {
		return
	}
	lastDate := ""
	if msgs := a.state.Messages(); len(msgs) >= 2 {
		// The pushed message is already last in state; the one before
		// it decides whether a date separator is due.
		lastDate = messageDate(msgs[len(msgs)-2].CreatedAt)
	}
	var sb strings.Builder
	a.writeMessage(&sb, m, &lastDate)
	fmt.Fprint(a.messageView, sb.String())
	a.messageView.ScrollToEnd()
}

func (a *App) writeMessage(sb *strings.Builder, m models.Message, lastDate *string) {
	if date := messageDate(m.CreatedAt); date != "" && date != *lastDate {
		sb.WriteString(fmt.Sprintf("[gray]── %s ──[-]\n", formatDateSeparator(m.CreatedAt)))
		*lastDate = date
	}

	name := tviewEscape(m.SenderName)
	clock := formatClock(m.CreatedAt)
	if m.SenderID == a.state.User().ID {
		sb.WriteString(fmt.Sprintf("[gray]%s[-] [white]%s[-]", clock, name))
	} else {
		sb.WriteString(fmt.Sprintf("[gray]%s[-] [yellow]%s[-]", clock, name))
	}
	if m.Content != "" {
		sb.WriteString(": " + tviewEscape(m.Content))
	}
	sb.WriteString("\n")

	if m.AttachmentType == models.AttachmentImage && m.AttachmentURL != "" {
		sb.WriteString(fmt.Sprintf("         [aqua][image][-] %s%s\n", a.rest.ServerURL(), tviewEscape(m.AttachmentURL)))
	}
}

// sendCurrentInput dispatches the compose box. The box is cleared only
// when the emission succeeded; the echo arrives later through the push
// channel.
func (a *App) sendCurrentInput() {
	text := a.messageInput.GetText()
	a.clearNotice()
	go func() {
		if err := a.disp.SendMessage(context.Background(), text); err != nil {
			a.reportError(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.messageInput.SetText("")
			a.renderAttachment()
		})
	}()
}

// renderAttachment shows the staged attachment indicator.
func (a *App) renderAttachment() {
	if a.attachView == nil {
		return
	}
	if p := a.state.Pending(); p != nil {
		a.attachView.SetText(fmt.Sprintf(" [aqua]attached:[-] %s [gray](%s, F4 to remove)[-]", tviewEscape(p.Path), p.Mime))
	} else {
		a.attachView.SetText("")
	}
}

func (a *App) clearStagedAttachment() {
	a.disp.ClearAttachment()
	a.renderAttachment()
}
