package ui

import (
	"fmt"

	"parley/api"
	"parley/models"
)

// session.Renderer implementation. The session layer calls these off
// the tview goroutine (dispatcher work runs in per-intent goroutines,
// push handlers on the channel read loop), so each one queues a
// redraw.

func (a *App) SidebarChanged() {
	a.app.QueueUpdateDraw(a.renderSidebar)
}

func (a *App) MessagesChanged() {
	a.app.QueueUpdateDraw(a.renderMessages)
}

func (a *App) MessageAppended(m models.Message) {
	a.app.QueueUpdateDraw(func() {
		a.appendMessageLine(m)
	})
}

func (a *App) ActiveChanged() {
	a.app.QueueUpdateDraw(a.renderActive)
}

func (a *App) PresenceChanged(active int) {
	a.app.QueueUpdateDraw(func() {
		a.renderConnection(a.channel.Connected())
	})
}

func (a *App) ConnectionChanged(connected bool) {
	a.app.QueueUpdateDraw(func() {
		a.renderConnection(connected)
	})
}

// Notice shows a non-blocking inline message near the compose box.
func (a *App) Notice(text string) {
	a.app.QueueUpdateDraw(func() {
		a.showNotice(text)
	})
}

// reportError surfaces a dispatcher error. An expired session drops
// back to the auth page; everything else becomes an inline notice.
func (a *App) reportError(err error) {
	a.app.QueueUpdateDraw(func() {
		if api.IsAuth(err) {
			a.sessionExpired()
			return
		}
		a.showNotice(err.Error())
	})
}

func (a *App) showNotice(text string) {
	if a.noticeView == nil {
		return
	}
	a.noticeView.SetText(" [red]" + tviewEscape(text) + "[-]")
}

func (a *App) clearNotice() {
	if a.noticeView == nil {
		return
	}
	a.noticeView.SetText("")
}

// renderConnection redraws the connection panel with the channel state
// and the advisory presence count.
func (a *App) renderConnection(connected bool) {
	if a.connectionView == nil {
		return
	}
	if connected {
		a.connectionView.SetText(fmt.Sprintf("[green]● Connected[-] [gray]│ %d online[-]", a.state.Presence()))
	} else {
		a.connectionView.SetText("[red]○ Disconnected[-] [gray]│ F6 to reconnect[-]")
	}
}
