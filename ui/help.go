package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) showHelp() {
	helpText := `
 [yellow]Keys[-]
 ───────────────────────────────────────────────────────────────
   [white]F1[-]       Show this help
   [white]F2[-]       New conversation (DM by email, or room)
   [white]F3[-]       Attach an image to the compose box
   [white]F4[-]       Clear staged attachment
   [white]F5[-]       Refresh rooms and contacts
   [white]F6[-]       Reconnect push channel
   [white]F7[-]       Remove selected contact
   [white]F8[-]       Leave the room being viewed
   [white]F9[-]       Log out
   [white]F10[-]      Quit application
   [white]Tab[-]      Cycle focus (rooms, contacts, compose)
   [white]Enter[-]    Open conversation / send message

 [yellow]Sidebar[-]
 ───────────────────────────────────────────────────────────────
   The viewed conversation is shown in bold. A [red](n)[-] badge
   counts messages received while a conversation was in the
   background; opening it clears the badge.

 [yellow]Messages[-]
 ───────────────────────────────────────────────────────────────
   Your own messages are shown in [white]white[-], everyone
   else's in [yellow]yellow[-]. Sent messages appear only when
   the server delivers them back over the push channel, so a
   message you do not see was not accepted.

 [yellow]Connection[-]
 ───────────────────────────────────────────────────────────────
   [green]●[-] Connected     Push channel is up
   [red]○[-] Disconnected  Sends will fail until reconnected

   The channel retries automatically after a drop. If it gives
   up, press F6 to reconnect. Browsing history and the sidebar
   keep working while disconnected.
`

	helpView := tview.NewTextView()
	helpView.SetText(helpText)
	helpView.SetBackgroundColor(ColorBg)
	helpView.SetTextColor(ColorFg)
	helpView.SetDynamicColors(true)
	helpView.SetBorder(true)
	helpView.SetBorderColor(ColorBorder)
	helpView.SetTitle(" Help ")
	helpView.SetTitleColor(ColorTitle)
	helpView.SetScrollable(true)

	statusBar := tview.NewTextView()
	statusBar.SetBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	statusBar.SetTextColor(ColorTitle)
	statusBar.SetTextAlign(tview.AlignCenter)
	statusBar.SetText(" ↑↓/PgUp/PgDn: Scroll | Esc/Enter/F1: Close ")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(helpView, 0, 1, true).
		AddItem(statusBar, 1, 0, false)
	flex.SetBackgroundColor(ColorBg)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyEnter, tcell.KeyF1:
			a.pages.RemovePage("help")
			a.app.SetFocus(a.messageInput)
			return nil
		case tcell.KeyUp:
			row, col := helpView.GetScrollOffset()
			helpView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := helpView.GetScrollOffset()
			helpView.ScrollTo(row+1, col)
			return nil
		case tcell.KeyPgUp:
			row, col := helpView.GetScrollOffset()
			helpView.ScrollTo(row-10, col)
			return nil
		case tcell.KeyPgDn:
			row, col := helpView.GetScrollOffset()
			helpView.ScrollTo(row+10, col)
			return nil
		case tcell.KeyHome:
			helpView.ScrollToBeginning()
			return nil
		case tcell.KeyEnd:
			helpView.ScrollToEnd()
			return nil
		}
		return event
	})

	a.pages.AddPage("help", flex, true, true)
}
