package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) showMainScreen() {
	a.pages.RemovePage("auth")
	a.pages.RemovePage("background")

	mainPage := a.createMainPage()
	a.pages.AddPage("main", mainPage, true, true)

	a.roomList.SetTitle(fmt.Sprintf(" Rooms [%s] ", a.state.User().Name))

	a.renderSidebar()
	a.renderActive()
	a.renderConnection(a.channel.Connected())
	a.updateStatusBarText()

	a.app.SetFocus(a.roomList)
}

func (a *App) createMainPage() tview.Primitive {
	a.roomList = newSidebarList(" Rooms ")
	a.roomList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		a.selectRoomAt(index)
	})

	a.contactList = newSidebarList(" Direct messages ")
	a.contactList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		a.selectContactAt(index)
	})

	a.titleView = tview.NewTextView()
	a.titleView.SetBackgroundColor(ColorBg)
	a.titleView.SetTextColor(ColorTitle)
	a.titleView.SetDynamicColors(true)

	a.messageView = tview.NewTextView()
	a.messageView.SetBorder(true)
	a.messageView.SetBorderColor(ColorBorder)
	a.messageView.SetBackgroundColor(ColorBg)
	a.messageView.SetTitleColor(ColorTitle)
	a.messageView.SetTextColor(ColorFg)
	a.messageView.SetDynamicColors(true)
	a.messageView.SetScrollable(true)

	a.attachView = tview.NewTextView()
	a.attachView.SetBackgroundColor(ColorBg)
	a.attachView.SetDynamicColors(true)

	a.noticeView = tview.NewTextView()
	a.noticeView.SetBackgroundColor(ColorBg)
	a.noticeView.SetDynamicColors(true)

	a.messageInput = tview.NewInputField()
	a.messageInput.SetLabel("> ")
	a.messageInput.SetFieldWidth(0)
	a.messageInput.SetBackgroundColor(ColorBg)
	a.messageInput.SetFieldBackgroundColor(ColorField)
	a.messageInput.SetFieldTextColor(ColorFg)
	a.messageInput.SetLabelColor(ColorHighlight)
	a.messageInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.sendCurrentInput()
		}
	})

	a.connectionView = tview.NewTextView()
	a.connectionView.SetBorder(true)
	a.connectionView.SetBorderColor(ColorBorder)
	a.connectionView.SetBackgroundColor(ColorBg)
	a.connectionView.SetTitle(" Connection ")
	a.connectionView.SetTitleColor(ColorTitle)
	a.connectionView.SetTextColor(ColorFg)
	a.connectionView.SetDynamicColors(true)
	a.connectionView.SetTextAlign(tview.AlignCenter)

	a.statusBar = tview.NewTextView()
	a.statusBar.SetBackgroundColor(ColorAccent)
	a.statusBar.SetTextColor(ColorTitle)
	a.statusBar.SetTextAlign(tview.AlignCenter)

	sidebar := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.roomList, 0, 1, true).
		AddItem(a.contactList, 0, 1, false).
		AddItem(a.connectionView, 3, 0, false)

	conversation := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.titleView, 1, 0, false).
		AddItem(a.messageView, 0, 1, false).
		AddItem(a.attachView, 1, 0, false).
		AddItem(a.noticeView, 1, 0, false).
		AddItem(a.messageInput, 1, 0, false)

	body := tview.NewFlex().
		AddItem(sidebar, 34, 0, true).
		AddItem(conversation, 0, 1, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	mainFlex.SetBackgroundColor(ColorBg)

	mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			a.showHelp()
			return nil
		case tcell.KeyF2:
			a.showCreateDialog()
			return nil
		case tcell.KeyF3:
			a.showAttachmentBrowser()
			return nil
		case tcell.KeyF4:
			a.clearStagedAttachment()
			return nil
		case tcell.KeyF5:
			go func() {
				if err := a.disp.RefreshSidebar(context.Background()); err != nil {
					a.reportError(err)
				}
			}()
			return nil
		case tcell.KeyF6:
			go a.connectChannel()
			return nil
		case tcell.KeyF7:
			a.showRemoveContactDialog()
			return nil
		case tcell.KeyF8:
			a.showLeaveRoomDialog()
			return nil
		case tcell.KeyF9:
			a.logout()
			return nil
		case tcell.KeyF10:
			a.quit()
			return nil
		case tcell.KeyTab:
			a.cycleFocus()
			return nil
		}
		return event
	})

	return mainFlex
}

func newSidebarList(title string) *tview.List {
	list := tview.NewList()
	list.SetBorder(true)
	list.SetBorderColor(ColorBorder)
	list.SetBackgroundColor(ColorBg)
	list.SetTitle(title)
	list.SetTitleColor(ColorTitle)
	list.SetMainTextColor(ColorFg)
	list.SetMainTextStyle(tcell.StyleDefault.Foreground(ColorFg).Background(ColorBg))
	list.SetSelectedTextColor(ColorTitle)
	list.SetSelectedBackgroundColor(ColorAccent)
	list.SetHighlightFullLine(true)
	list.ShowSecondaryText(false)
	return list
}

func (a *App) cycleFocus() {
	switch {
	case a.roomList.HasFocus():
		a.app.SetFocus(a.contactList)
	case a.contactList.HasFocus():
		a.app.SetFocus(a.messageInput)
	default:
		a.app.SetFocus(a.roomList)
	}
}

func (a *App) updateStatusBarText() {
	if a.statusBar == nil {
		return
	}
	a.statusBar.SetText(" F1:Help | F2:New | F3:Attach | F4:Unattach | F5:Refresh | F6:Reconnect | F7:Remove DM | F8:Leave | F9:Logout | F10:Quit ")
}
