package ui

import (
	"context"
	"fmt"

	"github.com/rivo/tview"

	"parley/models"
)

// showCreateDialog opens the new-conversation form. One of the two
// fields is enough; when both are filled the email wins and a DM is
// created.
func (a *App) showCreateDialog() {
	form := tview.NewForm()
	form.SetBackgroundColor(ColorBg)
	form.SetFieldBackgroundColor(ColorField)
	form.SetFieldTextColor(ColorFg)
	form.SetLabelColor(ColorHighlight)
	form.SetButtonBackgroundColor(ColorAccent)
	form.SetButtonTextColor(ColorTitle)
	form.SetBorder(true)
	form.SetBorderColor(ColorBorder)
	form.SetTitle(" New conversation ")
	form.SetTitleColor(ColorTitle)

	statusLabel := tview.NewTextView()
	statusLabel.SetBackgroundColor(ColorBg)
	statusLabel.SetDynamicColors(true)

	emailField := tview.NewInputField()
	emailField.SetLabel("Email (DM): ")
	emailField.SetFieldWidth(30)

	roomField := tview.NewInputField()
	roomField.SetLabel("Room name: ")
	roomField.SetFieldWidth(30)

	form.AddFormItem(emailField)
	form.AddFormItem(roomField)

	form.AddButton("Create", func() {
		email := emailField.GetText()
		roomName := roomField.GetText()
		statusLabel.SetText("Creating...")
		go func() {
			_, err := a.disp.CreateConversation(context.Background(), email, roomName)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					statusLabel.SetText("[red]" + tviewEscape(err.Error()) + "[-]")
					return
				}
				a.pages.RemovePage("dialog")
				a.app.SetFocus(a.messageInput)
			})
		}()
	})

	form.AddButton("Cancel", func() {
		a.pages.RemovePage("dialog")
		a.app.SetFocus(a.roomList)
	})

	a.showDialog(form, statusLabel, 11)
}

// showRemoveContactDialog confirms removal of the contact under the
// sidebar cursor.
func (a *App) showRemoveContactDialog() {
	contact, ok := a.selectedContact()
	if !ok {
		return
	}

	modal := tview.NewModal()
	modal.SetText(fmt.Sprintf("Remove saved contact %s (%s)?", contact.Name, contact.Email))
	modal.SetBackgroundColor(ColorBg)
	modal.SetTextColor(ColorFg)
	modal.SetButtonBackgroundColor(ColorAccent)
	modal.SetButtonTextColor(ColorTitle)
	modal.AddButtons([]string{"Remove", "Cancel"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.pages.RemovePage("dialog")
		a.app.SetFocus(a.contactList)
		if buttonLabel != "Remove" {
			return
		}
		go func() {
			if err := a.disp.RemoveContact(context.Background(), contact.ID); err != nil {
				a.reportError(err)
			}
		}()
	})

	a.pages.AddPage("dialog", modal, true, true)
}

// showLeaveRoomDialog confirms leaving the room being viewed.
func (a *App) showLeaveRoomDialog() {
	active := a.state.Active()
	if active.Kind != models.KindRoom {
		a.showNotice("select a room first")
		return
	}

	modal := tview.NewModal()
	modal.SetText(fmt.Sprintf("Leave room # %s?", active.Name))
	modal.SetBackgroundColor(ColorBg)
	modal.SetTextColor(ColorFg)
	modal.SetButtonBackgroundColor(ColorAccent)
	modal.SetButtonTextColor(ColorTitle)
	modal.AddButtons([]string{"Leave", "Cancel"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.pages.RemovePage("dialog")
		a.app.SetFocus(a.roomList)
		if buttonLabel != "Leave" {
			return
		}
		go func() {
			if err := a.disp.LeaveActiveRoom(context.Background()); err != nil {
				a.reportError(err)
			}
		}()
	})

	a.pages.AddPage("dialog", modal, true, true)
}

// showDialog centers a form with a status line under it.
func (a *App) showDialog(form *tview.Form, statusLabel *tview.TextView, height int) {
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(form, 50, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(statusLabel, 50, 0, false).
			AddItem(nil, 0, 1, false), 1, 0, false).
		AddItem(nil, 0, 1, false)
	flex.SetBackgroundColor(ColorBg)

	a.pages.AddPage("dialog", flex, true, true)
	a.app.SetFocus(form)
}
