package ui

import (
	"context"
	"fmt"

	"parley/models"
)

// renderSidebar redraws both sidebar lists from the session state,
// with unread badges and the active conversation highlighted.
func (a *App) renderSidebar() {
	if a.roomList == nil || a.contactList == nil {
		return
	}

	active := a.state.Active()

	roomIdx := a.roomList.GetCurrentItem()
	a.roomList.Clear()
	for _, r := range a.state.Rooms() {
		label := fmt.Sprintf("# %s", r.Name)
		if unread := a.state.Unread(models.ConversationKey(models.KindRoom, r.ID)); unread > 0 {
			label = fmt.Sprintf("# %s [red](%d)[-]", r.Name, unread)
		}
		if active.IsRoom(r.ID) {
			label = "[::b]" + label
		}
		a.roomList.AddItem(label, "", 0, nil)
	}
	if roomIdx >= 0 && roomIdx < a.roomList.GetItemCount() {
		a.roomList.SetCurrentItem(roomIdx)
	}

	contactIdx := a.contactList.GetCurrentItem()
	a.contactList.Clear()
	for _, c := range a.state.Contacts() {
		label := c.Name
		if unread := a.state.Unread(models.ConversationKey(models.KindDM, c.ID)); unread > 0 {
			label = fmt.Sprintf("%s [red](%d)[-]", c.Name, unread)
		}
		if active.Kind == models.KindDM && active.ID == c.ID {
			label = "[::b]" + label
		}
		a.contactList.AddItem(label, "", 0, nil)
	}
	if contactIdx >= 0 && contactIdx < a.contactList.GetItemCount() {
		a.contactList.SetCurrentItem(contactIdx)
	}
}

func (a *App) selectRoomAt(index int) {
	rooms := a.state.Rooms()
	if index < 0 || index >= len(rooms) {
		return
	}
	a.selectConversation(models.RoomConversation(rooms[index]))
}

func (a *App) selectContactAt(index int) {
	contacts := a.state.Contacts()
	if index < 0 || index >= len(contacts) {
		return
	}
	a.selectConversation(models.DMConversation(contacts[index]))
}

func (a *App) selectConversation(conv models.Conversation) {
	a.clearNotice()
	go func() {
		if err := a.disp.SelectConversation(context.Background(), conv); err != nil {
			a.reportError(err)
		}
	}()
}

// selectedContact returns the contact the sidebar cursor is on.
func (a *App) selectedContact() (models.Contact, bool) {
	contacts := a.state.Contacts()
	idx := a.contactList.GetCurrentItem()
	if idx < 0 || idx >= len(contacts) {
		return models.Contact{}, false
	}
	return contacts[idx], true
}
