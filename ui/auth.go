package ui

import (
	"context"

	"github.com/rivo/tview"
)

// showAuthPage presents the login/register form. The name field is
// only needed for registration. Errors show inline under the form.
func (a *App) showAuthPage(notice string) {
	form := tview.NewForm()
	form.SetBackgroundColor(ColorBg)
	form.SetFieldBackgroundColor(ColorField)
	form.SetFieldTextColor(ColorFg)
	form.SetLabelColor(ColorHighlight)
	form.SetButtonBackgroundColor(ColorAccent)
	form.SetButtonTextColor(ColorTitle)
	form.SetBorder(true)
	form.SetBorderColor(ColorBorder)
	form.SetTitle(" parley ")
	form.SetTitleColor(ColorTitle)

	statusText := tview.NewTextView()
	statusText.SetBackgroundColor(ColorBg)
	statusText.SetTextAlign(tview.AlignCenter)
	statusText.SetDynamicColors(true)
	if notice != "" {
		statusText.SetText("[red]" + tview.Escape(notice) + "[-]")
	}

	nameField := tview.NewInputField()
	nameField.SetLabel("Name: ")
	nameField.SetFieldWidth(30)

	emailField := tview.NewInputField()
	emailField.SetLabel("Email: ")
	emailField.SetFieldWidth(30)

	passwordField := tview.NewInputField()
	passwordField.SetLabel("Password: ")
	passwordField.SetFieldWidth(30)
	passwordField.SetMaskCharacter('*')

	form.AddFormItem(nameField)
	form.AddFormItem(emailField)
	form.AddFormItem(passwordField)

	showError := func(msg string) {
		statusText.SetText("[red]" + tview.Escape(msg) + "[-]")
	}

	finish := func(err error) {
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				showError(err.Error())
				return
			}
			a.pages.RemovePage("auth")
			a.showMainScreen()
		})
		if err == nil {
			a.connectChannel()
		}
	}

	form.AddButton("Login", func() {
		email := emailField.GetText()
		password := passwordField.GetText()
		statusText.SetText("Authenticating...")
		go func() {
			finish(a.disp.Login(context.Background(), email, password))
		}()
	})

	form.AddButton("Register", func() {
		name := nameField.GetText()
		email := emailField.GetText()
		password := passwordField.GetText()
		statusText.SetText("Registering...")
		go func() {
			finish(a.disp.Register(context.Background(), name, email, password))
		}()
	})

	form.AddButton("Quit", func() {
		a.app.Stop()
	})

	formFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(statusText, 1, 0, false)

	width := 54
	height := 14

	modal := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(formFlex, width, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(nil, 0, 1, false)

	a.pages.AddPage("auth", modal, true, true)
	a.app.SetFocus(form)
}
