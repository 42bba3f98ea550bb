// Package ui renders the session state with tview. It owns no chat
// state: every view is redrawn from session.State snapshots when the
// session layer signals a change.
package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"parley/api"
	"parley/config"
	"parley/push"
	"parley/session"
)

// App is the main application.
type App struct {
	app   *tview.Application
	pages *tview.Pages
	cfg   *config.Config
	log   zerolog.Logger

	state    *session.State
	disp     *session.Dispatcher
	listener *session.Listener
	channel  *push.Channel
	rest     *api.Client

	roomList       *tview.List
	contactList    *tview.List
	titleView      *tview.TextView
	messageView    *tview.TextView
	attachView     *tview.TextView
	noticeView     *tview.TextView
	messageInput   *tview.InputField
	connectionView *tview.TextView
	statusBar      *tview.TextView
}

// NewApp wires the session core to the backend and the push channel.
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	a := &App{cfg: cfg, log: log}

	a.rest = api.New(cfg.ServerURL, cfg.HTTPTimeout, log)
	a.channel = push.New(cfg.ServerURL, push.Options{
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.ReconnectDelay,
	}, log)
	a.state = session.NewState()

	tokens := config.NewTokenStore(cfg.TokenPath)
	a.disp = session.NewDispatcher(a.state, a.rest, a.channel, a, tokens, log)
	a.listener = session.NewListener(a.state, a.rest, a, log)
	a.listener.Bind(a.channel)

	return a
}

// Run starts the application. A persisted token skips the auth page.
func (a *App) Run() error {
	a.app = tview.NewApplication()
	a.pages = tview.NewPages()

	background := tview.NewBox()
	background.SetBackgroundColor(tcell.NewRGBColor(64, 64, 64))
	a.pages.AddPage("background", background, true, true)

	go func() {
		ok, err := a.disp.Boot(context.Background())
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.log.Warn().Err(err).Msg("session restore failed")
			}
			if ok {
				a.showMainScreen()
				go a.connectChannel()
			} else {
				a.showAuthPage("")
			}
		})
	}()

	return a.app.SetRoot(a.pages, true).EnableMouse(false).Run()
}

// connectChannel brings the push channel up with the session token.
// Failures are logged and shown in the connection panel, never as a
// blocking error.
func (a *App) connectChannel() {
	if err := a.channel.Connect(a.state.Token()); err != nil {
		a.log.Warn().Err(err).Msg("push channel connect failed")
		a.ConnectionChanged(false)
	}
}

// logout tears the session down and returns to the auth page. The
// channel close runs off the event goroutine; its state notification
// queues a redraw and must not block the loop.
func (a *App) logout() {
	go a.channel.Close()
	a.disp.Logout()
	a.pages.RemovePage("main")
	a.showAuthPage("")
}

// sessionExpired handles a token rejected mid-session: drop it and
// return to the auth page.
func (a *App) sessionExpired() {
	go a.channel.Close()
	a.disp.Logout()
	a.pages.RemovePage("main")
	a.showAuthPage("session expired, sign in again")
}

// quit exits the application.
func (a *App) quit() {
	go a.channel.Close()
	a.app.Stop()
}
