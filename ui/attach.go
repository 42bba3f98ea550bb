package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// showAttachmentBrowser lets the user pick an image file to stage on
// the compose box. Only the staging happens here; the file is read and
// uploaded when the message is sent.
func (a *App) showAttachmentBrowser() {
	startDir, err := os.UserHomeDir()
	if err != nil {
		startDir = "/"
	}

	currentDir := startDir
	var fileList *tview.List
	var pathInput *tview.InputField
	var statusText *tview.TextView

	fileList = tview.NewList()
	fileList.SetBorder(true)
	fileList.SetBorderColor(ColorBorder)
	fileList.SetBackgroundColor(ColorBg)
	fileList.SetMainTextColor(ColorFg)
	fileList.SetSecondaryTextColor(tcell.NewRGBColor(128, 128, 128))
	fileList.SetSelectedTextColor(ColorTitle)
	fileList.SetSelectedBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	fileList.SetHighlightFullLine(true)
	fileList.ShowSecondaryText(true)

	pathInput = tview.NewInputField()
	pathInput.SetLabel(" Path: ")
	pathInput.SetFieldWidth(0)
	pathInput.SetBackgroundColor(ColorBg)
	pathInput.SetFieldBackgroundColor(tcell.NewRGBColor(0, 0, 64))
	pathInput.SetFieldTextColor(ColorFg)
	pathInput.SetLabelColor(ColorHighlight)
	pathInput.SetText(currentDir)

	statusText = tview.NewTextView()
	statusText.SetBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	statusText.SetTextColor(ColorTitle)
	statusText.SetTextAlign(tview.AlignCenter)
	statusText.SetText(" Enter:Attach | Backspace:Up | Esc:Cancel ")

	populateList := func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		fileList.Clear()

		if dir != "/" {
			fileList.AddItem("📁 ..", "", 0, nil)
		}

		var dirs, files []os.DirEntry
		for _, entry := range entries {
			// Skip hidden files
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if entry.IsDir() {
				dirs = append(dirs, entry)
			} else {
				files = append(files, entry)
			}
		}

		sort.Slice(dirs, func(i, j int) bool {
			return strings.ToLower(dirs[i].Name()) < strings.ToLower(dirs[j].Name())
		})
		sort.Slice(files, func(i, j int) bool {
			return strings.ToLower(files[i].Name()) < strings.ToLower(files[j].Name())
		})

		for _, entry := range dirs {
			fileList.AddItem(fmt.Sprintf("📁 %s/", entry.Name()), "", 0, nil)
		}
		for _, entry := range files {
			sizeStr := ""
			if info, err := entry.Info(); err == nil {
				sizeStr = formatFileSize(info.Size())
			}
			fileList.AddItem(fmt.Sprintf("📄 %s", entry.Name()), sizeStr, 0, nil)
		}

		currentDir = dir
		pathInput.SetText(dir)
		fileList.SetTitle(fmt.Sprintf(" Attach Image - %s ", dir))

		return nil
	}

	getEntryName := func(text string) string {
		if strings.HasPrefix(text, "📁 ") {
			return strings.TrimSuffix(strings.TrimPrefix(text, "📁 "), "/")
		}
		return strings.TrimPrefix(text, "📄 ")
	}

	fileList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		entryName := getEntryName(mainText)

		if entryName == ".." {
			parent := filepath.Dir(currentDir)
			if err := populateList(parent); err != nil {
				statusText.SetText(fmt.Sprintf(" Error: %v ", err))
			}
			return
		}

		fullPath := filepath.Join(currentDir, entryName)

		if strings.HasPrefix(mainText, "📁 ") {
			if err := populateList(fullPath); err != nil {
				statusText.SetText(fmt.Sprintf(" Error: %v ", err))
			}
			return
		}

		if err := a.disp.StageAttachment(fullPath); err != nil {
			statusText.SetText(fmt.Sprintf(" Error: %v ", err))
			return
		}
		a.pages.RemovePage("filebrowser")
		a.renderAttachment()
		a.app.SetFocus(a.messageInput)
	})

	fileList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			a.pages.RemovePage("filebrowser")
			a.app.SetFocus(a.messageInput)
			return nil
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if currentDir != "/" {
				parent := filepath.Dir(currentDir)
				if err := populateList(parent); err != nil {
					statusText.SetText(fmt.Sprintf(" Error: %v ", err))
				}
			}
			return nil
		}
		return event
	})

	pathInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			newPath := pathInput.GetText()
			if info, err := os.Stat(newPath); err == nil && info.IsDir() {
				if err := populateList(newPath); err != nil {
					statusText.SetText(fmt.Sprintf(" Error: %v ", err))
				}
			} else {
				statusText.SetText(" Invalid directory ")
			}
			a.app.SetFocus(fileList)
		}
	})

	if err := populateList(currentDir); err != nil {
		statusText.SetText(fmt.Sprintf(" Error: %v ", err))
	}

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(pathInput, 1, 0, false).
		AddItem(fileList, 0, 1, true).
		AddItem(statusText, 1, 0, false)
	mainFlex.SetBackgroundColor(ColorBg)

	innerFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(mainFlex, 20, 0, true).
		AddItem(nil, 0, 1, false)
	innerFlex.SetBackgroundColor(ColorBg)

	centered := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(innerFlex, 60, 0, true).
		AddItem(nil, 0, 1, false)
	centered.SetBackgroundColor(ColorBg)

	a.pages.AddPage("filebrowser", centered, true, true)
	a.app.SetFocus(fileList)
}

// formatFileSize formats file size for display
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
