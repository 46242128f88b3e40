package ui

import (
	"errors"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ErrPromptCancelled is returned by Prompt when the player dismisses the dialog.
var ErrPromptCancelled = errors.New("prompt cancelled")

const (
	promptPage  = "prompt"
	maxMessages = 200
)

// MessageView shows engine messages in a scrolling log and asks questions
// through a modal form. It is safe to call from any goroutine except
// Prompt, which blocks and must not run on the UI goroutine.
type MessageView struct {
	app   *tview.Application
	pages *tview.Pages
	log   *tview.TextView

	mu    sync.Mutex
	lines []string
}

// NewMessageView creates a view that prompts on top of pages.
func NewMessageView(app *tview.Application, pages *tview.Pages) *MessageView {
	v := &MessageView{
		app:   app,
		pages: pages,
		log:   tview.NewTextView(),
	}
	v.log.SetBorder(true)
	v.log.SetBorderPadding(0, 0, 1, 1)
	v.log.SetTitle(" Messages ")
	v.log.SetTitleAlign(tview.AlignLeft)
	v.log.SetDynamicColors(false)
	return v
}

// TextView returns the message log.
func (v *MessageView) TextView() *tview.TextView {
	return v.log
}

// Show appends a message to the log.
func (v *MessageView) Show(message string) {
	v.mu.Lock()
	v.lines = append(v.lines, message)
	if len(v.lines) > maxMessages {
		v.lines = v.lines[len(v.lines)-maxMessages:]
	}
	text := strings.Join(v.lines, "\n")
	v.mu.Unlock()

	v.log.SetText(text)
	v.log.ScrollToEnd()
	go func() {
		v.app.QueueUpdateDraw(func() {})
	}()
}

// Clear empties the log.
func (v *MessageView) Clear() {
	v.mu.Lock()
	v.lines = nil
	v.mu.Unlock()
	v.log.SetText("")
}

// Prompt shows question in a modal form and waits for the answer.
func (v *MessageView) Prompt(question string) (string, error) {
	v.Show(question)

	type answer struct {
		text string
		ok   bool
	}
	done := make(chan answer, 1)

	v.app.QueueUpdateDraw(func() {
		form := tview.NewForm()
		form.AddInputField("Name", "", 20, nil, nil)
		var once sync.Once
		submit := func(ok bool) {
			once.Do(func() {
				text := form.GetFormItem(0).(*tview.InputField).GetText()
				v.pages.RemovePage(promptPage)
				done <- answer{text: text, ok: ok}
			})
		}
		form.AddButton("OK", func() { submit(true) })
		form.AddButton("Cancel", func() { submit(false) })
		form.SetCancelFunc(func() { submit(false) })
		form.SetBorder(true)
		form.SetTitle(" " + question + " ")
		form.SetButtonBackgroundColor(MenuColors.ButtonBG)
		form.SetButtonTextColor(MenuColors.ButtonText)
		form.SetFieldBackgroundColor(MenuColors.CardBG)
		form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			if event.Key() == tcell.KeyEnter && form.GetFormItem(0).HasFocus() {
				submit(true)
				return nil
			}
			return event
		})

		modal := tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(CreateCenteredForm(tview.NewFlex().AddItem(form, 0, 1, true), 60), 7, 0, true).
			AddItem(nil, 0, 1, false)
		v.pages.AddPage(promptPage, modal, true, true)
		v.app.SetFocus(form)
	})

	a := <-done
	if !a.ok {
		return "", ErrPromptCancelled
	}
	return a.text, nil
}
