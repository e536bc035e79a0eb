package views

import (
	"fmt"

	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView is the sign-in form shown while no admin session exists.
type LoginView struct {
	*tview.Flex
	theme    *ui.Theme
	form     *tview.Form
	message  *tview.TextView
	onSubmit func(username, password string)
}

// NewLoginView creates the sign-in page.
func NewLoginView(theme *ui.Theme) *LoginView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitle(" Sign in ")
	form.SetTitleColor(theme.TitleColor)
	form.SetLabelColor(theme.LabelColor)
	form.SetFieldBackgroundColor(theme.StatusBg)
	form.SetFieldTextColor(theme.FgColor)
	form.SetButtonBackgroundColor(theme.BorderColor)
	form.SetButtonTextColor(theme.BgColor)

	message := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	message.SetBackgroundColor(theme.BgColor)

	lv := &LoginView{theme: theme, form: form, message: message}
	form.AddInputField("Email", "", 32, nil, nil)
	form.AddPasswordField("Password", "", 32, '*', nil)
	form.AddButton("Sign in", lv.submit)

	column := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(form, 9, 0, true).
		AddItem(message, 2, 0, false).
		AddItem(nil, 0, 1, false)
	lv.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(column, 52, 0, true).
		AddItem(nil, 0, 1, false)
	lv.SetBackgroundColor(theme.BgColor)
	return lv
}

// Name implements ui.Component.
func (lv *LoginView) Name() string { return "login" }

// Target implements ui.Component.
func (lv *LoginView) Target() tview.Primitive { return lv.form }

// SetOnSubmit registers the sign-in handler.
func (lv *LoginView) SetOnSubmit(fn func(username, password string)) {
	lv.onSubmit = fn
}

// SetUsername prefills the email field.
func (lv *LoginView) SetUsername(username string) {
	lv.field("Email").SetText(username)
}

// ShowMessage shows text under the form; isErr picks the error color.
func (lv *LoginView) ShowMessage(text string, isErr bool) {
	color := lv.theme.FlashInfoColor
	if isErr {
		color = lv.theme.FlashErrColor
	}
	lv.message.Clear()
	_, _ = fmt.Fprintf(lv.message, "[%s]%s[-]", ui.Tag(color), tview.Escape(text))
}

// Reset clears the password and any message, and focuses the first field.
func (lv *LoginView) Reset() {
	lv.field("Password").SetText("")
	lv.message.Clear()
	lv.form.SetFocus(0)
}

func (lv *LoginView) submit() {
	username := lv.field("Email").GetText()
	password := lv.field("Password").GetText()
	if username == "" || password == "" {
		lv.ShowMessage("Email and password are required", true)
		return
	}
	lv.ShowMessage("Signing in…", false)
	if lv.onSubmit != nil {
		lv.onSubmit(username, password)
	}
}

func (lv *LoginView) field(label string) *tview.InputField {
	return lv.form.GetFormItemByLabel(label).(*tview.InputField)
}
