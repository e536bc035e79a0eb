package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/qrtext"
	"github.com/matheus3301/bookadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

// DetailView shows every field of the selected user or book.
type DetailView struct {
	*tview.TextView
	theme *ui.Theme
	// imageURL turns an uploaded book image name into its public URL.
	imageURL func(name string) string
}

// NewDetailView creates an empty detail page.
func NewDetailView(theme *ui.Theme, imageURL func(name string) string) *DetailView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	return &DetailView{TextView: tv, theme: theme, imageURL: imageURL}
}

// Name implements ui.Component.
func (dv *DetailView) Name() string { return "details" }

// Target implements ui.Component.
func (dv *DetailView) Target() tview.Primitive { return dv.TextView }

// ShowUser renders u.
func (dv *DetailView) ShowUser(u api.User) {
	dv.SetTitle(fmt.Sprintf(" User %s ", cellText(u.FullName)))
	dv.render([][2]string{
		{"Id", u.ID},
		{"Full name", u.FullName},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Role", u.Role},
		{"Active", strconv.FormatBool(u.IsActive)},
		{"Created at", formatDate(u.CreatedAt)},
		{"Updated at", formatDate(u.UpdatedAt)},
	}, "")
}

// ShowBook renders b, with a QR code linking to its thumbnail.
func (dv *DetailView) ShowBook(b api.Book) {
	dv.SetTitle(fmt.Sprintf(" Book %s ", cellText(b.MainText)))
	fields := [][2]string{
		{"Id", b.ID},
		{"Title", b.MainText},
		{"Author", b.Author},
		{"Category", b.Category},
		{"Price", formatPrice(b.Price)},
		{"Quantity", strconv.Itoa(b.Quantity)},
		{"Sold", strconv.Itoa(b.Sold)},
		{"Thumbnail", dv.url(b.Thumbnail)},
	}
	for i, s := range b.Slider {
		fields = append(fields, [2]string{fmt.Sprintf("Slider %d", i+1), dv.url(s)})
	}
	fields = append(fields,
		[2]string{"Created at", formatDate(b.CreatedAt)},
		[2]string{"Updated at", formatDate(b.UpdatedAt)},
	)

	var code string
	if b.Thumbnail != "" {
		qr, err := qrtext.Render(dv.url(b.Thumbnail), "  ")
		if err != nil {
			code = "  (no QR code: " + tview.Escape(err.Error()) + ")\n"
		} else {
			code = "  Scan to open the cover:\n\n" + qr
		}
	}
	dv.render(fields, code)
}

func (dv *DetailView) url(name string) string {
	if name == "" || dv.imageURL == nil {
		return name
	}
	return dv.imageURL(name)
}

func (dv *DetailView) render(fields [][2]string, footer string) {
	dv.Clear()
	label, value := ui.Tag(dv.theme.LabelColor), ui.Tag(dv.theme.CounterColor)

	width := 0
	for _, f := range fields {
		width = max(width, len(f[0]))
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, f := range fields {
		v := f[1]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, " [%s::b]%-*s[-:-:-]  [%s]%s[-]\n", label, width+1, f[0]+":", value, cellText(v))
	}
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	_, _ = fmt.Fprint(dv, b.String())
	dv.ScrollToBeginning()
}
