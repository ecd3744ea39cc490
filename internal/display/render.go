package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"guidelight-backend/internal/domains/board"
)

// Render writes a board as plain text, one line per item
func Render(w io.Writer, view *board.View) error {
	title := strings.ToUpper(view.Name)
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title))); err != nil {
		return err
	}
	if len(view.Items) == 0 {
		_, err := fmt.Fprintln(w, "(nothing on this board yet)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range view.Items {
		switch {
		case it.Pick != nil:
			p := it.Pick
			detail := p.CategoryName
			if p.Brand != nil {
				detail += " · " + *p.Brand
			}
			if p.THCPercent != nil {
				detail += " · THC " + p.THCPercent.String() + "%"
			}
			if p.DealValue != nil {
				detail += " · " + p.DealValue.String()
			}
			fmt.Fprintf(tw, "* %s\t%s\t%s\n", p.Title, detail, strings.Join(p.EffectTags, ", "))
		case it.ImageURL != nil:
			fmt.Fprintf(tw, "[image]\t%s\t\n", *it.ImageURL)
		case it.Text != nil:
			fmt.Fprintf(tw, "%s\t\t\n", *it.Text)
		}
	}
	return tw.Flush()
}
