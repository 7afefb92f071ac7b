package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/ui"
)

func printHistory(w io.Writer, days []domain.DateGroup) {
	if len(days) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(w, "No entries yet. Start your journaling journey today!")
		return
	}

	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	for _, day := range days {
		_, _ = title.Fprint(w, ui.LongDate(day.Date))
		switch n := len(day.Entries); n {
		case 1:
			_, _ = faint.Fprintln(w, " - 1 entry")
		default:
			_, _ = faint.Fprintf(w, " - %d entries\n", n)
		}

		tbl := uitable.New()
		tbl.MaxColWidth = 72
		tbl.Wrap = true
		for _, e := range day.Entries {
			tbl.AddRow(faint.Sprint(ui.EntryTime(e)), e.Content)
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintln(w)
	}
}

func printInsight(w io.Writer, in *domain.Insight, total int) {
	label := color.New(color.Bold, color.FgGreen)
	chip := color.New(color.FgMagenta)

	tbl := uitable.New()
	tbl.MaxColWidth = 72
	tbl.Wrap = true
	tbl.AddRow(label.Sprint("Overall Sentiment"), capitalize(string(in.OverallSentiment)))
	tbl.AddRow(label.Sprint("Dominant Emotions"), chip.Sprint(strings.Join(in.DominantEmotions, ", ")))
	tbl.AddRow(label.Sprint("Total Entries"), total)
	tbl.AddRow(label.Sprint("Recurring Themes"), chip.Sprint(strings.Join(in.RecurringThemes, ", ")))
	tbl.AddRow(label.Sprint("Patterns Observed"), in.Patterns)
	tbl.AddRow(label.Sprint("Encouragement"), in.Encouragement)
	fmt.Fprintln(w, tbl)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
