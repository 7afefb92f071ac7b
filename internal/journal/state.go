package journal

import (
	"strings"
	"time"

	"github.com/pbaille/nomi/internal/domain"
)

// View is one of the three screens
type View int

const (
	ViewWrite View = iota
	ViewHistory
	ViewInsights
)

var viewNames = [...]string{"write", "history", "insights"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// Next cycles write -> history -> insights -> write.
func (v View) Next() View {
	return (v + 1) % View(len(viewNames))
}

// State is the whole UI state. Every transition returns a new value.
type State struct {
	View         View
	SelectedDate string
	Draft        string

	Prompt           string
	GeneratingPrompt bool

	Insight   *domain.Insight
	Analyzing bool
}

// NewState starts on the write screen with today selected.
func NewState(today time.Time) State {
	return State{
		View:         ViewWrite,
		SelectedDate: today.Format(domain.DateLayout),
	}
}

// SwitchTo changes the screen. The second result reports whether analysis
// should start: only when entering insights with nothing cached.
func (s State) SwitchTo(v View) (State, bool) {
	s.View = v
	return s, v == ViewInsights && s.Insight == nil
}

// WithDraft replaces the draft text.
func (s State) WithDraft(text string) State {
	s.Draft = text
	return s
}

// WithDate selects the date new entries are written for.
func (s State) WithDate(date string) State {
	s.SelectedDate = date
	return s
}

// CanSave reports whether the draft has any non-space content.
func (s State) CanSave() bool {
	return strings.TrimSpace(s.Draft) != ""
}

// Saved clears the draft after a successful save.
func (s State) Saved() State {
	s.Draft = ""
	return s
}

func (s State) PromptRequested() State {
	s.GeneratingPrompt = true
	return s
}

func (s State) PromptReceived(prompt string) State {
	s.Prompt = prompt
	s.GeneratingPrompt = false
	return s
}

func (s State) AnalysisRequested() State {
	s.Analyzing = true
	return s
}

// InsightReceived caches the insight. A nil insight (nothing to analyze)
// just ends the analyzing state.
func (s State) InsightReceived(insight *domain.Insight) State {
	if insight != nil {
		s.Insight = insight
	}
	s.Analyzing = false
	return s
}
