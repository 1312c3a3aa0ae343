package autocomplete

import (
	"errors"
	"slices"
	"strings"
)

// MaxSuggestions caps every suggestion list.
const MaxSuggestions = 5

var ErrNotSuggested = errors.New("option is not among the current suggestions")

// Filter returns up to MaxSuggestions entries of source containing input,
// ignoring case, in source order.
func Filter(source []string, input string) []string {
	needle := strings.ToLower(input)
	out := make([]string, 0, MaxSuggestions)
	for _, s := range source {
		if strings.Contains(strings.ToLower(s), needle) {
			out = append(out, s)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// Input is one search box: what the user typed and what they committed.
type Input struct {
	Text     string
	Selected string
}

// Edit replaces the text. Any edit drops the committed selection.
func (in *Input) Edit(text string) {
	in.Text = text
	in.Selected = ""
}

// Select commits option, which must be one of the current suggestions.
func (in *Input) Select(option string, source []string) error {
	if !slices.Contains(in.Suggestions(source), option) {
		return ErrNotSuggested
	}
	in.Selected = option
	in.Text = option
	return nil
}

// Open reports whether the suggestion list is showing.
func (in Input) Open() bool {
	return in.Text != "" && in.Selected == ""
}

func (in Input) Committed() bool {
	return in.Selected != ""
}

func (in Input) Suggestions(source []string) []string {
	if !in.Open() {
		return nil
	}
	return Filter(source, in.Text)
}
