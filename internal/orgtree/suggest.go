package orgtree

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/theirongolddev/orgchart/internal/model"
)

// SuggestionPrefix marks titles produced by the role suggestion feature.
const SuggestionPrefix = "AI Suggested: "

// SuggestedTitle returns the suggested form of title. It is idempotent, and
// long titles are cut so the result stays within MaxFieldLen runes.
func SuggestedTitle(title string) string {
	if strings.HasPrefix(title, SuggestionPrefix) {
		return title
	}
	room := MaxFieldLen - utf8.RuneCountInString(SuggestionPrefix)
	if r := []rune(title); len(r) > room {
		title = strings.TrimRightFunc(string(r[:room]), unicode.IsSpace)
	}
	return SuggestionPrefix + title
}

// SuggestTitle applies the suggested title to node id.
func (t *Tree) SuggestTitle(actor model.Operator, id string) (model.Node, error) {
	var current string
	if n, ok := t.index[id]; ok {
		current = n.Title
	}
	return t.UpdateTitle(actor, id, SuggestedTitle(current))
}
