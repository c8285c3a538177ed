package events

// Category is the semantic color of a build state word. The notifier
// only selects the category; actual rendering is a collaborator's job.
type Category int

const (
	CategoryNone Category = iota
	CategoryInfo
	CategorySuccess
	CategoryMuted
	CategoryError
	CategoryWarning
)

var stateCategories = map[string]Category{
	"building": CategoryInfo,
	"complete": CategorySuccess,
	"deleted":  CategoryMuted,
	"failed":   CategoryError,
	"canceled": CategoryWarning,
}

// Categorize maps a lowercase state word to its semantic category.
// Unrecognized states are CategoryNone and render unstyled.
func Categorize(state string) Category {
	return stateCategories[state]
}

// Renderer styles a state word for one output medium. PlainRenderer is
// for media without styling, like Slack text.
type Renderer func(category Category, text string) string

// PlainRenderer passes text through unchanged.
func PlainRenderer(_ Category, text string) string {
	return text
}
