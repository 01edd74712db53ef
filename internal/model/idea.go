package model

// IdeaCategory classifies a community suggestion.
type IdeaCategory string

const (
	CategoryFeature     IdeaCategory = "FEATURE"
	CategoryImprovement IdeaCategory = "IMPROVEMENT"
	CategoryBug         IdeaCategory = "BUG"
)

// IdeaCategories lists categories in the order the form cycles through them.
var IdeaCategories = []IdeaCategory{CategoryFeature, CategoryImprovement, CategoryBug}

// Idea is an in-memory suggestion on the ideas board.
type Idea struct {
	ID          int64
	Title       string
	Description string
	Category    IdeaCategory
	Votes       int
}
