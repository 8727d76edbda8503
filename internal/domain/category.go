package domain

import "fmt"

// Category is a member's response classification.
type Category string

const (
	CategoryYes        Category = "Yes"
	CategoryMaybe      Category = "Maybe"
	CategoryNo         Category = "No"
	CategoryNoResponse Category = "NoResponse"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryYes, CategoryMaybe, CategoryNo, CategoryNoResponse}

// Label is the human-readable text written into reports.
func (c Category) Label() string {
	if c == CategoryNoResponse {
		return "No Response"
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryYes, CategoryMaybe, CategoryNo, CategoryNoResponse:
		return true
	default:
		return false
	}
}

// ParseCategory accepts either the category name or its label.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "Yes":
		return CategoryYes, nil
	case "Maybe":
		return CategoryMaybe, nil
	case "No":
		return CategoryNo, nil
	case "NoResponse", "No Response":
		return CategoryNoResponse, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
