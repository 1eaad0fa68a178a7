package core

import "strings"

// Category is the localized label of an expense category. The label itself
// is what gets persisted.
type Category string

const (
	CategoryFood      Category = "식비"
	CategoryTransport Category = "교통비"
	CategoryShopping  Category = "쇼핑"
	CategoryMedical   Category = "의료비"
	CategoryCulture   Category = "문화생활"
	CategoryOther     Category = "기타"
)

// Categories lists the fixed set in display order. The first entry is the
// form default.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryMedical,
	CategoryCulture,
	CategoryOther,
}

var categoryNames = map[Category]string{
	CategoryFood:      "Food",
	CategoryTransport: "Transport",
	CategoryShopping:  "Shopping",
	CategoryMedical:   "Medical",
	CategoryCulture:   "Culture",
	CategoryOther:     "Other",
}

// Valid reports whether c belongs to the fixed set.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Name returns the English name, or the raw label for unknown values.
func (c Category) Name() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves either a label ("식비") or an English name
// ("food", case-insensitive).
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c := Category(s); c.Valid() {
		return c, nil
	}
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}
