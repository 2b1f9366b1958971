package models

// Category identifies which section of the site an article or feed belongs to.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryBusiness   Category = "business"
	CategoryNews       Category = "news"
	CategoryLifestyle  Category = "lifestyle"
)

// CategoryCycle is the fixed order in which import runs rotate through
// categories. Rotation always advances exactly one position, wrapping.
var CategoryCycle = []Category{
	CategoryTechnology,
	CategoryBusiness,
	CategoryNews,
	CategoryLifestyle,
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c Category) bool {
	for _, known := range CategoryCycle {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryAfter returns the category immediately following c in the cycle.
// An unknown category maps to the start of the cycle.
func CategoryAfter(c Category) Category {
	for i, known := range CategoryCycle {
		if c == known {
			return CategoryCycle[(i+1)%len(CategoryCycle)]
		}
	}
	return CategoryCycle[0]
}
