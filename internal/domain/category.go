package domain

import (
	"fmt"
	"sort"
)

// DefaultCategory is the placeholder shown before the author picks a category.
// It is deliberately absent from every vocabulary.
const DefaultCategory = "Category"

// DefaultCategories is the built-in category vocabulary.
var DefaultCategories = map[string]int{
	"Science":    1,
	"Math":       2,
	"History":    3,
	"Geography":  4,
	"Literature": 5,
	"Music":      6,
	"Sports":     7,
	"Technology": 8,
}

// CategoryCodec maps category display names to numeric codes and back.
// The vocabulary is closed and fixed at construction.
type CategoryCodec struct {
	codes map[string]int
	names map[int]string
}

// NewCategoryCodec builds a codec; codes must be unique.
func NewCategoryCodec(vocabulary map[string]int) (*CategoryCodec, error) {
	c := &CategoryCodec{
		codes: make(map[string]int, len(vocabulary)),
		names: make(map[int]string, len(vocabulary)),
	}
	for name, code := range vocabulary {
		if name == "" {
			return nil, fmt.Errorf("category code %d has an empty name", code)
		}
		if prev, ok := c.names[code]; ok {
			return nil, fmt.Errorf("category code %d used by both %q and %q", code, prev, name)
		}
		c.codes[name] = code
		c.names[code] = name
	}
	return c, nil
}

// MustCategoryCodec is NewCategoryCodec for static vocabularies.
func MustCategoryCodec(vocabulary map[string]int) *CategoryCodec {
	c, err := NewCategoryCodec(vocabulary)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode returns the code for name, or ErrUnknownCategory.
func (c *CategoryCodec) Encode(name string) (int, error) {
	code, ok := c.codes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return code, nil
}

// Decode returns the display name for code.
func (c *CategoryCodec) Decode(code int) (string, bool) {
	name, ok := c.names[code]
	return name, ok
}

// Names lists the vocabulary ordered by code, for pickers.
func (c *CategoryCodec) Names() []string {
	codes := make([]int, 0, len(c.names))
	for code := range c.names {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = c.names[code]
	}
	return names
}
