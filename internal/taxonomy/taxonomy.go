package taxonomy

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmpty            = errors.New("taxonomy has no categories")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrDuplicateName    = errors.New("duplicate category name")
	ErrCategoryNotFound = errors.New("category not found")
)

// Category is one task type with its trigger keywords and suggested actions.
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Actions  []string `json:"actions" yaml:"actions"`
}

// Taxonomy is an immutable, ordered set of categories. The zero value is not
// usable; construct one with New or Default. A Taxonomy is safe for
// concurrent reads.
type Taxonomy struct {
	categories []entry
	byName     map[string]int
}

type entry struct {
	category Category
	keywords map[string]struct{}
}

// New validates the categories and returns a Taxonomy preserving their order.
// Keywords are lower-cased and de-duplicated and must be single tokens;
// actions are kept verbatim.
func New(categories []Category) (Taxonomy, error) {
	if len(categories) == 0 {
		return Taxonomy{}, ErrEmpty
	}

	t := Taxonomy{
		categories: make([]entry, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return Taxonomy{}, fmt.Errorf("%w: category %d has no name", ErrInvalidCategory, i)
		}
		if _, ok := t.byName[name]; ok {
			return Taxonomy{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}

		keywords := make([]string, 0, len(c.Keywords))
		set := make(map[string]struct{}, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.IndexFunc(kw, IsSeparator) >= 0 {
				return Taxonomy{}, fmt.Errorf("%w: %s keyword %q contains whitespace", ErrInvalidCategory, name, kw)
			}
			if _, dup := set[kw]; dup {
				continue
			}
			set[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		if len(keywords) == 0 {
			return Taxonomy{}, fmt.Errorf("%w: %s has no keywords", ErrInvalidCategory, name)
		}
		if len(c.Actions) == 0 {
			return Taxonomy{}, fmt.Errorf("%w: %s has no actions", ErrInvalidCategory, name)
		}

		t.byName[name] = len(t.categories)
		t.categories = append(t.categories, entry{
			category: Category{
				Name:     name,
				Keywords: keywords,
				Actions:  append([]string(nil), c.Actions...),
			},
			keywords: set,
		})
	}
	return t, nil
}

// IsSeparator reports whether r splits description tokens. It covers
// unicode.IsSpace plus the ASCII file, group, record and unit separators.
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// MustNew is New for package-level tables known to be valid.
func MustNew(categories []Category) Taxonomy {
	t, err := New(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of categories.
func (t Taxonomy) Len() int {
	return len(t.categories)
}

// Name returns the name of the category at index i.
func (t Taxonomy) Name(i int) string {
	return t.categories[i].category.Name
}

// Names returns the category names in taxonomy order.
func (t Taxonomy) Names() []string {
	out := make([]string, len(t.categories))
	for i, e := range t.categories {
		out[i] = e.category.Name
	}
	return out
}

// At returns a copy of the category at index i.
func (t Taxonomy) At(i int) Category {
	return copyCategory(t.categories[i].category)
}

// Categories returns copies of all categories in taxonomy order.
func (t Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, e := range t.categories {
		out[i] = copyCategory(e.category)
	}
	return out
}

// Lookup returns the category with the given name.
func (t Taxonomy) Lookup(name string) (Category, error) {
	i, ok := t.byName[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return copyCategory(t.categories[i].category), nil
}

// Has reports whether name is a category in the taxonomy.
func (t Taxonomy) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Actions returns a copy of the action list of the category at index i.
func (t Taxonomy) Actions(i int) []string {
	return append([]string(nil), t.categories[i].category.Actions...)
}

// Matches reports whether token is one of the keywords of category i.
// The token must already be lower-cased.
func (t Taxonomy) Matches(i int, token string) bool {
	_, ok := t.categories[i].keywords[token]
	return ok
}

func copyCategory(c Category) Category {
	return Category{
		Name:     c.Name,
		Keywords: append([]string(nil), c.Keywords...),
		Actions:  append([]string(nil), c.Actions...),
	}
}
