package field

import "sort"

// IndexClass is the closed set of search and index behaviors a field can request.
type IndexClass int

const (
	// IndexNone creates no index and no search widget
	IndexNone IndexClass = iota
	// IndexRaw indexes the primary stored value as entered
	IndexRaw
	// IndexEasySearch indexes a cleaned copy of the value for case and diacritic insensitive search
	IndexEasySearch
	// IndexSearchWithoutIndex offers a search widget that scans the table
	IndexSearchWithoutIndex
	// IndexListOfValuesWithIndex offers a drop-down search backed by an index
	IndexListOfValuesWithIndex
	// IndexListOfValuesWithoutIndex offers a drop-down search without index
	IndexListOfValuesWithoutIndex
)

var indexClassNames = map[IndexClass]string{
	IndexNone:                     "none",
	IndexRaw:                      "raw",
	IndexEasySearch:               "easy_search",
	IndexSearchWithoutIndex:       "search_without_index",
	IndexListOfValuesWithIndex:    "list_of_values_with_index",
	IndexListOfValuesWithoutIndex: "list_of_values_without_index",
}

// String returns the declaration keyword of the classification
func (c IndexClass) String() string {
	if name, ok := indexClassNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseIndexClass returns the classification named by keyword
func ParseIndexClass(keyword string) (IndexClass, bool) {
	for class, name := range indexClassNames {
		if name == keyword {
			return class, true
		}
	}
	return IndexNone, false
}

// implication describes what a classification produces on a field
type implication struct {
	index   bool
	widget  bool
	cleaned bool
}

var implications = map[IndexClass]implication{
	IndexNone:                     {},
	IndexRaw:                      {index: true, widget: true},
	IndexEasySearch:               {index: true, widget: true, cleaned: true},
	IndexSearchWithoutIndex:       {widget: true},
	IndexListOfValuesWithIndex:    {index: true, widget: true},
	IndexListOfValuesWithoutIndex: {widget: true},
}

// CreatesIndex reports whether the classification creates a binary-search index
func (c IndexClass) CreatesIndex() bool { return implications[c].index }

// AddsSearchWidget reports whether the classification attaches a search page widget
func (c IndexClass) AddsSearchWidget() bool { return implications[c].widget }

// AddsCleanedValue reports whether a cleaned stored value is added next to the primary one
func (c IndexClass) AddsCleanedValue() bool { return implications[c].cleaned }

// allowedClasses lists the classifications each field kind offers
var allowedClasses = map[Kind][]IndexClass{
	KindString:      {IndexNone, IndexRaw, IndexEasySearch, IndexSearchWithoutIndex},
	KindInteger:     {IndexNone, IndexRaw, IndexSearchWithoutIndex},
	KindDecimal:     {IndexNone, IndexRaw, IndexSearchWithoutIndex},
	KindTimestamp:   {IndexNone, IndexRaw, IndexSearchWithoutIndex},
	KindChoice:      {IndexNone, IndexListOfValuesWithIndex, IndexListOfValuesWithoutIndex},
	KindLargeBinary: {IndexNone},
}

// AllowedClasses returns the classifications the field kind offers, in declaration order
func AllowedClasses(kind Kind) []IndexClass {
	classes := append([]IndexClass(nil), allowedClasses[kind]...)
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

func classAllowed(kind Kind, class IndexClass) bool {
	for _, c := range allowedClasses[kind] {
		if c == class {
			return true
		}
	}
	return false
}

func allowedNames(kind Kind) []string {
	classes := AllowedClasses(kind)
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return names
}

// WidgetKind is the search page control a field contributes
type WidgetKind int

const (
	WidgetText WidgetKind = iota
	WidgetRange
	WidgetListOfValues
)

// String returns the string representation of the widget kind
func (w WidgetKind) String() string {
	switch w {
	case WidgetText:
		return "text"
	case WidgetRange:
		return "range"
	case WidgetListOfValues:
		return "list_of_values"
	default:
		return "unknown"
	}
}

// SearchWidget describes the search page control generated for a field
type SearchWidget struct {
	Field   string
	Kind    WidgetKind
	Indexed bool
}
