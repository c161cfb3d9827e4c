package loader

// document is one YAML document of a design file. A file may hold several
// documents separated by "---"; any section may appear in any of them.
type document struct {
	Modules    []moduleDecl   `yaml:"modules"`
	Categories []categoryDecl `yaml:"categories"`
	Entities   []entityDecl   `yaml:"entities"`
}

type moduleDecl struct {
	Path string `yaml:"path"`
}

type categoryDecl struct {
	Name         string `yaml:"name"`
	Module       string `yaml:"module"`
	Kind         string `yaml:"kind"` // plain (default) or transition
	KeyLength    int    `yaml:"key_length"`
	PseudoNumber bool   `yaml:"pseudo_number"`

	Values []valueDecl `yaml:"values"`

	// transition categories only
	Transitions    map[string][]string `yaml:"transitions"`
	Default        string              `yaml:"default"`
	DefaultWorking string              `yaml:"default_working"`
	DefaultFinal   string              `yaml:"default_final"`
	Finals         []string            `yaml:"finals"`
	AuthorizeAll   bool                `yaml:"authorize_all"`

	source string
}

type valueDecl struct {
	Code         string `yaml:"code"`
	Label        string `yaml:"label"`
	Tooltip      string `yaml:"tooltip"`
	PseudoNumber *int   `yaml:"pseudo_number"`
}

type entityDecl struct {
	Name   string      `yaml:"name"`
	Module string      `yaml:"module"`
	Label  string      `yaml:"label"`
	Fields []fieldDecl `yaml:"fields"`
	Facets []facetDecl `yaml:"facets"`

	source string
}

type fieldDecl struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Label     string `yaml:"label"`
	Length    int    `yaml:"length"`
	Precision int    `yaml:"precision"`
	Scale     int    `yaml:"scale"`
	Category  string `yaml:"category"`
	Index     string `yaml:"index"`
	Priority  int    `yaml:"priority"`

	InTitle       bool `yaml:"in_title"`
	InBottomNotes bool `yaml:"in_bottom_notes"`
	HiddenInEdit  bool `yaml:"hidden_in_edit"`

	// dotted paths such as "customer.name"
	Triggers []string `yaml:"triggers"`
}

type facetDecl struct {
	Class string `yaml:"class"`
	Name  string `yaml:"name"`

	// named, numbered
	Length int `yaml:"length"`
	// linkedtoparent
	Parent string `yaml:"parent"`
	// linkobject
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	// lifecycle
	Category string `yaml:"category"`

	// declared facets of any other class
	DependsOn []string          `yaml:"depends_on"`
	Generics  map[string]string `yaml:"generics"`
	Choices   map[string]string `yaml:"choices"`
	Fields    []fieldDecl       `yaml:"fields"`
	Rules     []ruleDecl        `yaml:"rules"`
}

type ruleDecl struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
