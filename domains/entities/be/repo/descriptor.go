package repo

import (
	"sort"
	"strings"
)

// Descriptor carries the per-entity metadata the generic table, junction and
// maintenance code is parameterised by.
type Descriptor struct {
	Tag     string
	Name    string
	Plural  string
	Section string
	Slug    string
	MenuKey string
	// FormKey is the request field holding the key or search term.
	FormKey string

	Table      string
	ProcPrefix string
	KeyKind    KeyKind
	KeyColumns []string
	// NameExpr is a SQL expression over the table's columns.
	NameExpr      string
	ActiveColumn  string
	EndDateColumn string

	// NameQual tags address rows created for this entity.
	NameQual             string
	HasJunctions         bool
	EnforceActiveEndDate bool
	Deletable            bool
}

// Procedure returns "sp<Prefix>_<op>".
func (d Descriptor) Procedure(op string) string {
	return "sp" + d.ProcPrefix + "_" + op
}

// JunctionProcedure returns "sp<Prefix><junction>_<op>", e.g. spAgentNameAddresses_Get.
func (d Descriptor) JunctionProcedure(junction, op string) string {
	return "sp" + d.ProcPrefix + junction + "_" + op
}

// Path is where the maintenance screen is mounted.
func (d Descriptor) Path() string {
	return "/" + d.Section + "/" + d.Slug
}

// idExpr renders the key as text for autocomplete matching and ids.
func (d Descriptor) idExpr() string {
	if d.KeyKind == SurrogateKey {
		return "CAST(" + d.KeyColumns[0] + " AS VARCHAR(20))"
	}
	return strings.Join(d.KeyColumns, " + '/' + ")
}

var registry = map[string]Descriptor{}

func register(d Descriptor) Descriptor {
	if _, exists := registry[d.Tag]; exists {
		panic("duplicate entity descriptor " + d.Tag)
	}
	registry[d.Tag] = d
	return d
}

// Lookup returns the descriptor registered under tag.
func Lookup(tag string) (Descriptor, bool) {
	d, ok := registry[strings.ToUpper(strings.TrimSpace(tag))]
	return d, ok
}

// Descriptors lists every registered entity ordered by section, then name.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section > out[j].Section
		}
		return out[i].Name < out[j].Name
	})
	return out
}
