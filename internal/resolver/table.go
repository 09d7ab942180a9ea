package resolver

import (
	"fmt"
	"strings"

	"classmaid/internal/extractor"
)

// QualifiedName identifies a class uniquely within a run: source unit plus
// nested scope path plus local name.
type QualifiedName struct {
	Unit  string
	Scope []string
	Name  string
}

// Local returns the scope-qualified name without the unit (Outer.Inner).
func (q QualifiedName) Local() string {
	if len(q.Scope) == 0 {
		return q.Name
	}
	return strings.Join(q.Scope, ".") + "." + q.Name
}

func (q QualifiedName) String() string {
	return q.Unit + "::" + q.Local()
}

// Table is the run-wide immutable symbol table. It is built once after all
// parsing completes and is then shared read-only with the model builders.
type Table struct {
	order       []QualifiedName
	facts       map[string]*extractor.ClassFact
	byName      map[string][]QualifiedName
	byUnitName  map[string][]QualifiedName
	nameCounter map[string]int
}

// BuildTable indexes all ClassFacts of a run in declaration order. Facts
// must already be ordered unit by unit, declarations within a unit in source
// order; that order drives the first-declared-wins tie-break. A same-scope
// redefinition gets a numbered name so every declared class keeps a block.
func BuildTable(facts []extractor.ClassFact) *Table {
	t := &Table{
		facts:       make(map[string]*extractor.ClassFact, len(facts)),
		byName:      make(map[string][]QualifiedName),
		byUnitName:  make(map[string][]QualifiedName),
		nameCounter: make(map[string]int),
	}
	for i := range facts {
		fact := &facts[i]
		qn := QualifiedName{Unit: fact.Unit, Scope: fact.Scope, Name: fact.Name}
		key := qn.String()
		for n := 2; ; n++ {
			if _, dup := t.facts[key]; !dup {
				break
			}
			qn.Name = fmt.Sprintf("%s#%d", fact.Name, n)
			key = qn.String()
		}
		t.order = append(t.order, qn)
		t.facts[key] = fact
		t.byName[qn.Name] = append(t.byName[qn.Name], qn)
		t.byUnitName[qn.Unit+"::"+qn.Name] = append(t.byUnitName[qn.Unit+"::"+qn.Name], qn)
		t.nameCounter[qn.Name]++
	}
	return t
}

// Classes returns all qualified names in declaration order.
func (t *Table) Classes() []QualifiedName {
	return t.order
}

// Fact returns the raw record behind a qualified name.
func (t *Table) Fact(qn QualifiedName) *extractor.ClassFact {
	return t.facts[qn.String()]
}

// Collides reports whether more than one class in the run shares a local
// name, which forces qualified display names in rendered output.
func (t *Table) Collides(name string) bool {
	return t.nameCounter[name] > 1
}
