package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmaid/internal/extractor"
)

func fact(unit, name string, scope []string, bases ...extractor.BaseFact) extractor.ClassFact {
	return extractor.ClassFact{Unit: unit, Scope: scope, Name: name, Bases: bases}
}

func TestQualifiedName(t *testing.T) {
	qn := QualifiedName{Unit: "pkg/mod.py", Scope: []string{"Outer", "Inner"}, Name: "Deep"}
	assert.Equal(t, "Outer.Inner.Deep", qn.Local())
	assert.Equal(t, "pkg/mod.py::Outer.Inner.Deep", qn.String())

	flat := QualifiedName{Unit: "a.py", Name: "Top"}
	assert.Equal(t, "Top", flat.Local())
}

func TestBuildTable(t *testing.T) {
	facts := []extractor.ClassFact{
		fact("a.py", "Animal", nil),
		fact("a.py", "Dog", nil),
		fact("b.py", "Animal", nil),
		fact("a.py", "Animal", nil), // same-scope redefinition
	}
	table := BuildTable(facts)

	classes := table.Classes()
	require.Len(t, classes, 4)
	assert.Equal(t, "a.py::Animal", classes[0].String())
	assert.Equal(t, "a.py::Dog", classes[1].String())
	assert.Equal(t, "b.py::Animal", classes[2].String())
	assert.Equal(t, "a.py::Animal#2", classes[3].String())

	assert.True(t, table.Collides("Animal"))
	assert.False(t, table.Collides("Dog"))
	assert.False(t, table.Collides("Animal#2"))
	assert.NotNil(t, table.Fact(classes[0]))
	assert.NotNil(t, table.Fact(classes[3]))
}

func TestBuildTable_FunctionLocalScopeStaysDistinct(t *testing.T) {
	facts := []extractor.ClassFact{
		fact("a.py", "A", nil),
		fact("a.py", "A", []string{"factory"}),
	}
	table := BuildTable(facts)

	classes := table.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "a.py::A", classes[0].String())
	assert.Equal(t, "a.py::factory.A", classes[1].String())
}

func TestResolve(t *testing.T) {
	facts := []extractor.ClassFact{
		fact("a.py", "Base", nil),
		fact("a.py", "Child", nil),
		fact("b.py", "Base", nil),
		fact("b.py", "User", nil),
		fact("c.py", "Other", nil),
	}
	table := BuildTable(facts)

	from := func(unit, name string) QualifiedName {
		return QualifiedName{Unit: unit, Name: name}
	}

	t.Run("same unit wins over earlier declaration elsewhere", func(t *testing.T) {
		r := table.Resolve(from("b.py", "User"), "Base")
		require.Equal(t, BaseKnown, r.Kind)
		assert.Equal(t, "b.py::Base", r.Target.String())
	})

	t.Run("run-wide lookup ties break to first declared", func(t *testing.T) {
		r := table.Resolve(from("c.py", "Other"), "Base")
		require.Equal(t, BaseKnown, r.Kind)
		assert.Equal(t, "a.py::Base", r.Target.String())
	})

	t.Run("dotted expression matches by final segment", func(t *testing.T) {
		r := table.Resolve(from("c.py", "Other"), "models.Base")
		require.Equal(t, BaseKnown, r.Kind)
		assert.Equal(t, "a.py::Base", r.Target.String())
	})

	t.Run("generic specialization is stripped", func(t *testing.T) {
		r := table.Resolve(from("c.py", "Other"), "Base[int]")
		require.Equal(t, BaseKnown, r.Kind)
		assert.Equal(t, "a.py::Base", r.Target.String())
	})

	t.Run("a class never resolves to itself", func(t *testing.T) {
		r := table.Resolve(from("c.py", "Other"), "Other")
		assert.Equal(t, BaseExternal, r.Kind)
	})

	t.Run("object is suppressed", func(t *testing.T) {
		assert.Equal(t, BaseObject, table.Resolve(from("a.py", "Child"), "object").Kind)
		assert.Equal(t, BaseObject, table.Resolve(from("a.py", "Child"), "builtins.object").Kind)
	})

	t.Run("markers never become edges", func(t *testing.T) {
		for _, expr := range []string{"ABC", "abc.ABC", "Protocol", "typing.Protocol", "Generic[T]"} {
			assert.Equal(t, BaseMarker, table.Resolve(from("a.py", "Child"), expr).Kind, expr)
		}
	})

	t.Run("unknown simple name is external", func(t *testing.T) {
		r := table.Resolve(from("a.py", "Child"), "django.db.models.Model")
		require.Equal(t, BaseExternal, r.Kind)
		assert.Equal(t, "django.db.models.Model", r.Text)
	})

	t.Run("call expression is dropped", func(t *testing.T) {
		r := table.Resolve(from("a.py", "Child"), "namedtuple('P', 'x y')")
		assert.Equal(t, BaseDropped, r.Kind)
	})

	t.Run("unreadable expression is invalid", func(t *testing.T) {
		assert.Equal(t, BaseInvalid, table.Resolve(from("a.py", "Child"), "").Kind)
		assert.Equal(t, BaseInvalid, table.Resolve(from("a.py", "Child"), "a + b").Kind)
	})
}

func TestMarkers(t *testing.T) {
	t.Run("enum bases", func(t *testing.T) {
		for _, b := range []string{"Enum", "enum.Enum", "IntEnum", "StrEnum", "Flag", "IntFlag"} {
			f := fact("e.py", "E", nil, extractor.BaseFact{Expr: b})
			assert.True(t, IsEnumClass(&f), b)
		}
		plain := fact("e.py", "E", nil, extractor.BaseFact{Expr: "Base"})
		assert.False(t, IsEnumClass(&plain))
	})

	t.Run("abstract via base or metaclass", func(t *testing.T) {
		viaBase := fact("a.py", "A", nil, extractor.BaseFact{Expr: "abc.ABC"})
		assert.True(t, HasAbstractBase(&viaBase))

		viaMeta := fact("a.py", "A", nil, extractor.BaseFact{Expr: "ABCMeta", Keyword: "metaclass"})
		assert.True(t, HasAbstractBase(&viaMeta))

		otherKw := fact("a.py", "A", nil, extractor.BaseFact{Expr: "ABC", Keyword: "other"})
		assert.False(t, HasAbstractBase(&otherKw))
	})

	t.Run("protocol requires exactly one base", func(t *testing.T) {
		one := fact("p.py", "P", nil, extractor.BaseFact{Expr: "typing.Protocol"})
		assert.True(t, IsProtocolClass(&one))

		two := fact("p.py", "P", nil,
			extractor.BaseFact{Expr: "Protocol"}, extractor.BaseFact{Expr: "Base"})
		assert.False(t, IsProtocolClass(&two))
	})

	t.Run("generic params", func(t *testing.T) {
		params, ok := GenericParams("Generic[T, U]")
		require.True(t, ok)
		assert.Equal(t, "T, U", params)

		_, ok = GenericParams("Base[T]")
		assert.False(t, ok)
	})
}
