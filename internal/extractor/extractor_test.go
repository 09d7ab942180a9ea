package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmaid/internal/diag"
)

func parsePython(t *testing.T, unit, source string) ParseResult {
	t.Helper()
	ext, err := NewExtractor("python")
	require.NoError(t, err)
	return ext.ParseUnit(unit, []byte(source))
}

func factsByName(result ParseResult) map[string]ClassFact {
	out := make(map[string]ClassFact, len(result.Facts))
	for _, f := range result.Facts {
		out[f.Name] = f
	}
	return out
}

func TestExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("cobol")
	assert.Error(t, err)
}

func TestParseUnit_Classes(t *testing.T) {
	source := `
class Animal:
    """A docstring that must not become a member."""

    kind: str
    _tag = "animal"

    def __init__(self, name: str):
        self.name = name

    def speak(self) -> str:
        return "..."

    def _internal(self):
        pass


class Dog(Animal):
    async def fetch(self, thing): ...
`
	result := parsePython(t, "animals.py", source)
	require.Empty(t, result.Diags)
	require.Len(t, result.Facts, 2)

	byName := factsByName(result)

	t.Run("declaration order", func(t *testing.T) {
		assert.Equal(t, "Animal", result.Facts[0].Name)
		assert.Equal(t, "Dog", result.Facts[1].Name)
		assert.Less(t, result.Facts[0].Line, result.Facts[1].Line)
	})

	t.Run("members", func(t *testing.T) {
		animal := byName["Animal"]
		require.Len(t, animal.Members, 5)

		kind := animal.Members[0]
		assert.Equal(t, MemberField, kind.Kind)
		assert.Equal(t, "kind", kind.Name)
		assert.Equal(t, "str", kind.Annotation)

		tag := animal.Members[1]
		assert.Equal(t, "_tag", tag.Name)
		assert.Empty(t, tag.Annotation)
		assert.Equal(t, "str", tag.ValueShape)

		init := animal.Members[2]
		assert.Equal(t, MemberMethod, init.Kind)
		assert.Equal(t, "__init__", init.Name)
		require.Len(t, init.Params, 2)
		assert.Equal(t, ParamFact{Name: "self"}, init.Params[0])
		assert.Equal(t, ParamFact{Name: "name", Type: "str"}, init.Params[1])
		assert.Empty(t, init.Returns)

		speak := animal.Members[3]
		assert.Equal(t, "speak", speak.Name)
		assert.Equal(t, "str", speak.Returns)
	})

	t.Run("bases", func(t *testing.T) {
		dog := byName["Dog"]
		require.Len(t, dog.Bases, 1)
		assert.Equal(t, "Animal", dog.Bases[0].Expr)
		assert.Empty(t, dog.Bases[0].Keyword)
		assert.Empty(t, byName["Animal"].Bases)
	})

	t.Run("async method", func(t *testing.T) {
		dog := byName["Dog"]
		require.Len(t, dog.Members, 1)
		assert.True(t, dog.Members[0].IsAsync)
	})
}

func TestParseUnit_NestedClasses(t *testing.T) {
	source := `
class Outer:
    class Inner:
        class Deepest:
            pass
`
	result := parsePython(t, "nested.py", source)
	require.Len(t, result.Facts, 3)

	assert.Empty(t, result.Facts[0].Scope)
	assert.Equal(t, []string{"Outer"}, result.Facts[1].Scope)
	assert.Equal(t, []string{"Outer", "Inner"}, result.Facts[2].Scope)
}

func TestParseUnit_FunctionLocalClassScope(t *testing.T) {
	source := `
class A:
    x: int


def factory():
    class A:
        y: int
    return A


class Holder:
    def make(self):
        class Worker:
            pass
        return Worker
`
	result := parsePython(t, "local.py", source)
	require.Len(t, result.Facts, 3)

	assert.Empty(t, result.Facts[0].Scope)
	assert.Equal(t, []string{"factory"}, result.Facts[1].Scope)
	assert.Equal(t, []string{"Holder", "make"}, result.Facts[2].Scope)
}

func TestParseUnit_DecoratorsAndKeywordBases(t *testing.T) {
	source := `
import abc
from dataclasses import dataclass


@dataclass(frozen=True)
class Point:
    x: float
    y: float


class Base(metaclass=abc.ABCMeta):
    @staticmethod
    def make():
        pass

    @classmethod
    def create(cls):
        pass
`
	result := parsePython(t, "deco.py", source)
	require.Empty(t, result.Diags)
	byName := factsByName(result)

	point := byName["Point"]
	require.Len(t, point.Decorators, 1)
	assert.Equal(t, "dataclass(frozen=True)", point.Decorators[0])

	base := byName["Base"]
	require.Len(t, base.Bases, 1)
	assert.Equal(t, "metaclass", base.Bases[0].Keyword)
	assert.Equal(t, "abc.ABCMeta", base.Bases[0].Expr)

	require.Len(t, base.Members, 2)
	assert.Equal(t, []string{"staticmethod"}, base.Members[0].Decorators)
	assert.Equal(t, []string{"classmethod"}, base.Members[1].Decorators)
}

func TestParseUnit_EnumAssignments(t *testing.T) {
	source := `
from enum import Enum


class Color(Enum):
    RED = 1
    GREEN = "green"
    FLAGS = [1, 2]
    RATIO = 1.5
    MAYBE = None
`
	result := parsePython(t, "color.py", source)
	require.Len(t, result.Facts, 1)

	shapes := map[string]string{}
	for _, m := range result.Facts[0].Members {
		shapes[m.Name] = m.ValueShape
	}
	assert.Equal(t, map[string]string{
		"RED":   "int",
		"GREEN": "str",
		"FLAGS": "list",
		"RATIO": "float",
		"MAYBE": "None",
	}, shapes)
}

func TestParseUnit_ParamShapes(t *testing.T) {
	source := `
class API:
    def call(self, a, b: int, c=1, d: str = "x", *args, **kwargs):
        pass
`
	result := parsePython(t, "api.py", source)
	require.Len(t, result.Facts, 1)
	require.Len(t, result.Facts[0].Members, 1)

	var names []string
	for _, p := range result.Facts[0].Members[0].Params {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"self", "a", "b", "c", "d", "*args", "**kwargs"}, names)

	params := result.Facts[0].Members[0].Params
	assert.Equal(t, "int", params[2].Type)
	assert.Equal(t, "str", params[4].Type)
}

func TestParseUnit_SyntaxError(t *testing.T) {
	t.Run("unit with nothing recoverable fails", func(t *testing.T) {
		result := parsePython(t, "broken.py", "class (:\n")
		assert.Empty(t, result.Facts)
		require.Len(t, result.Diags, 1)
		assert.Equal(t, diag.SevError, result.Diags[0].Severity)
		assert.Equal(t, diag.StageParse, result.Diags[0].Stage)
		assert.Equal(t, "broken.py", result.Diags[0].Unit)
		assert.Greater(t, result.Diags[0].Line, 0)
	})

	t.Run("malformed trailer keeps earlier classes", func(t *testing.T) {
		source := "class Good:\n    pass\n\ndef broken(:\n"
		result := parsePython(t, "partial.py", source)
		require.Len(t, result.Facts, 1)
		assert.Equal(t, "Good", result.Facts[0].Name)
		require.Len(t, result.Diags, 1)
		assert.Equal(t, diag.SevWarning, result.Diags[0].Severity)
	})
}

func TestParseUnit_GenericBaseText(t *testing.T) {
	source := `
from typing import Generic, TypeVar

T = TypeVar("T")


class Stack(Generic[T]):
    def push(self, item: T) -> None: ...
`
	result := parsePython(t, "stack.py", source)
	require.Len(t, result.Facts, 1)
	require.Len(t, result.Facts[0].Bases, 1)
	assert.Equal(t, "Generic[T]", result.Facts[0].Bases[0].Expr)
}
