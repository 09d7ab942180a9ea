package model

// magicReturnTypes maps dunder methods to their conventional return types,
// used when no explicit annotation is present. Dunders not listed here stay
// Unknown.
var magicReturnTypes = map[string]string{
	"__init__":          "None",
	"__del__":           "None",
	"__str__":           "str",
	"__repr__":          "str",
	"__format__":        "str",
	"__fspath__":        "str",
	"__bytes__":         "bytes",
	"__bool__":          "bool",
	"__contains__":      "bool",
	"__eq__":            "bool",
	"__ne__":            "bool",
	"__lt__":            "bool",
	"__le__":            "bool",
	"__gt__":            "bool",
	"__ge__":            "bool",
	"__instancecheck__": "bool",
	"__subclasscheck__": "bool",
	"__len__":           "int",
	"__length_hint__":   "int",
	"__hash__":          "int",
	"__int__":           "int",
	"__index__":         "int",
	"__sizeof__":        "int",
	"__ceil__":          "int",
	"__floor__":         "int",
	"__trunc__":         "int",
	"__float__":         "float",
	"__complex__":       "complex",
	"__setattr__":       "None",
	"__delattr__":       "None",
	"__setitem__":       "None",
	"__delitem__":       "None",
	"__set_name__":      "None",
	"__init_subclass__": "None",
}

// MagicReturnType returns the conventional return type of a dunder method.
func MagicReturnType(name string) (string, bool) {
	t, ok := magicReturnTypes[name]
	return t, ok
}
