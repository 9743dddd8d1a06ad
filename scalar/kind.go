package scalar

import (
	"fmt"
	"strings"
)

// Kind identifies the scalar type of a column or value.
type Kind uint8

// Scalar kinds. Timestamp, Date and UUID are extension kinds and must be
// enabled through Features before a schema may declare them.
const (
	Invalid Kind = iota
	SmallInt
	Int
	BigInt
	Float
	Double
	String
	Boolean
	Timestamp
	Date
	UUID
	ID
)

var kindNames = [...]string{
	Invalid:   "invalid",
	SmallInt:  "SmallInt",
	Int:       "Int",
	BigInt:    "BigInt",
	Float:     "Float",
	Double:    "Double",
	String:    "String",
	Boolean:   "Boolean",
	Timestamp: "Timestamp",
	Date:      "Date",
	UUID:      "UUID",
	ID:        "ID",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k > Invalid && k <= ID
}

// Integer reports whether k is one of the integer kinds.
func (k Kind) Integer() bool {
	return k == SmallInt || k == Int || k == BigInt
}

// Numeric reports whether k is an integer or floating point kind.
func (k Kind) Numeric() bool {
	return k.Integer() || k == Float || k == Double
}

// Ordered reports whether values of k support the range operators.
func (k Kind) Ordered() bool {
	return k.Numeric() || k == String || k == Timestamp || k == Date
}

// ParseKind parses a kind name, case-insensitively. Common SQL spellings
// are accepted as aliases.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "smallint", "int16":
		return SmallInt, nil
	case "int", "integer", "int32":
		return Int, nil
	case "bigint", "int64":
		return BigInt, nil
	case "float", "real", "float32":
		return Float, nil
	case "double", "float64":
		return Double, nil
	case "string", "text", "varchar":
		return String, nil
	case "boolean", "bool":
		return Boolean, nil
	case "timestamp", "datetime", "time":
		return Timestamp, nil
	case "date":
		return Date, nil
	case "uuid":
		return UUID, nil
	case "id":
		return ID, nil
	}
	return Invalid, fmt.Errorf("scalar: unknown kind %q", name)
}

// Features is a set of optional extension kinds.
type Features uint8

// Extension capabilities.
const (
	Timestamps Features = 1 << iota // Timestamp and Date
	UUIDs                           // UUID
)

// AllFeatures enables every extension kind.
const AllFeatures = Timestamps | UUIDs

// Requires returns the feature set a kind depends on, or zero for core kinds.
func (k Kind) Requires() Features {
	switch k {
	case Timestamp, Date:
		return Timestamps
	case UUID:
		return UUIDs
	}
	return 0
}

// Has reports whether every feature in o is enabled in f.
func (f Features) Has(o Features) bool {
	return f&o == o
}
