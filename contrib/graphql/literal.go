package graphql

import (
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/relgraph/scalar"
)

// Literal converts a parsed argument value into a scalar literal, resolving
// variables from vars. An undefined variable is null.
func Literal(v *ast.Value, vars map[string]any) (scalar.Literal, error) {
	if v == nil {
		return scalar.NullLit(), nil
	}
	switch v.Kind {
	case ast.Variable:
		return scalar.FromGo(vars[v.Raw])
	case ast.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return scalar.Literal{}, fmt.Errorf("graphql: integer %s out of range", v.Raw)
		}
		return scalar.Scalar(scalar.NarrowInt(n)), nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return scalar.Literal{}, fmt.Errorf("graphql: invalid float %s", v.Raw)
		}
		return scalar.Scalar(scalar.NarrowFloat(f)), nil
	case ast.StringValue, ast.BlockValue:
		return scalar.Scalar(scalar.Text(v.Raw)), nil
	case ast.BooleanValue:
		return scalar.Scalar(scalar.Bool(v.Raw == "true")), nil
	case ast.NullValue:
		return scalar.NullLit(), nil
	case ast.EnumValue:
		return scalar.Enum(v.Raw), nil
	case ast.ListValue:
		items := make([]scalar.Literal, len(v.Children))
		for i, c := range v.Children {
			l, err := Literal(c.Value, vars)
			if err != nil {
				return scalar.Literal{}, err
			}
			items[i] = l
		}
		return scalar.List(items...), nil
	case ast.ObjectValue:
		fields := make([]scalar.ObjectField, len(v.Children))
		for i, c := range v.Children {
			l, err := Literal(c.Value, vars)
			if err != nil {
				return scalar.Literal{}, err
			}
			fields[i] = scalar.Prop(c.Name, l)
		}
		return scalar.Object(fields...), nil
	}
	return scalar.Literal{}, fmt.Errorf("graphql: unsupported value kind %d", v.Kind)
}
