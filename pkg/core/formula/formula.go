// Package formula implements the small declarative expression language used
// by both ontology computed extractors and constraint predicates: a JSON
// expression tree of literals, field references and single-key operator
// objects, parsed once into a typed Expr and evaluated as a pure function
// of (Expr, facts.Facts).
package formula

import (
	"fmt"
	"log"

	"github.com/aare-ai/aare/pkg/core/facts"
)

// Kind discriminates an Expr node.
type Kind int

const (
	KindLiteral Kind = iota
	KindField
	KindOp
)

// Expr is a parsed formula node. Exactly one of (Literal), (Field), or
// (Op, Args) is meaningful, selected by Kind.
type Expr struct {
	Kind    Kind
	Literal interface{}
	Field   string
	Op      string
	Args    []Expr
}

var opAliases = map[string]string{
	">":  "gt",
	">=": "gte",
	"<":  "lt",
	"<=": "lte",
	"+":  "add",
	"*":  "mul",
}

var knownOps = map[string]bool{
	"count_true": true, "count_fields": true, "sum": true,
	"any": true, "all": true,
	"gt": true, "gte": true, "lt": true, "lte": true,
	"add": true, "mul": true,
	"if": true, "not": true, "and": true, "or": true,
}

// Parse converts a decoded JSON value (as produced by encoding/json or the
// ontology's lenient parser) into an Expr tree. A bare string is a field
// reference; other scalars (bool, float64, nil) are literals; a
// single-key object selects an operator, whose value is parsed as the
// operator's argument list (a JSON array parses element-wise; a bare
// scalar/object is treated as a single-element argument list, which
// covers arity-1 operators such as "not" written without wrapping array).
func Parse(raw interface{}) (Expr, error) {
	switch v := raw.(type) {
	case nil:
		return Expr{Kind: KindLiteral, Literal: nil}, nil
	case bool, float64, int, int64:
		return Expr{Kind: KindLiteral, Literal: v}, nil
	case string:
		return Expr{Kind: KindField, Field: v}, nil
	case []interface{}:
		return Expr{Kind: KindLiteral, Literal: v}, nil
	case map[string]interface{}:
		if len(v) != 1 {
			return Expr{}, fmt.Errorf("formula: operator object must have exactly one key, got %d", len(v))
		}
		var op string
		var argVal interface{}
		for k, val := range v {
			op, argVal = k, val
		}
		if alias, ok := opAliases[op]; ok {
			op = alias
		}
		if !knownOps[op] {
			return Expr{}, fmt.Errorf("formula: unknown operator %q", op)
		}
		args, err := parseArgs(argVal)
		if err != nil {
			return Expr{}, fmt.Errorf("formula: operator %q: %w", op, err)
		}
		return Expr{Kind: KindOp, Op: op, Args: args}, nil
	default:
		return Expr{}, fmt.Errorf("formula: unsupported expression value of type %T", raw)
	}
}

func parseArgs(raw interface{}) ([]Expr, error) {
	items, ok := raw.([]interface{})
	if !ok {
		e, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		return []Expr{e}, nil
	}
	out := make([]Expr, 0, len(items))
	for _, item := range items {
		e, err := Parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Dependencies returns the distinct field names syntactically referenced by
// e, walking nested operator arguments (including both branches of "if").
// depends_on declarations are informational only (spec §9); this walk is
// the sole source of truth used by the derivation engine's pass ordering.
func Dependencies(e Expr) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch e.Kind {
		case KindField:
			if !seen[e.Field] {
				seen[e.Field] = true
				out = append(out, e.Field)
			}
		case KindOp:
			for _, a := range e.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

// Eval evaluates e against f, returning nil for "null" per the DSL's
// soft-fail semantics (unknown operator, null-propagating arithmetic,
// missing field reference). It never panics and never returns an error:
// every failure mode in this language reduces to null, by design.
func Eval(e Expr, f *facts.Facts) interface{} {
	switch e.Kind {
	case KindLiteral:
		return e.Literal
	case KindField:
		v, ok := f.Get(e.Field)
		if !ok {
			return nil
		}
		return v
	case KindOp:
		return evalOp(e, f)
	default:
		return nil
	}
}

func evalOp(e Expr, f *facts.Facts) interface{} {
	switch e.Op {
	case "count_true":
		n := 0
		for _, a := range e.Args {
			if b, ok := Eval(a, f).(bool); ok && b {
				n++
			}
		}
		return float64(n)

	case "count_fields":
		n := 0
		for _, a := range e.Args {
			if Eval(a, f) != nil {
				n++
			}
		}
		return float64(n)

	case "sum":
		total := 0.0
		for _, a := range e.Args {
			if n, ok := asFloat(Eval(a, f)); ok {
				total += n
			}
		}
		return total

	case "any", "or":
		return reduceLogical(e.Args, f, false)

	case "all", "and":
		return reduceLogical(e.Args, f, true)

	case "gt", "gte", "lt", "lte":
		if len(e.Args) != 2 {
			return nil
		}
		l, lok := asFloat(Eval(e.Args[0], f))
		r, rok := asFloat(Eval(e.Args[1], f))
		if !lok || !rok {
			return nil
		}
		switch e.Op {
		case "gt":
			return l > r
		case "gte":
			return l >= r
		case "lt":
			return l < r
		default:
			return l <= r
		}

	case "add", "mul":
		if len(e.Args) < 2 {
			return nil
		}
		acc, ok := asFloat(Eval(e.Args[0], f))
		if !ok {
			return nil
		}
		for _, a := range e.Args[1:] {
			n, ok := asFloat(Eval(a, f))
			if !ok {
				return nil
			}
			if e.Op == "add" {
				acc += n
			} else {
				acc *= n
			}
		}
		return acc

	case "if":
		if len(e.Args) != 3 {
			return nil
		}
		if truthy(Eval(e.Args[0], f)) {
			return Eval(e.Args[1], f)
		}
		return Eval(e.Args[2], f)

	case "not":
		if len(e.Args) != 1 {
			return nil
		}
		v := Eval(e.Args[0], f)
		if v == nil {
			return nil
		}
		return !truthy(v)

	default:
		log.Printf("[formula] unknown operator %q evaluates to null", e.Op)
		return nil
	}
}

// reduceLogical implements any/all (and their and/or aliases): nulls are
// ignored entirely; if every argument is null the result is null, since
// there is nothing left to reduce over.
func reduceLogical(args []Expr, f *facts.Facts, isAll bool) interface{} {
	seen := false
	result := isAll
	for _, a := range args {
		v := Eval(a, f)
		if v == nil {
			continue
		}
		seen = true
		b := truthy(v)
		if isAll {
			result = result && b
		} else {
			result = result || b
		}
	}
	if !seen {
		return nil
	}
	return result
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	default:
		return true
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
