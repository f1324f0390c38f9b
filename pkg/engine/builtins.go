package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/partforge/pkg/catalog"
	"github.com/chazu/partforge/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms part-script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: bolted-plate -> bolted_plate
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPartRef wraps a declared part so scripts can refer to it.
type sexpPartRef struct {
	kind PartKind
	name string
}

func (p *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", p.kind, p.name)
}
func (p *sexpPartRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string. Returns the
// keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxisVec converts a keyword or string to a global axis direction.
func toAxisVec(s zygo.Sexp) (geom.Vec3, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return geom.Vec3{}, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return geom.VX, nil
	case "y":
		return geom.VY, nil
	case "z":
		return geom.VZ, nil
	}
	return geom.Vec3{}, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// plateArgs extracts the shared plate parameters (:name :d :w :h :at).
func plateArgs(fn string, pa kwArgs) (catalog.PlateParams, error) {
	var p catalog.PlateParams

	v, ok := pa.kw["name"]
	if !ok {
		return p, fmt.Errorf("%s: missing :name", fn)
	}
	name, err := toString(v)
	if err != nil {
		return p, fmt.Errorf("%s: name: %w", fn, err)
	}
	p.Name = name

	for _, dim := range []struct {
		key string
		dst *float64
	}{
		{"d", &p.D}, {"w", &p.W}, {"h", &p.H},
	} {
		v, ok := pa.kw[dim.key]
		if !ok {
			return p, fmt.Errorf("%s %q: missing :%s", fn, name, dim.key)
		}
		f, err := toFloat64(v)
		if err != nil {
			return p, fmt.Errorf("%s %q: %s: %w", fn, name, dim.key, err)
		}
		*dim.dst = f
	}

	if v, ok := pa.kw["at"]; ok {
		pos, err := toVec3(v)
		if err != nil {
			return p, fmt.Errorf("%s %q: at: %w", fn, name, err)
		}
		p.Pos = pos
	}
	return p, nil
}

// registerBuiltins installs the part DSL builtins into a zygomys
// environment. The builtins append requests to the provided Plan.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, plan *Plan) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var v [3]float64
		for i := range v {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: geom.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (plate :name "base" :d 10 :w 10 :h 2 :at (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, err := plateArgs("plate", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		plan.Requests = append(plan.Requests, Request{Kind: PartPlate, Plate: p})
		return &sexpPartRef{kind: PartPlate, name: p.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (hole :name "pin" :radius 2 :height 8 :axis :z :at (vec3 1 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h := catalog.HoleParams{Axis: geom.VZ}

		v, ok := pa.kw["name"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("hole: missing :name")
		}
		hname, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: name: %w", err)
		}
		h.Name = hname

		if v, ok := pa.kw["radius"]; ok {
			if h.Radius, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("hole %q: radius: %w", hname, err)
			}
		}
		if v, ok := pa.kw["height"]; ok {
			if h.Height, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("hole %q: height: %w", hname, err)
			}
		}
		if v, ok := pa.kw["axis"]; ok {
			if h.Axis, err = toAxisVec(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("hole %q: axis: %w", hname, err)
			}
		}
		if v, ok := pa.kw["at"]; ok {
			if h.Pos, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("hole %q: at: %w", hname, err)
			}
		}

		plan.Requests = append(plan.Requests, Request{Kind: PartHole, Hole: h})
		return &sexpPartRef{kind: PartHole, name: hname}, nil
	})

	// -----------------------------------------------------------------------
	// (perforated-plate :name "panel" :d 10 :w 10 :h 2 :radius 2)
	//
	// Registered as "perforated_plate" because zygomys does not support
	// hyphens in identifiers; the preprocessor rewrites the call site.
	// -----------------------------------------------------------------------
	env.AddFunction("perforated_plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p, err := plateArgs("perforated-plate", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("perforated-plate %q: missing :radius", p.Name)
		}
		radius, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("perforated-plate %q: radius: %w", p.Name, err)
		}

		plan.Requests = append(plan.Requests, Request{Kind: PartPerforated, Plate: p, Radius: radius})
		return &sexpPartRef{kind: PartPerforated, name: p.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (bolted-plate :name "mount" :d 20 :w 12 :h 2 :bolt-radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("bolted_plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p, err := plateArgs("bolted-plate", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["bolt-radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("bolted-plate %q: missing :bolt-radius", p.Name)
		}
		radius, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bolted-plate %q: bolt-radius: %w", p.Name, err)
		}

		plan.Requests = append(plan.Requests, Request{Kind: PartBolted, Plate: p, Radius: radius})
		return &sexpPartRef{kind: PartBolted, name: p.Name}, nil
	})
}
