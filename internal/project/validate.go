package project

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/nscp"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and the cross-references a struct tag cannot
// express. All problems are reported together.
func (p *Project) Validate() error {
	var problems []string
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.Wrap(apperr.CodeInternal, err, "validate project")
		}
		for _, e := range verrs {
			problems = append(problems, formatFieldError(e))
		}
	}

	if _, err := p.Material.resolve(); err != nil {
		problems = append(problems, err.Error())
	}

	ids := make(map[int]bool, len(p.Joints))
	type point struct{ x, y float64 }
	at := make(map[point]int, len(p.Joints))
	for _, j := range p.Joints {
		if ids[j.ID] {
			problems = append(problems, fmt.Sprintf("joint %d is defined twice", j.ID))
		}
		ids[j.ID] = true
		pt := point{j.X, j.Y}
		if other, ok := at[pt]; ok && other != j.ID {
			problems = append(problems, fmt.Sprintf("joints %d and %d share coordinates (%g, %g)", other, j.ID, j.X, j.Y))
		}
		at[pt] = j.ID
	}
	for i, l := range p.Loads {
		if !ids[l.Joint] {
			problems = append(problems, fmt.Sprintf("loads[%d] references unknown joint %d", i, l.Joint))
		}
	}

	if len(problems) > 0 {
		return apperr.New(apperr.CodeInvalidProject, "%s", strings.Join(problems, "; "))
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// resolve returns the material in design-sheet units. Explicit values
// override a named preset; Custom requires both.
func (m Material) resolve() (nscp.Material, error) {
	if strings.EqualFold(m.Preset, nscp.Custom) {
		if m.EGPa <= 0 || m.YieldMPa <= 0 {
			return nscp.Material{}, fmt.Errorf("material %s requires eGPa and yieldMPa greater than 0", nscp.Custom)
		}
		return nscp.Material{Name: nscp.Custom, E: m.EGPa, Yield: m.YieldMPa}, nil
	}
	mat, err := nscp.LookupMaterial(m.Preset)
	if err != nil {
		return nscp.Material{}, err
	}
	if m.EGPa > 0 {
		mat.E = m.EGPa
	}
	if m.YieldMPa > 0 {
		mat.Yield = m.YieldMPa
	}
	return mat, nil
}
