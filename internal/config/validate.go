package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("config: invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	vars := c.Source.Variables
	if c.Render.Variable != "" && len(vars) > 0 && !slices.Contains(vars, c.Render.Variable) {
		return fmt.Errorf("%w: render variable %q not among source variables %v", ErrInvalid, c.Render.Variable, vars)
	}
	switch c.Source.Format {
	case "excel":
		if c.Source.Excel.Geometry == "" {
			return fmt.Errorf("%w: excel source needs a geometry workbook", ErrInvalid)
		}
	case "csv":
		if c.Source.CSV.Nodes == "" {
			return fmt.Errorf("%w: csv source needs a nodes file", ErrInvalid)
		}
	}
	return nil
}
