package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate validates the Content document using the validator.
func (c *Content) Validate() error {
	return validate.Struct(c)
}

// Validate validates the Project using the validator.
func (p *Project) Validate() error {
	return validate.Struct(p)
}

// Validate validates the Stack using the validator.
func (s *Stack) Validate() error {
	return validate.Struct(s)
}
