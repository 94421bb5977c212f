// Package validation checks configuration and stage specifications.
//
// Struct tag validation uses go-playground/validator. Field names in errors
// come from the mapstructure tag, so they match the keys users write in
// config files:
//
//	type StageSpec struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Validate(spec)
//
// Programmatic checks collect errors the same way:
//
//	v := validation.New()
//	v.Custom(len(children) == 1, "stages", "bypass needs exactly one child stage")
//	err := v.Validate()
package validation
