package config

import (
	"github.com/go-playground/validator/v10"
	"strings"
)

const (
	SolverTypeFlaresolverr = "flaresolverr"
	SolverTypeByparr       = "byparr"
)

// Solver types are accepted case-insensitively and normalized at load.
func validateSolverType(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case SolverTypeFlaresolverr, SolverTypeByparr:
		return true
	default:
		return false
	}
}
