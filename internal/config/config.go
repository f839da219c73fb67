package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"net/url"
	"os"
	"strings"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("httpurl", validateHTTPURL); err != nil {
		panic(fmt.Sprintf("failed to register httpurl validator: %v", err))
	}
	if err := validate.RegisterValidation("solvertype", validateSolverType); err != nil {
		panic(fmt.Sprintf("failed to register solvertype validator: %v", err))
	}
}

type Config struct {
	Solver  Solver
	Refresh Refresh
	Publish Publish
	Proxy   Proxy
	Metrics Metrics
}

type Solver struct {
	// URL is the solver service root; the /v1 API suffix is appended at load.
	URL     string `envconfig:"SOLVER_URL" default:"http://localhost:8191" validate:"required,httpurl"`
	Type    string `envconfig:"SOLVER_TYPE" default:"flaresolverr" validate:"required,solvertype"`
	Timeout int    `envconfig:"SOLVER_TIMEOUT" default:"200000" validate:"gt=0"` // milliseconds
}

type Refresh struct {
	TargetURL       string `envconfig:"TARGET_URL" validate:"required,httpurl"`
	Interval        int    `envconfig:"INTERVAL" default:"300" validate:"gt=0"`        // seconds
	MinExecInterval int    `envconfig:"MIN_EXEC_INTERVAL" default:"10" validate:"gt=0"` // seconds
}

type Publish struct {
	Endpoint string `envconfig:"UPDATE_ENDPOINT" validate:"required,httpurl"`
	AuthKey  string `envconfig:"ENDPOINT_AUTH" validate:"required"`
	Timeout  int    `envconfig:"PUBLISH_TIMEOUT" default:"30" validate:"gt=0"` // seconds
}

type Proxy struct {
	URL string `envconfig:"PROXY"`
}

type Metrics struct {
	// Listen is the ops server address; empty disables the server.
	Listen string `envconfig:"METRICS_LISTEN" default:":9090"`
}

// NewConfig creates a new Config instance from the environment
func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Message: fmt.Sprintf("error reading environment: %v", err)}
	}

	applyAliases(&cfg)
	normalize(&cfg)

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, formatValidationErrors(validationErrors)
		}
		return nil, &Error{Message: fmt.Sprintf("config validation failed: %v", err)}
	}

	return &cfg, nil
}

// applyAliases honors the legacy variable names when the canonical ones
// are unset.
func applyAliases(cfg *Config) {
	if os.Getenv("SOLVER_URL") == "" {
		if v := os.Getenv("FLARESOLVERR_URL"); v != "" {
			cfg.Solver.URL = v
		}
	}
	if os.Getenv("PROXY") == "" {
		if v := os.Getenv("PROXY_URL"); v != "" {
			cfg.Proxy.URL = v
		}
	}
}

func normalize(cfg *Config) {
	cfg.Solver.Type = strings.ToLower(cfg.Solver.Type)

	trimmed := strings.TrimRight(cfg.Solver.URL, "/")
	if trimmed != "" && !strings.HasSuffix(trimmed, "/v1") {
		trimmed += "/v1"
	}
	cfg.Solver.URL = trimmed
}

func validateHTTPURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// formatValidationErrors formats validation errors into a user-friendly error message
func formatValidationErrors(errors validator.ValidationErrors) error {
	var errMsgs []string
	for _, err := range errors {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"field '%s' failed validation: %s",
			err.Field(),
			err.Tag(),
		))
	}
	return &Error{
		Field:   errors[0].Field(),
		Message: fmt.Sprintf("validation errors: %v", errMsgs),
	}
}
