package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"rfq-dispatch-workers/internal/common/errors"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var compiled sync.Map // schema source -> *gojsonschema.Schema

func compile(schemaJSON string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(schemaJSON); ok {
		return s.(*gojsonschema.Schema), nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiled.Store(schemaJSON, s)
	return s, nil
}

// ValidateJobInput checks raw job variables against a JSON schema. The
// error return is reserved for a broken schema or unparseable document.
func ValidateJobInput(schemaJSON string, variables []byte) (*ValidationResult, error) {
	schema, err := compile(schemaJSON)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(variables))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// Decode validates job variables against schemaJSON and unmarshals them
// into out. Every failure is an INVALID_INPUT StandardError.
func Decode(schemaJSON string, variables []byte, out interface{}) error {
	if len(bytes.TrimSpace(variables)) == 0 {
		variables = []byte("{}")
	}

	res, err := ValidateJobInput(schemaJSON, variables)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if !res.Valid {
		return errors.NewInvalidInputError(strings.Join(res.GetErrorMessages(), "; "))
	}
	if err := json.Unmarshal(variables, out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(strings.TrimSpace(url))
}
