package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"max":         "{field} must be at most {param}",
	"min":         "{field} must be at least {param}",
	"email":       "{field} must be a valid email address",
	"uuid":        "{field} must be a valid id",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
	"agentid":     "agent_id must be a valid id or null",
}

// message turns the first failed rule into a readable sentence.
func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		text, ok := messages[valErr.Tag()]
		if !ok {
			continue
		}

		text = strings.ReplaceAll(text, "{field}", valErr.Field())

		return strings.TrimSpace(strings.ReplaceAll(text, "{param}", valErr.Param()))
	}

	return valErrors.Error()
}
