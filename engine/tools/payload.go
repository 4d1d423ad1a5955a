package tools

import (
	"errors"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

// Payload messages for the two missing-input errors.
const (
	msgMissingScenarioInput = "Either scenario or template_id is required"
	msgMissingExternalID    = "user_ern is required"
)

// ErrorPayload converts a rejected tool call into the payload returned to
// the caller. It reports false for errors that are not input rejections.
func ErrorPayload(err error) (map[string]any, bool) {
	var (
		unknownKind *domain.UnknownErrorKindError
		notFound    *domain.TemplateNotFoundError
		argErr      *ArgumentError
	)
	switch {
	case errors.As(err, &unknownKind):
		return map[string]any{"error": unknownKind.Error(), "available_types": unknownKind.Valid}, true
	case errors.As(err, &notFound):
		return map[string]any{"error": notFound.Error(), "available_templates": notFound.Available}, true
	case errors.Is(err, domain.ErrMissingScenarioInput):
		return map[string]any{"error": msgMissingScenarioInput}, true
	case errors.Is(err, domain.ErrMissingExternalID):
		return map[string]any{"error": msgMissingExternalID}, true
	case errors.As(err, &argErr),
		errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrInvalidCategory):
		return map[string]any{"error": err.Error()}, true
	}
	return nil, false
}
