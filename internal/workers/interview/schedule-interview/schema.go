// internal/workers/interview/schedule-interview/schema.go
package scheduleinterview

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"careers-scheduling/internal/common/errors"
)

// Structural validation of the raw job payload. Business rules (duplicate
// panel members, application existence) stay in the manager; this only
// rejects payloads the manager could not interpret.
const inputSchema = `{
	"type": "object",
	"required": ["applicationId", "scheduledDate", "title", "interviewers"],
	"properties": {
		"applicationId": {"type": "string", "minLength": 1},
		"scheduledDate": {"type": "string", "format": "date-time"},
		"title": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"durationMinutes": {"type": "integer", "minimum": 1},
		"interviewers": {
			"type": "array",
			"minItems": 1,
			"maxItems": 10,
			"items": {
				"type": "object",
				"required": ["participantId"],
				"properties": {
					"participantId": {"type": "string", "minLength": 1},
					"displayName": {"type": "string"}
				}
			}
		},
		"processId": {"type": "string"},
		"location": {"type": "string"},
		"onlineMeetingUrl": {"type": "string"},
		"meetingId": {"type": "string"},
		"meetingPassword": {"type": "string"},
		"provider": {"type": "string", "enum": ["", "google", "microsoft", "other"]}
	}
}`

var inputSchemaLoader = gojsonschema.NewStringLoader(inputSchema)

func validateInput(rawVariables string) error {
	result, err := gojsonschema.Validate(inputSchemaLoader, gojsonschema.NewStringLoader(rawVariables))
	if err != nil {
		return errors.NewScheduleValidationError("malformed input: " + err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewScheduleValidationError(strings.Join(details, "; "))
	}
	return nil
}
