package wizard

import (
	"fmt"
	"strings"
	"time"

	"invitame/internal/domains"
)

// ValidationError reports a required wizard field that is missing or malformed.
// The step is not advanced when it is returned.
type ValidationError struct {
	Step    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: %s: %s", e.Step, e.Field, e.Message)
}

// Validate checks the fields the given step requires on the merged draft.
func Validate(step string, d domains.Draft) error {
	switch step {
	case StepTitle:
		if strings.TrimSpace(d.Title) == "" {
			return &ValidationError{Step: step, Field: "title", Message: "required"}
		}
	case StepDate:
		if strings.TrimSpace(d.Date) == "" {
			return &ValidationError{Step: step, Field: "date", Message: "required"}
		}
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			return &ValidationError{Step: step, Field: "date", Message: "expected YYYY-MM-DD"}
		}
	case StepTime:
		if strings.TrimSpace(d.Time) == "" {
			return &ValidationError{Step: step, Field: "time", Message: "required"}
		}
		if _, err := time.Parse("15:04", d.Time); err != nil {
			return &ValidationError{Step: step, Field: "time", Message: "expected HH:MM"}
		}
	case StepAddress:
		if strings.TrimSpace(d.Address) == "" {
			return &ValidationError{Step: step, Field: "address", Message: "required"}
		}
	case StepTemplate:
		if strings.TrimSpace(d.TemplateKey) == "" {
			return &ValidationError{Step: step, Field: "template_key", Message: "required"}
		}
	}
	return nil
}
