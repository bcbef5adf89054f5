package wizard

import "invitame/internal/domains"

const (
	StepTitle    = "title"
	StepDate     = "date"
	StepTime     = "time"
	StepAddress  = "address"
	StepDress    = "dress"
	StepMessage  = "message"
	StepRegistry = "registry"
	StepMusic    = "music"
	StepTemplate = "template"
	StepPreview  = "preview"
)

type Step struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ComputeSteps returns the ordered wizard steps for a plan. Registry and music
// only appear when the plan allows them.
func ComputeSteps(plan domains.Plan) []Step {
	steps := []Step{
		{Key: StepTitle, Label: "Título"},
		{Key: StepDate, Label: "Fecha"},
		{Key: StepTime, Label: "Hora"},
		{Key: StepAddress, Label: "Domicilio"},
		{Key: StepDress, Label: "Vestimenta"},
		{Key: StepMessage, Label: "Mensaje"},
	}
	if plan.AllowRegistry {
		steps = append(steps, Step{Key: StepRegistry, Label: "Mesa de regalos"})
	}
	if plan.AllowMusic {
		steps = append(steps, Step{Key: StepMusic, Label: "Música"})
	}
	return append(steps,
		Step{Key: StepTemplate, Label: "Plantilla"},
		Step{Key: StepPreview, Label: "Preview / Publicar"},
	)
}

// ClampStep maps any requested step number into [1, total].
func ClampStep(requested, total int) int {
	if total < 1 {
		return 1
	}
	return max(1, min(total, requested))
}

// StepAt returns the step at 1-based position n after clamping.
func StepAt(steps []Step, n int) (int, Step) {
	if len(steps) == 0 {
		return 1, Step{}
	}
	n = ClampStep(n, len(steps))
	return n, steps[n-1]
}
