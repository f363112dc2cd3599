package pipeline

const planSchemaVersion = 1

// Plan is the serializable description of a pipeline, produced when a command
// is asked to print what it would do instead of doing it.
type Plan struct {
	SchemaVersion int        `json:"schemaVersion"`
	Description   string     `json:"description"`
	Steps         []PlanStep `json:"steps"`
}

type PlanStep struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Plan reports the steps this pipeline would execute in order.
func (p *Pipeline) Plan(description string) Plan {
	steps := make([]PlanStep, 0, len(p.steps))
	for _, s := range p.steps {
		steps = append(steps, PlanStep{Name: s.Name, Description: s.Description})
	}
	return Plan{
		SchemaVersion: planSchemaVersion,
		Description:   description,
		Steps:         steps,
	}
}
