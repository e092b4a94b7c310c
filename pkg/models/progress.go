package models

const (
	StepTopic   = "topic"
	StepTitle   = "title"
	StepOutline = "outline"
	StepContent = "content"
	StepCover   = "cover"
	StepExport  = "export"
	StepHistory = "history"
)

// Total progress is checkpointed at fixed values per completed step, not
// measured from actual work done.
const (
	ProgressTopicSet         = 10
	ProgressTitlesGenerated  = 20
	ProgressTitleSelected    = 30
	ProgressOutlineGenerated = 50
	ProgressCoverGenerated   = 90
	ProgressExported         = 100
)

// GenerationProgress records which step the wizard is on, whether a
// generation call is in flight, cumulative credit usage, and the last error.
// It records the in-flight flag set around collaborator calls; it does not
// itself enforce mutual exclusion.
type GenerationProgress struct {
	CurrentStep   string  `json:"current_step"`
	TotalProgress int     `json:"total_progress"`
	StepProgress  int     `json:"step_progress"`
	IsGenerating  bool    `json:"is_generating"`
	CreditsUsed   int     `json:"credits_used"`
	ErrorMessage  *string `json:"error_message,omitempty"`
}

// InitialProgress is the progress state of a brand-new wizard session.
func InitialProgress() GenerationProgress {
	return GenerationProgress{CurrentStep: StepTopic}
}
