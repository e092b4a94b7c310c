package binder

import (
	"github.com/go-playground/validator/v10"
	"github.com/inkdraft/inkdraft/pkg/models"
)

var wizardSteps = map[string]bool{
	models.StepTopic:   true,
	models.StepTitle:   true,
	models.StepOutline: true,
	models.StepContent: true,
	models.StepCover:   true,
	models.StepExport:  true,
	models.StepHistory: true,
}

// stepValidator ensures the value is one of the wizard step names.
func stepValidator(fl validator.FieldLevel) bool {
	return wizardSteps[fl.Field().String()]
}
