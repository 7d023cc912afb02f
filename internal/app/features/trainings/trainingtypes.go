package trainings

import (
	"strings"

	"github.com/dalemusser/staffhub/internal/domain/models"
)

// trainingTypeOptions returns the canonical list of training types as
// ID/Label pairs for use in templates.
//
// The IDs come from models.TrainingTypes, and labels are simple
// human-friendly versions (first letter capitalized).
func trainingTypeOptions() []TrainingTypeOption {
	opts := make([]TrainingTypeOption, 0, len(models.TrainingTypes))
	for _, id := range models.TrainingTypes {
		label := id
		if len(id) > 0 {
			label = strings.ToUpper(id[:1]) + id[1:]
		}
		opts = append(opts, TrainingTypeOption{ID: id, Label: label})
	}
	return opts
}
