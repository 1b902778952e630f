package diagnosis

import (
	"strings"

	"github.com/giygas/symptoms-api/dataset/entities"
)

// TreatmentResolver looks up treatment text by disease name
type TreatmentResolver struct {
	byName map[string]string
}

// NewTreatmentResolver indexes diseases by name; the first row of a duplicated name wins
func NewTreatmentResolver(diseases []entities.DiseaseRecord) *TreatmentResolver {
	byName := make(map[string]string, len(diseases))
	for _, d := range diseases {
		if _, exists := byName[d.Name]; !exists {
			byName[d.Name] = d.Treatments
		}
	}
	return &TreatmentResolver{byName: byName}
}

// Resolve returns the treatment for disease. A missing disease, an unknown
// name or an empty treatment cell all report no treatment.
func (r *TreatmentResolver) Resolve(disease string, found bool) (string, bool) {
	if !found {
		return "", false
	}

	treatment, ok := r.byName[strings.ToLower(disease)]
	if !ok || treatment == "" {
		return "", false
	}
	return treatment, true
}
