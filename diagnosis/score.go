package diagnosis

import "github.com/giygas/symptoms-api/dataset/entities"

// MatchThreshold is the minimum score for a disease to be suggested
const MatchThreshold = 0.2

// MatchResult is the outcome of one diagnosis attempt
type MatchResult struct {
	Disease      string  `json:"disease,omitempty"`
	Found        bool    `json:"found"`
	Score        float64 `json:"score"`
	Treatment    string  `json:"treatment,omitempty"`
	HasTreatment bool    `json:"has_treatment"`
}

// Score returns the fraction of the disease's symptoms present in reported.
// Repeats in reported do not count twice. Blank entries count toward the
// total but never match. A disease without symptoms scores 0.
func Score(disease entities.DiseaseRecord, reported map[string]struct{}) float64 {
	if len(disease.Symptoms) == 0 {
		return 0
	}

	matched := 0
	for _, s := range disease.Symptoms {
		if s == "" {
			continue
		}
		if _, ok := reported[s]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(disease.Symptoms))
}

// BestMatch scores every disease in table order and keeps the first one with
// the highest score. Only a best score of at least MatchThreshold is a match;
// a score of zero never is.
func BestMatch(diseases []entities.DiseaseRecord, symptoms []string) MatchResult {
	reported := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		reported[s] = struct{}{}
	}

	bestIndex := -1
	bestScore := 0.0
	for i, d := range diseases {
		if score := Score(d, reported); score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex < 0 || bestScore < MatchThreshold {
		return MatchResult{Score: bestScore}
	}

	best := diseases[bestIndex]
	return MatchResult{
		Disease:      best.Name,
		Found:        true,
		Score:        bestScore,
		Treatment:    best.Treatments,
		HasTreatment: best.Treatments != "",
	}
}
