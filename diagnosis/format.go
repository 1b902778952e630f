package diagnosis

import "fmt"

// NoMatchMessage is returned when neither the label table nor the score finds a disease
const NoMatchMessage = "I couldn't identify a condition based on your symptoms. " +
	"Try rephrasing or listing individual symptoms like fever, cough, etc."

// FormatLabelMatch renders a diagnosis found through the label table
func FormatLabelMatch(disease, treatment string, hasTreatment bool) string {
	reply := fmt.Sprintf("Based on your symptoms, the possible diagnosis is %s.\n", disease)
	if hasTreatment {
		return reply + fmt.Sprintf("Recommended Treatments: %s", treatment)
	}
	return reply + "No treatment recommendations available."
}

// FormatScoreMatch renders a disease suggested by symptom overlap
func FormatScoreMatch(disease, treatment string) string {
	return fmt.Sprintf("Your symptoms could be related to %s, but this is not a diagnosis.\n"+
		"Recommended Treatments: %s\n"+
		"Please consult a medical professional for an accurate diagnosis.", disease, treatment)
}

// FormatNoMatch renders the guidance shown when nothing matched
func FormatNoMatch() string {
	return NoMatchMessage
}
