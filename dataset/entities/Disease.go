package entities

// DiseaseRecord is one row of the disease reference table.
// Name and Symptoms are stored lowercase; the record is never modified after load.
type DiseaseRecord struct {
	Name       string   `json:"name"`
	Symptoms   []string `json:"symptoms"`
	Treatments string   `json:"treatments"`
}

// LabelEntry links a canned text phrase to an integer label
type LabelEntry struct {
	Text      string `json:"text"`
	TextLower string `json:"-"` // Pre-computed: ToLower(Text)
	Label     int    `json:"label"`
}

// MappingCollision records two disease names sharing one label in the mapping file.
// The later entry (Kept) wins.
type MappingCollision struct {
	Label     int    `json:"label"`
	Discarded string `json:"discarded"`
	Kept      string `json:"kept"`
}
