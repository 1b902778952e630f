package entities

// Dataset is the full reference data loaded at startup
type Dataset struct {
	Diseases          []DiseaseRecord    `json:"diseases"`
	Labels            []LabelEntry       `json:"labels"`
	LabelToDisease    map[int]string     `json:"labelToDisease"`
	MappingCollisions []MappingCollision `json:"mappingCollisions"`
}

// Empty returns a dataset with no rows and a non-nil label map
func Empty() *Dataset {
	return &Dataset{
		Diseases:       []DiseaseRecord{},
		Labels:         []LabelEntry{},
		LabelToDisease: map[int]string{},
	}
}
