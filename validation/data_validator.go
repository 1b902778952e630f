// Package validation reports integrity issues in the symptoms dataset.
package validation

import (
	"sort"
	"strings"

	"github.com/giygas/symptoms-api/dataset/entities"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ReportDatasetQuality collects every integrity issue of ds. Lists are sorted
// so that reports are stable between runs.
func (v *DataValidatorImpl) ReportDatasetQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}
	if ds == nil {
		return report
	}

	names := make(map[string]int, len(ds.Diseases))
	for _, d := range ds.Diseases {
		names[d.Name]++
		if names[d.Name] == 2 {
			report.DuplicateDiseaseNames = append(report.DuplicateDiseaseNames, d.Name)
		}
		if !hasSymptom(d.Symptoms) {
			report.DiseasesWithoutSymptoms = append(report.DiseasesWithoutSymptoms, d.Name)
		}
		if strings.TrimSpace(d.Treatments) == "" {
			report.DiseasesWithoutTreatments = append(report.DiseasesWithoutTreatments, d.Name)
		}
	}

	seenTexts := make(map[string]int, len(ds.Labels))
	unmapped := make(map[int]struct{})
	for _, l := range ds.Labels {
		seenTexts[l.TextLower]++
		if seenTexts[l.TextLower] == 2 {
			report.DuplicateLabelTexts = append(report.DuplicateLabelTexts, l.TextLower)
		}
		if _, ok := ds.LabelToDisease[l.Label]; !ok {
			unmapped[l.Label] = struct{}{}
		}
	}
	for label := range unmapped {
		report.UnmappedLabels = append(report.UnmappedLabels, label)
	}

	for _, name := range ds.LabelToDisease {
		if _, ok := names[strings.ToLower(name)]; !ok {
			report.MappedDiseasesNotInTable = append(report.MappedDiseasesNotInTable, name)
		}
	}

	report.MappingCollisions = len(ds.MappingCollisions)

	sort.Strings(report.DuplicateDiseaseNames)
	sort.Strings(report.DiseasesWithoutSymptoms)
	sort.Strings(report.DiseasesWithoutTreatments)
	sort.Ints(report.UnmappedLabels)
	sort.Strings(report.DuplicateLabelTexts)
	sort.Strings(report.MappedDiseasesNotInTable)

	return report
}

// LogReport writes one warning per non-empty category of the report
func LogReport(report *interfaces.DataQualityReport) {
	if report == nil {
		return
	}

	if len(report.DuplicateDiseaseNames) > 0 {
		logging.Warn("Duplicate disease names, only the first row is used for treatments",
			"total", len(report.DuplicateDiseaseNames), "names", report.DuplicateDiseaseNames)
	}
	if len(report.DiseasesWithoutSymptoms) > 0 {
		logging.Warn("Diseases without symptoms can never be matched by score",
			"total", len(report.DiseasesWithoutSymptoms), "names", report.DiseasesWithoutSymptoms)
	}
	if len(report.DiseasesWithoutTreatments) > 0 {
		logging.Warn("Diseases without treatments",
			"total", len(report.DiseasesWithoutTreatments), "names", report.DiseasesWithoutTreatments)
	}
	if len(report.UnmappedLabels) > 0 {
		logging.Warn("Labels without a mapped disease",
			"total", len(report.UnmappedLabels), "labels", report.UnmappedLabels)
	}
	if len(report.DuplicateLabelTexts) > 0 {
		logging.Warn("Duplicate label texts, only the first row is matched",
			"total", len(report.DuplicateLabelTexts), "texts", report.DuplicateLabelTexts)
	}
	if report.MappingCollisions > 0 {
		logging.Warn("Label mapping is not injective", "collisions", report.MappingCollisions)
	}
	if len(report.MappedDiseasesNotInTable) > 0 {
		logging.Warn("Mapped diseases missing from the disease table",
			"total", len(report.MappedDiseasesNotInTable), "names", report.MappedDiseasesNotInTable)
	}
}

func hasSymptom(symptoms []string) bool {
	for _, s := range symptoms {
		if s != "" {
			return true
		}
	}
	return false
}
