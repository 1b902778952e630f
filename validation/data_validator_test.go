package validation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/giygas/symptoms-api/dataset/entities"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
)

func TestReportDatasetQuality(t *testing.T) {
	ds := &entities.Dataset{
		Diseases: []entities.DiseaseRecord{
			{Name: "flu", Symptoms: []string{"fever"}, Treatments: "rest"},
			{Name: "flu", Symptoms: []string{"cough"}, Treatments: "tea"},
			{Name: "ghost", Symptoms: []string{"", ""}, Treatments: " "},
			{Name: "migraine", Symptoms: []string{"headache"}, Treatments: "dark room"},
		},
		Labels: []entities.LabelEntry{
			{Text: "Hello", TextLower: "hello", Label: 1},
			{Text: "HELLO", TextLower: "hello", Label: 1},
			{Text: "bye", TextLower: "bye", Label: 7},
			{Text: "later", TextLower: "later", Label: 5},
		},
		LabelToDisease: map[int]string{1: "Flu", 2: "measles"},
		MappingCollisions: []entities.MappingCollision{
			{Label: 1, Discarded: "influenza", Kept: "Flu"},
		},
	}

	report := NewDataValidator().ReportDatasetQuality(ds)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"duplicate names", report.DuplicateDiseaseNames, []string{"flu"}},
		{"without symptoms", report.DiseasesWithoutSymptoms, []string{"ghost"}},
		{"without treatments", report.DiseasesWithoutTreatments, []string{"ghost"}},
		{"unmapped labels", report.UnmappedLabels, []int{5, 7}},
		{"duplicate texts", report.DuplicateLabelTexts, []string{"hello"}},
		{"collisions", report.MappingCollisions, 1},
		{"mapped not in table", report.MappedDiseasesNotInTable, []string{"measles"}},
	}

	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestReportDatasetQualityClean(t *testing.T) {
	ds := &entities.Dataset{
		Diseases:       []entities.DiseaseRecord{{Name: "flu", Symptoms: []string{"fever"}, Treatments: "rest"}},
		Labels:         []entities.LabelEntry{{Text: "x", TextLower: "x", Label: 0}},
		LabelToDisease: map[int]string{0: "flu"},
	}

	report := NewDataValidator().ReportDatasetQuality(ds)

	total := len(report.DuplicateDiseaseNames) + len(report.DiseasesWithoutSymptoms) +
		len(report.DiseasesWithoutTreatments) + len(report.UnmappedLabels) +
		len(report.DuplicateLabelTexts) + len(report.MappedDiseasesNotInTable) + report.MappingCollisions
	if total != 0 {
		t.Errorf("Expected a clean report, got %+v", report)
	}
}

func TestReportDatasetQualityNil(t *testing.T) {
	if report := NewDataValidator().ReportDatasetQuality(nil); report == nil {
		t.Fatal("Expected an empty report for a nil dataset")
	}
}

func TestLogReport(t *testing.T) {
	var out strings.Builder
	logging.InitTestLogger(&out)

	LogReport(nil)
	LogReport(&interfaces.DataQualityReport{
		UnmappedLabels:    []int{4},
		MappingCollisions: 2,
	})

	logs := out.String()
	for _, want := range []string{"Labels without a mapped disease", "Label mapping is not injective"} {
		if !strings.Contains(logs, want) {
			t.Errorf("Expected log to contain %q, got: %s", want, logs)
		}
	}
	if strings.Contains(logs, "Duplicate disease names") {
		t.Errorf("Unexpected warning for an empty category: %s", logs)
	}
}
