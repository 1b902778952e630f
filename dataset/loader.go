// Package dataset reads the disease, text-label and label-mapping files that
// make up the reference data of the symptoms API.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/symptoms-api/dataset/entities"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrMissingColumn is returned when a table lacks a required header
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformedMapping is returned when the mapping file is not an object of integer labels
	ErrMalformedMapping = errors.New("malformed label mapping")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Compile-time check to ensure FileLoader implements DatasetLoader
var _ interfaces.DatasetLoader = (*FileLoader)(nil)

// FileLoader loads the dataset from three files on disk
type FileLoader struct {
	DiseasesPath string
	LabelsPath   string
	MappingPath  string
}

// NewFileLoader creates a loader for the given file paths
func NewFileLoader(diseasesPath, labelsPath, mappingPath string) *FileLoader {
	return &FileLoader{
		DiseasesPath: diseasesPath,
		LabelsPath:   labelsPath,
		MappingPath:  mappingPath,
	}
}

// Load reads and parses all three files. Any error means the dataset is unusable.
func (l *FileLoader) Load() (*entities.Dataset, error) {
	start := time.Now()

	diseases, err := parseFile(l.DiseasesPath, ParseDiseases)
	if err != nil {
		return nil, err
	}

	labels, err := parseFile(l.LabelsPath, ParseLabels)
	if err != nil {
		return nil, err
	}

	mapping, err := parseFile(l.MappingPath, ParseMapping)
	if err != nil {
		return nil, err
	}

	labelToDisease, collisions := InvertMapping(mapping)
	for _, c := range collisions {
		logging.Warn("Label mapped to more than one disease, keeping the last entry",
			"label", c.Label, "discarded", c.Discarded, "kept", c.Kept)
	}

	logging.Info("Dataset loaded",
		"diseases", len(diseases),
		"labels", len(labels),
		"mapped_labels", len(labelToDisease),
		"duration", time.Since(start).String())

	return &entities.Dataset{
		Diseases:          diseases,
		Labels:            labels,
		LabelToDisease:    labelToDisease,
		MappingCollisions: collisions,
	}, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	content, err := readDecoded(path)
	if err != nil {
		return zero, err
	}

	v, err := parse(bytes.NewReader(content))
	if err != nil {
		return zero, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, nil
}

// readDecoded returns the file content as UTF-8.
// Files exported from spreadsheets are sometimes Latin-1; those are converted.
func readDecoded(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}

	logging.Debug("File is not valid UTF-8, decoding as ISO-8859-1", "path", path)
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return decoded, nil
}

// readTable reads a CSV with a header row and returns the index of each wanted column
func readTable(r io.Reader, columns ...string) (map[string]int, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file, expected header %v", ErrMissingColumn, columns)
	}

	header := records[0]
	index := make(map[string]int, len(columns))
	for _, want := range columns {
		found := -1
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, nil, fmt.Errorf("%w %q", ErrMissingColumn, want)
		}
		index[want] = found
	}

	return index, records[1:], nil
}

// ParseDiseases reads the disease table (Name, Symptoms, Treatments).
// Name and symptoms are lowercased; symptoms are split on commas and trimmed.
func ParseDiseases(r io.Reader) ([]entities.DiseaseRecord, error) {
	index, rows, err := readTable(r, "Name", "Symptoms", "Treatments")
	if err != nil {
		return nil, err
	}

	diseases := make([]entities.DiseaseRecord, 0, len(rows))
	for _, row := range rows {
		diseases = append(diseases, entities.DiseaseRecord{
			Name:       strings.ToLower(row[index["Name"]]),
			Symptoms:   SplitSymptoms(row[index["Symptoms"]]),
			Treatments: row[index["Treatments"]],
		})
	}

	return diseases, nil
}

// SplitSymptoms turns a comma-separated symptom cell into lowercase, trimmed
// entries, keeping their order. Blank entries are kept: they still count in
// the disease's symptom total but can never be matched.
func SplitSymptoms(cell string) []string {
	parts := strings.Split(strings.ToLower(cell), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ParseLabels reads the text-label table (text, label)
func ParseLabels(r io.Reader) ([]entities.LabelEntry, error) {
	index, rows, err := readTable(r, "text", "label")
	if err != nil {
		return nil, err
	}

	labels := make([]entities.LabelEntry, 0, len(rows))
	for i, row := range rows {
		label, err := parseLabel(row[index["label"]])
		if err != nil {
			// +2: one for the header, one because rows are 1-based
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		text := row[index["text"]]
		labels = append(labels, entities.LabelEntry{
			Text:      text,
			TextLower: strings.ToLower(text),
			Label:     label,
		})
	}

	return labels, nil
}

// parseLabel accepts integers and integral floats such as "3.0"
func parseLabel(value string) (int, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid label %q", value)
	}
	return int(f), nil
}

// NamedLabel is one entry of the disease-name to label mapping, in file order
type NamedLabel struct {
	Name  string
	Label int
}

// ParseMapping reads a JSON object mapping disease names to integer labels.
// Entries are returned in file order so that the inversion is deterministic.
func ParseMapping(r io.Reader) ([]NamedLabel, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedMapping)
	}

	var entries []NamedLabel
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
		}
		name, _ := keyTok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrMalformedMapping, name, err)
		}

		label, err := parseLabel(num.String())
		if err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrMalformedMapping, name, err)
		}

		entries = append(entries, NamedLabel{Name: name, Label: label})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}

	return entries, nil
}

// InvertMapping builds label -> disease name. When several names share a label
// the last one in file order wins and the overwritten name is reported.
// A name repeated in the object keeps its first position and its last label.
func InvertMapping(entries []NamedLabel) (map[int]string, []entities.MappingCollision) {
	position := make(map[string]int, len(entries))
	unique := make([]NamedLabel, 0, len(entries))
	for _, e := range entries {
		if i, ok := position[e.Name]; ok {
			unique[i].Label = e.Label
			continue
		}
		position[e.Name] = len(unique)
		unique = append(unique, e)
	}

	inverted := make(map[int]string, len(unique))
	var collisions []entities.MappingCollision

	for _, e := range unique {
		if prev, ok := inverted[e.Label]; ok && prev != e.Name {
			collisions = append(collisions, entities.MappingCollision{
				Label:     e.Label,
				Discarded: prev,
				Kept:      e.Name,
			})
		}
		inverted[e.Label] = e.Name
	}

	return inverted, collisions
}
