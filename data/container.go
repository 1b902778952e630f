// Package data holds the process-wide reference dataset of the symptoms API.
// The dataset is published once at startup through atomic values and is
// read-only afterwards, so readers never need a lock.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/symptoms-api/dataset/entities"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the loaded dataset and its quality report
type DataContainer struct {
	dataset         atomic.Pointer[entities.Dataset]
	report          atomic.Pointer[interfaces.DataQualityReport]
	loadedAt        atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container holding an empty dataset
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.dataset.Store(entities.Empty())
	dc.report.Store(&interfaces.DataQualityReport{})
	dc.loadedAt.Store(time.Time{})
	dc.serverStartTime.Store(time.Now())
	return dc
}

// GetDataset returns the whole dataset; callers must not modify it
func (dc *DataContainer) GetDataset() *entities.Dataset {
	if ds := dc.dataset.Load(); ds != nil {
		return ds
	}

	logging.Warn("Dataset is empty or invalid")
	return entities.Empty()
}

// GetDiseases returns the disease table in load order
func (dc *DataContainer) GetDiseases() []entities.DiseaseRecord {
	return dc.GetDataset().Diseases
}

// GetLabels returns the text-label table in load order
func (dc *DataContainer) GetLabels() []entities.LabelEntry {
	return dc.GetDataset().Labels
}

// GetLabelToDisease returns the inverted label mapping
func (dc *DataContainer) GetLabelToDisease() map[int]string {
	return dc.GetDataset().LabelToDisease
}

// GetQualityReport returns the report computed when the dataset was loaded
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	if r := dc.report.Load(); r != nil {
		return r
	}
	return &interfaces.DataQualityReport{}
}

// GetLoadedAt returns when the dataset was published, zero if never
func (dc *DataContainer) GetLoadedAt() time.Time {
	if v, ok := dc.loadedAt.Load().(time.Time); ok {
		return v
	}

	logging.Warn("Could not get the loaded at value")
	return time.Time{}
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v, ok := dc.serverStartTime.Load().(time.Time); ok {
		return v
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// SetServerStartTime overrides the start time recorded at construction
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// SetDataset publishes the dataset. It is called once, before the server
// starts accepting requests.
func (dc *DataContainer) SetDataset(ds *entities.Dataset, report *interfaces.DataQualityReport) {
	if ds == nil {
		ds = entities.Empty()
	}
	if ds.LabelToDisease == nil {
		ds.LabelToDisease = map[int]string{}
	}
	if report == nil {
		report = &interfaces.DataQualityReport{}
	}

	dc.dataset.Store(ds)
	dc.report.Store(report)
	dc.loadedAt.Store(time.Now())
}
