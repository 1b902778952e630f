// Package interfaces defines core abstractions for the symptoms API
// to improve testability and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/symptoms-api/dataset/entities"
)

// DataQualityReport summarizes integrity issues in the loaded dataset.
// None of them prevent the server from starting.
type DataQualityReport struct {
	DuplicateDiseaseNames     []string
	DiseasesWithoutSymptoms   []string
	DiseasesWithoutTreatments []string
	UnmappedLabels            []int    // Labels used in the label table but absent from the mapping
	DuplicateLabelTexts       []string // Case-insensitive duplicates; only the first row is ever matched
	MappingCollisions         int
	MappedDiseasesNotInTable  []string // Diagnoses the label path can return without a treatment
}

// SessionState is the server-side state of one chat session
type SessionState struct {
	CollectedSymptoms []string `json:"collected_symptoms"`
}

// DataStore provides read access to the dataset loaded at startup.
// The dataset is published once and never mutated afterwards.
type DataStore interface {
	GetDataset() *entities.Dataset
	GetDiseases() []entities.DiseaseRecord
	GetLabels() []entities.LabelEntry
	GetLabelToDisease() map[int]string
	GetQualityReport() *DataQualityReport
	GetLoadedAt() time.Time
	GetServerStartTime() time.Time

	SetDataset(ds *entities.Dataset, report *DataQualityReport)
}

// DatasetLoader reads the reference data from its source
type DatasetLoader interface {
	Load() (*entities.Dataset, error)
}

// SessionStore persists session state keyed by an opaque session ID.
// Loading an unknown ID returns an empty state, not an error.
type SessionStore interface {
	Load(ctx context.Context, id string) (SessionState, error)
	Save(ctx context.Context, id string, state SessionState) error
	Delete(ctx context.Context, id string) error
}

// SessionSweeper is implemented by stores that expire sessions themselves
type SessionSweeper interface {
	Sweep(now time.Time) int
	Len() int
}

// SessionPinger is implemented by stores backed by a remote server
type SessionPinger interface {
	Ping(ctx context.Context) error
}

// ChatService answers chat messages within a session
type ChatService interface {
	Reply(ctx context.Context, sessionID, message string) (string, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// Scheduler manages background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the HTTP endpoints of the API
type HTTPHandler interface {
	Home(w http.ResponseWriter, r *http.Request)
	Chat(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports system health
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// DataValidator checks dataset integrity
type DataValidator interface {
	ReportDatasetQuality(ds *entities.Dataset) *DataQualityReport
}
