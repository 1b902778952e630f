// Package health provides health checking functionality for the symptoms API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
)

const pingTimeout = 2 * time.Second

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	sessions  interfaces.SessionSweeper
	pinger    interfaces.SessionPinger
}

// NewHealthChecker creates a new health checker with injected dependencies.
// sessions may be nil when the session store cannot count its entries, and
// pinger is nil for stores that live in process.
func NewHealthChecker(dataStore interfaces.DataStore, sessions interfaces.SessionSweeper, pinger interfaces.SessionPinger) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore: dataStore,
		sessions:  sessions,
		pinger:    pinger,
	}
}

// HealthCheck returns the dataset summary used by the /health endpoint.
// Without diseases nothing can be scored and the service is unhealthy; without
// labels or mappings only the label shortcut is lost and it is degraded. An
// unreachable session store makes every chat fail, so it is unhealthy too.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	diseases := h.dataStore.GetDiseases()
	labels := h.dataStore.GetLabels()
	mapped := h.dataStore.GetLabelToDisease()
	loadedAt := h.dataStore.GetLoadedAt()
	uptime := time.Since(h.dataStore.GetServerStartTime())

	switch {
	case len(diseases) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case len(labels) == 0 || len(mapped) == 0:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"diseases":       len(diseases),
		"labels":         len(labels),
		"mapped_labels":  len(mapped),
		"uptime_seconds": math.Round(uptime.Seconds()),
	}

	if !loadedAt.IsZero() {
		data["loaded_at"] = loadedAt.Format(time.RFC3339)
	}

	if report := h.dataStore.GetQualityReport(); report != nil {
		data["data_quality"] = map[string]int{
			"duplicate_disease_names":      len(report.DuplicateDiseaseNames),
			"diseases_without_symptoms":    len(report.DiseasesWithoutSymptoms),
			"diseases_without_treatments":  len(report.DiseasesWithoutTreatments),
			"unmapped_labels":              len(report.UnmappedLabels),
			"duplicate_label_texts":        len(report.DuplicateLabelTexts),
			"mapping_collisions":           report.MappingCollisions,
			"mapped_diseases_not_in_table": len(report.MappedDiseasesNotInTable),
		}
	}

	if h.sessions != nil {
		data["sessions"] = h.sessions.Len()
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			data["session_store"] = "unreachable"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			data["session_store"] = "ok"
		}
	}

	return status, data, httpStatus
}
