package diagnosis

import (
	"context"
	"sync/atomic"

	"github.com/giygas/symptoms-api/dataset/entities"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
	"github.com/giygas/symptoms-api/metrics"
	"github.com/giygas/symptoms-api/session"
)

// Path tells which branch of the pipeline produced a reply
type Path string

const (
	PathLabel   Path = "label"
	PathScore   Path = "score"
	PathNoMatch Path = "none"
)

// Reply is the answer to one chat message
type Reply struct {
	Text  string      `json:"response"`
	Path  Path        `json:"path"`
	Match MatchResult `json:"match"`
}

// Compile-time check to ensure Engine implements ChatService
var _ interfaces.ChatService = (*Engine)(nil)

// datasetIndex is derived from one dataset and rebuilt only when the dataset pointer changes
type datasetIndex struct {
	dataset    *entities.Dataset
	labels     *LabelMatcher
	treatments *TreatmentResolver
}

// Engine runs the diagnosis pipeline over the shared dataset and per-session history
type Engine struct {
	store       interfaces.DataStore
	accumulator *session.Accumulator
	idx         atomic.Pointer[datasetIndex]
}

// NewEngine creates an engine reading the dataset from store and session history from sessions
func NewEngine(store interfaces.DataStore, sessions interfaces.SessionStore) *Engine {
	return &Engine{
		store:       store,
		accumulator: session.NewAccumulator(sessions),
	}
}

func (e *Engine) index() *datasetIndex {
	ds := e.store.GetDataset()
	if cur := e.idx.Load(); cur != nil && cur.dataset == ds {
		return cur
	}

	next := &datasetIndex{
		dataset:    ds,
		labels:     NewLabelMatcher(ds.Labels, ds.LabelToDisease),
		treatments: NewTreatmentResolver(ds.Diseases),
	}
	e.idx.Store(next)
	return next
}

// Diagnose answers message within the session sessionID.
// A label hit answers immediately and leaves the session untouched; otherwise
// the message's symptoms are added to the session and all of them are scored.
func (e *Engine) Diagnose(ctx context.Context, sessionID, message string) (Reply, error) {
	idx := e.index()

	if disease, ok := idx.labels.Match(message); ok {
		treatment, hasTreatment := idx.treatments.Resolve(disease, true)
		reply := Reply{
			Text: FormatLabelMatch(disease, treatment, hasTreatment),
			Path: PathLabel,
			Match: MatchResult{
				Disease:      disease,
				Found:        true,
				Treatment:    treatment,
				HasTreatment: hasTreatment,
			},
		}
		e.record(reply)
		return reply, nil
	}

	symptoms, err := e.accumulator.Append(ctx, sessionID, ExtractSymptoms(message))
	if err != nil {
		return Reply{}, err
	}

	result := BestMatch(idx.dataset.Diseases, symptoms)
	metrics.DiagnosisScore.Observe(result.Score)

	reply := Reply{Text: FormatNoMatch(), Path: PathNoMatch, Match: result}
	if result.Found {
		reply.Text = FormatScoreMatch(result.Disease, result.Treatment)
		reply.Path = PathScore
	}

	logging.Debug("Scored session symptoms",
		"session_id", sessionID,
		"symptoms", len(symptoms),
		"disease", result.Disease,
		"score", result.Score)

	e.record(reply)
	return reply, nil
}

func (e *Engine) record(reply Reply) {
	metrics.DiagnosisOutcomes.WithLabelValues(string(reply.Path)).Inc()
}

// Reply implements interfaces.ChatService
func (e *Engine) Reply(ctx context.Context, sessionID, message string) (string, error) {
	reply, err := e.Diagnose(ctx, sessionID, message)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// ResetSession forgets the symptoms collected in the session
func (e *Engine) ResetSession(ctx context.Context, sessionID string) error {
	return e.accumulator.Clear(ctx, sessionID)
}
