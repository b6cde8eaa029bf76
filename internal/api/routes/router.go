package routes

import (
	"net/http"

	"github.com/zatekoja/strokescreening/internal/api/handlers"
	"github.com/zatekoja/strokescreening/internal/api/middleware"
	"github.com/zatekoja/strokescreening/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	diagnosisHandler *handlers.DiagnosisHandler
	mediaHandler     *handlers.MediaHandler
	playbackHandler  *handlers.PlaybackHandler
	hospitalHandler  *handlers.HospitalHandler
	eventsHandler    *handlers.EventsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	diagnosisHandler *handlers.DiagnosisHandler,
	mediaHandler *handlers.MediaHandler,
	playbackHandler *handlers.PlaybackHandler,
	hospitalHandler *handlers.HospitalHandler,
	eventsHandler *handlers.EventsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		diagnosisHandler: diagnosisHandler,
		mediaHandler:     mediaHandler,
		playbackHandler:  playbackHandler,
		hospitalHandler:  hospitalHandler,
		eventsHandler:    eventsHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Diagnosis session lifecycle
	r.mux.HandleFunc("POST /api/diagnosis/sessions", r.diagnosisHandler.StartSession)
	r.mux.HandleFunc("GET /api/diagnosis/sessions/{id}", r.diagnosisHandler.GetSession)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/capture", r.diagnosisHandler.BeginCapture)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/upload", r.diagnosisHandler.BeginUpload)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/questionnaire", r.diagnosisHandler.BeginQuestionnaire)
	r.mux.HandleFunc("PUT /api/diagnosis/sessions/{id}/orientation", r.diagnosisHandler.SubmitOrientation)
	r.mux.HandleFunc("PUT /api/diagnosis/sessions/{id}/extended/{questionId}", r.diagnosisHandler.AnswerExtended)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/questionnaire/complete", r.diagnosisHandler.CompleteQuestionnaire)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/submit", r.diagnosisHandler.Submit)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/retry", r.diagnosisHandler.Retry)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/abandon", r.diagnosisHandler.Abandon)

	// Extended question set
	r.mux.HandleFunc("GET /api/diagnosis/questions", r.diagnosisHandler.ListExtendedQuestions)

	// Device media staging
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/media/{kind}", r.mediaHandler.StageMedia)
	r.mux.HandleFunc("POST /api/diagnosis/sessions/{id}/media/{kind}/failure", r.mediaHandler.ReportCaptureFailure)

	// Instructional video playback positions
	if r.playbackHandler != nil {
		r.mux.HandleFunc("GET /api/playback/{key}", r.playbackHandler.GetPosition)
		r.mux.HandleFunc("PUT /api/playback/{key}", r.playbackHandler.SavePosition)
	}

	// Completed-diagnosis event stream
	if r.eventsHandler != nil {
		r.mux.HandleFunc("GET /api/diagnosis/events", r.eventsHandler.StreamDiagnosisEvents)
	}

	// Hospital directory
	if r.hospitalHandler != nil {
		r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
		r.mux.HandleFunc("GET /api/hospitals/{id}", r.hospitalHandler.GetHospital)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
