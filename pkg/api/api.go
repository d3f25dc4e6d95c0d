package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"feedback/pkg/models"
)

// ClassificationHeader carries the verdict so middlewares can see it.
const ClassificationHeader = "X-Feedback-Classification"

// Classifier is the part of classifier.Classifier the API depends on.
type Classifier interface {
	Classify(text string, debug bool) models.Result
}

type API struct {
	ServiceName string

	r       *mux.Router
	c       Classifier
	kw      *kafka.Writer
	metrics *metrics
}

func New(name string, c Classifier, kafkaWriter *kafka.Writer) (*API, error) {
	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		c:           c,
		kw:          kafkaWriter,
		metrics:     newMetrics(name),
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)
	api.r.Use(api.metricsMiddleware)

	api.r.HandleFunc("/check_feedback", api.checkFeedback).Methods(http.MethodPost)
	api.r.HandleFunc("/healthz", api.healthz).Methods(http.MethodGet)
	api.r.Handle("/metrics", promhttp.HandlerFor(api.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}
}

func (api *API) checkFeedback(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var fb models.Feedback
	err := json.NewDecoder(r.Body).Decode(&fb)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[checkFeedback][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	debug := fb.Debug
	if q := r.URL.Query().Get("debug"); q != "" {
		if d, err := strconv.ParseBool(q); err == nil {
			debug = debug || d
		}
	}

	res := api.c.Classify(fb.Text, debug)
	api.metrics.classifications.WithLabelValues(res.Classification, res.Sentiment).Inc()
	log.Debugf("[checkFeedback][%s] classification:%q sentiment:%q", sID, res.Classification, res.Sentiment)

	w.Header().Set(ClassificationHeader, res.Classification)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Errorf("[checkFeedback][%s] error encoding response: %v", sID, err)
	}
}

func (api *API) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
