package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"feedback/pkg/classifier"
	"feedback/pkg/models"
	"feedback/pkg/sentiment"
	"feedback/pkg/wordlist"
)

const testRequestID = "9b4f6c5d-1a32-4d8f-b5a6-23c9e1f7d2a1"

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

func newTestAPI(t *testing.T) *API {
	t.Helper()

	dataDir := filepath.Join("..", "..", "data")
	lists, err := wordlist.FileSource{
		Stopwords: filepath.Join(dataDir, "stopwords.txt"),
		Positive:  filepath.Join(dataDir, "positive.txt"),
		Negative:  filepath.Join(dataDir, "negative.txt"),
		Abusive:   filepath.Join(dataDir, "abusive.txt"),
		Safe:      filepath.Join(dataDir, "safe.txt"),
	}.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load word lists: %v", err)
	}

	c, err := classifier.New(lists)
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}

	api, err := New("feedback-test", c, nil)
	if err != nil {
		t.Fatalf("failed to create API: %v", err)
	}

	return api
}

func postFeedback(t *testing.T, api *API, target string, fb models.Feedback) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(fb)
	if err != nil {
		t.Fatalf("failed to marshal feedback: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("X-Request-Id", testRequestID)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	return rr
}

func TestAPI_checkFeedback(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name          string
		text          string
		wantClass     string
		wantSentiment string
	}{
		{"positive", "I love this, it is amazing", classifier.Clean, sentiment.Positive},
		{"negative", "terrible and slow", classifier.Clean, sentiment.Negative},
		{"abusive", "tu chutiya hai", classifier.Abusive, ""},
		{"obfuscated", "f**k", classifier.Abusive, ""},
		{"empty", "", classifier.Meaningless, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postFeedback(t, api, "/check_feedback", models.Feedback{Text: tt.text})
			if rr.Code != http.StatusOK {
				t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
			}

			var got models.Result
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if got.Classification != tt.wantClass {
				t.Errorf("want classification %q, got %q", tt.wantClass, got.Classification)
			}
			if got.Sentiment != tt.wantSentiment {
				t.Errorf("want sentiment %q, got %q", tt.wantSentiment, got.Sentiment)
			}
			if got.Tokens != nil || got.Details != nil {
				t.Errorf("want no debug fields, got %+v", got)
			}
			if h := rr.Header().Get(ClassificationHeader); h != tt.wantClass {
				t.Errorf("want %s header %q, got %q", ClassificationHeader, tt.wantClass, h)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("want Content-Type application/json, got %q", ct)
			}
			if id := rr.Header().Get("X-Request-Id"); id != testRequestID {
				t.Errorf("want X-Request-Id %q, got %q", testRequestID, id)
			}
		})
	}
}

func TestAPI_checkFeedbackDebug(t *testing.T) {
	api := newTestAPI(t)

	for _, rr := range []*httptest.ResponseRecorder{
		postFeedback(t, api, "/check_feedback", models.Feedback{Text: "I love this", Debug: true}),
		postFeedback(t, api, "/check_feedback?debug=true", models.Feedback{Text: "I love this"}),
	} {
		var got models.Result
		if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(got.Tokens) != 1 || got.Tokens[0] != "love" {
			t.Errorf("want tokens [love], got %v", got.Tokens)
		}
		if got.Details == nil || !got.Details.Tokens[0].ExactPositive {
			t.Errorf("want exact positive detail, got %+v", got.Details)
		}
	}
}

func TestAPI_checkFeedbackBadRequest(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/check_feedback", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("want status code %v, got status code %v", http.StatusBadRequest, rr.Code)
	}
}

func TestAPI_checkFeedbackMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/check_feedback", nil)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("want status code %v, got status code %v", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestAPI_healthz(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("want status ok, got %v", body)
	}
}

func TestAPI_metrics(t *testing.T) {
	api := newTestAPI(t)
	postFeedback(t, api, "/check_feedback", models.Feedback{Text: "amazing"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	b, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	want := `feedback_classifications_total{classification="Clean",sentiment="Positive",service="feedback-test"} 1`
	if !strings.Contains(string(b), want) {
		t.Errorf("want metrics to contain %q, got:\n%s", want, b)
	}
	if !strings.Contains(string(b), `path="/check_feedback"`) {
		t.Errorf("want request duration labelled with the route path, got:\n%s", b)
	}
}

func Test_shorten(t *testing.T) {
	if got := shorten(testRequestID); got != "9b4f6c..." {
		t.Errorf("want 9b4f6c..., got %s", got)
	}
	if got := shorten("abc"); got != "abc" {
		t.Errorf("want abc, got %s", got)
	}
}
