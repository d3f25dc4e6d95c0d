package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/h2non/gock"

	"feedback/pkg/models"
)

const testURL = "http://feedback.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	t.Cleanup(gock.Off)

	hc := &http.Client{}
	gock.InterceptClient(hc)
	t.Cleanup(func() { gock.RestoreClient(hc) })

	return New(testURL, WithHTTPClient(hc))
}

func TestClient_Check(t *testing.T) {
	c := newTestClient(t)

	gock.New(testURL).
		Post("/check_feedback").
		MatchHeader("Content-Type", "application/json").
		HeaderPresent("X-Request-Id").
		JSON(map[string]any{"text": "I love this", "debug": true}).
		Reply(http.StatusOK).
		JSON(map[string]any{
			"classification": "Clean",
			"sentiment":      "Positive",
			"tokens":         []string{"love"},
		})

	got, err := c.Check(context.Background(), "I love this", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Classification != "Clean" || got.Sentiment != "Positive" {
		t.Errorf("want Clean/Positive, got %s/%s", got.Classification, got.Sentiment)
	}
	if len(got.Tokens) != 1 || got.Tokens[0] != "love" {
		t.Errorf("want tokens [love], got %v", got.Tokens)
	}
	if !gock.IsDone() {
		t.Error("want all mocks to be consumed")
	}
}

func TestClient_CheckUnexpectedStatus(t *testing.T) {
	c := newTestClient(t)

	gock.New(testURL).
		Post("/check_feedback").
		Reply(http.StatusBadRequest).
		BodyString("bad request")

	_, err := c.Check(context.Background(), "text", false)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("want ErrUnexpectedStatus, got %v", err)
	}
}

func TestClient_CheckInvalidJSON(t *testing.T) {
	c := newTestClient(t)

	gock.New(testURL).
		Post("/check_feedback").
		Reply(http.StatusOK).
		BodyString("{")

	if _, err := c.Check(context.Background(), "text", false); err == nil {
		t.Error("want decode error for invalid JSON")
	}
}

func TestClient_CheckNetworkError(t *testing.T) {
	c := newTestClient(t)

	gock.New(testURL).
		Post("/check_feedback").
		ReplyError(errors.New("connection refused"))

	if _, err := c.Check(context.Background(), "text", false); err == nil {
		t.Error("want transport error")
	}
}

func TestClient_CheckMeaningless(t *testing.T) {
	c := newTestClient(t)

	gock.New(testURL).
		Post("/check_feedback").
		Reply(http.StatusOK).
		JSON(models.Result{Classification: "Please give meaningful feedback"})

	got, err := c.Check(context.Background(), "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sentiment != "" {
		t.Errorf("want empty sentiment, got %q", got.Sentiment)
	}
}
