package models

import "feedback/pkg/sentiment"

// Feedback is the body accepted by the check endpoint.
type Feedback struct {
	Text  string `json:"text"`
	Debug bool   `json:"debug,omitempty"`
}

// Reason names the detector that flagged a text as abusive.
type Reason struct {
	Detector string `json:"detector"`
	Token    string `json:"token"`
	Match    string `json:"match,omitempty"`
}

type Result struct {
	Classification string              `json:"classification"`
	Sentiment      string              `json:"sentiment"`
	Tokens         []string            `json:"tokens,omitempty"`
	Details        *sentiment.Analysis `json:"details,omitempty"`
	Reason         *Reason             `json:"reason,omitempty"`
}
