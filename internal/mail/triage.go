package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mohsen-qasemi/herald/provider"
)

// Triage labels.
const (
	LabelMeaningful = "meaningful"
	LabelSpam       = "spam"
	LabelUncertain  = "uncertain"
)

// Verdict is the triage outcome for one message.
type Verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// FastpathLabel classifies a message from provider labels alone, skipping
// the oracle for obvious cases. Promotions, social and forum mail is
// treated as spam; anything else needs the oracle.
func FastpathLabel(labelIDs []string) (string, bool) {
	for _, id := range labelIDs {
		switch id {
		case "CATEGORY_PROMOTIONS", "CATEGORY_SOCIAL", "CATEGORY_FORUMS":
			return LabelSpam, true
		}
	}
	return "", false
}

const triagePromptTemplate = `Classify this email for an inbox assistant.

Return ONLY valid JSON with keys:
- label: one of ["meaningful","spam","uncertain"]
- confidence: number from 0.0 to 1.0
- reason: short string

Heuristics:
- "spam" for obvious marketing, promos, low-value notifications, scams, affiliate, etc.
- "meaningful" for personal, work, bills, account security, direct requests, things requiring action.
- "uncertain" if not sure.

Email:
From: %s
Subject: %s
Snippet: %s
`

// Triage classifies a message with the oracle. Unparsable or off-schema
// output falls back to uncertain; that keeps triage safe against oracle
// drift without surfacing errors per message.
func Triage(ctx context.Context, oracle provider.Provider, from, subject, snippet string) Verdict {
	uncertain := Verdict{Label: LabelUncertain, Confidence: 0, Reason: "failed_to_parse"}

	raw, err := oracle.Complete(ctx, fmt.Sprintf(triagePromptTemplate, from, subject, snippet), 0.2)
	if err != nil {
		return uncertain
	}

	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return uncertain
	}
	switch v.Label {
	case LabelMeaningful, LabelSpam, LabelUncertain:
		return v
	default:
		return uncertain
	}
}
