package models

import "time"

// Persona identifiers. The persona gates which analytics features a user may
// call: portfolio analysis and rebalancing belong to the Rebalance persona.
const (
	PersonaStarter   = "A" // low risk, wants simple index funds
	PersonaRebalance = "B" // has a portfolio, wants analysis and rebalancing
	PersonaMoonshot  = "C" // high risk, wants growth ideas and research
)

// AnswerOption is one selectable answer with its risk weight.
type AnswerOption struct {
	Value     string `json:"value"`
	Text      string `json:"text"`
	RiskScore int    `json:"-"`
}

// Question is a single onboarding questionnaire entry.
type Question struct {
	ID       int            `json:"id"`
	Question string         `json:"question"`
	Options  []AnswerOption `json:"options"`
}

// Answer is a user's response to one question.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// PersonaResult is the classification outcome for a questionnaire submission.
type PersonaResult struct {
	Persona    string  `json:"persona"`
	RiskScore  int     `json:"risk_score"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// UserProfile is the stored per-user record: identity plus the most recent
// persona classification.
type UserProfile struct {
	UserID     string    `json:"user_id" badgerhold:"key"`
	Persona    string    `json:"persona"`
	RiskScore  int       `json:"risk_score"`
	Confidence float64   `json:"confidence"`
	Reasoning  string    `json:"reasoning"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
