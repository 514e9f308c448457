// Package api is the request gateway to the exam-coaching service.
// This file defines the request and response shapes of its JSON API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Question is one answered question in a submitted mock test.
type Question struct {
	Subject       string  `json:"subject"`
	Topic         string  `json:"topic"`
	QuestionID    string  `json:"question_id"`
	StudentAnswer string  `json:"student_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	TimeTaken     float64 `json:"time_taken"` // seconds
}

// MockTest is the payload of POST /api/tests/submit.
type MockTest struct {
	StudentID int        `json:"student_id"`
	Questions []Question `json:"questions"`
}

// SubmitResult is the response to a test submission.
type SubmitResult struct {
	Message        string  `json:"message"`
	MockTestID     int     `json:"mock_test_id"`
	TotalQuestions int     `json:"total_questions"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"` // percent
}

// TopicScore is one ranked topic record.
type TopicScore struct {
	Subject       string  `json:"subject"`
	Topic         string  `json:"topic"`
	ErrorRate     float64 `json:"error_rate"` // 0..1
	AvgTime       float64 `json:"avg_time"`   // seconds
	MistakeFreq   int     `json:"mistake_freq"`
	WeaknessScore float64 `json:"weakness_score"` // nominally 0..1, not clamped by the service
	Rank          int     `json:"rank"`           // 1-based
}

// Analysis is the response of GET /api/analysis/{studentId}.
type Analysis struct {
	StudentID      int          `json:"student_id"`
	TotalQuestions int          `json:"total_questions"`
	TotalCorrect   int          `json:"total_correct"`
	Accuracy       float64      `json:"accuracy"`
	WeakTopics     []TopicScore `json:"weak_topics"`
	StrongTopics   []TopicScore `json:"strong_topics"`
}

// PlanDay is one day of a generated study plan. Every field but Day may be
// missing; renderers supply defaults.
type PlanDay struct {
	Day               Number   `json:"day"`
	DateLabel         string   `json:"date_label,omitempty"`
	Focus             string   `json:"focus"`
	DurationHours     Number   `json:"duration_hours"`
	PracticeQuestions Number   `json:"practice_questions"`
	RevisionBlocks    []string `json:"revision_blocks,omitempty"`
	Tip               string   `json:"tip,omitempty"`
}

// StudyPlan is an ordered list of days.
type StudyPlan struct {
	Days []PlanDay `json:"days"`
}

// UnmarshalJSON implements json.Unmarshaler. Plans are generated text;
// anything that is not an object with a days list decodes as an empty plan.
func (p *StudyPlan) UnmarshalJSON(data []byte) error {
	type plain StudyPlan
	var v plain
	if !isObject(data) || json.Unmarshal(data, &v) != nil {
		*p = StudyPlan{}
		return nil
	}
	*p = StudyPlan(v)
	return nil
}

// StudyPlanEnvelope wraps a plan with its owner and creation time.
type StudyPlanEnvelope struct {
	StudentID int       `json:"student_id"`
	CreatedAt Timestamp `json:"created_at"`
	Plan      StudyPlan `json:"plan"`
}

// Resource is an external study link attached to a recommendation.
type Resource struct {
	Type  string `json:"type"` // "youtube" | "article" | ...
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Recommendation is the study advice for one weak topic.
type Recommendation struct {
	Topic             string     `json:"topic"`
	Subject           string     `json:"subject"`
	WhyWeak           string     `json:"why_weak"`
	ConceptRevision   []string   `json:"concept_revision,omitempty"`
	PracticeExercises []string   `json:"practice_exercises,omitempty"`
	MockTests         []string   `json:"mock_tests,omitempty"`
	Resources         []Resource `json:"resources,omitempty"`
	ImprovementTip    string     `json:"improvement_tip"`
}

// RecommendationSet is the generated list of recommendations.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// UnmarshalJSON implements json.Unmarshaler. A payload that is not an
// object with a recommendations list decodes as an empty set.
func (r *RecommendationSet) UnmarshalJSON(data []byte) error {
	type plain RecommendationSet
	var v plain
	if !isObject(data) || json.Unmarshal(data, &v) != nil {
		*r = RecommendationSet{}
		return nil
	}
	*r = RecommendationSet(v)
	return nil
}

// RecommendationEnvelope wraps a recommendation set with its owner and creation time.
type RecommendationEnvelope struct {
	StudentID       int               `json:"student_id"`
	CreatedAt       Timestamp         `json:"created_at"`
	Recommendations RecommendationSet `json:"recommendations"`
}

// ProgressPoint summarises one submitted test.
type ProgressPoint struct {
	TestNumber     int       `json:"test_number"`
	SubmittedAt    Timestamp `json:"submitted_at"`
	Accuracy       float64   `json:"accuracy"`
	AvgTime        float64   `json:"avg_time"`
	TotalQuestions int       `json:"total_questions"`
}

// Progress is the response of GET /api/progress/{studentId}.
type Progress struct {
	StudentID   int             `json:"student_id"`
	History     []ProgressPoint `json:"history"`
	TopicScores []TopicScore    `json:"topic_scores"`
}

// Credentials is the payload of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload of POST /api/auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the response to login and registration.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	StudentID   int    `json:"student_id"`
}

// Timestamp accepts the service's ISO-8601 times, with or without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Number is a numeric field of generated content. It accepts JSON numbers,
// numeric strings and null; anything else decodes as zero.
type Number float64

// Int returns n rounded to the nearest integer.
func (n Number) Int() int { return int(math.Round(float64(n))) }

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = Number(f)
		}
	}
	return nil
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}
