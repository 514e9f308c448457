package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Endpoint paths.
const (
	PathSubmitTest = "/api/tests/submit"
	PathLogin      = "/api/auth/login"
	PathRegister   = "/api/auth/register"
)

// AnalysisPath returns the analysis endpoint for a student.
func AnalysisPath(studentID int) string { return fmt.Sprintf("/api/analysis/%d", studentID) }

// StudyPlanPath returns the plan generation endpoint for a student.
func StudyPlanPath(studentID int) string { return fmt.Sprintf("/api/study-plan/%d", studentID) }

// RecommendationsPath returns the recommendation generation endpoint for a student.
func RecommendationsPath(studentID int) string {
	return fmt.Sprintf("/api/recommendations/%d", studentID)
}

// ProgressPath returns the progress endpoint for a student.
func ProgressPath(studentID int) string { return fmt.Sprintf("/api/progress/%d", studentID) }

// Payload validation errors. These are reported before any request is made.
var (
	ErrEmptyPayload   = errors.New("Please paste or load JSON first.")
	ErrInvalidPayload = errors.New("Invalid JSON — please check the format.")
	ErrNoQuestions    = errors.New("The test contains no questions.")
)

// DecodeMockTest parses a pasted test payload and stamps it with studentID,
// overriding whatever id the payload carried.
func DecodeMockTest(raw []byte, studentID int) (*MockTest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}
	var test MockTest
	if err := json.Unmarshal(raw, &test); err != nil {
		return nil, ErrInvalidPayload
	}
	if len(test.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	test.StudentID = studentID
	return &test, nil
}

// SubmitTest posts a mock test for scoring.
func (c *Client) SubmitTest(ctx context.Context, test *MockTest) (*SubmitResult, error) {
	var out SubmitResult
	if err := c.Call(ctx, http.MethodPost, PathSubmitTest, test, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analysis fetches the weak/strong topic analysis for a student.
func (c *Client) Analysis(ctx context.Context, studentID int) (*Analysis, error) {
	var out Analysis
	if err := c.Call(ctx, http.MethodGet, AnalysisPath(studentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GeneratePlan asks the service for a fresh study plan.
func (c *Client) GeneratePlan(ctx context.Context, studentID int) (*StudyPlanEnvelope, error) {
	var out StudyPlanEnvelope
	if err := c.Call(ctx, http.MethodPost, StudyPlanPath(studentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestPlan fetches the most recently generated study plan.
func (c *Client) LatestPlan(ctx context.Context, studentID int) (*StudyPlanEnvelope, error) {
	var out StudyPlanEnvelope
	if err := c.Call(ctx, http.MethodGet, StudyPlanPath(studentID)+"/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateRecommendations asks the service for fresh recommendations.
func (c *Client) GenerateRecommendations(ctx context.Context, studentID int) (*RecommendationEnvelope, error) {
	var out RecommendationEnvelope
	if err := c.Call(ctx, http.MethodPost, RecommendationsPath(studentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestRecommendations fetches the most recent recommendation set.
func (c *Client) LatestRecommendations(ctx context.Context, studentID int) (*RecommendationEnvelope, error) {
	var out RecommendationEnvelope
	if err := c.Call(ctx, http.MethodGet, RecommendationsPath(studentID)+"/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress fetches the per-test history and topic scores.
func (c *Client) Progress(ctx context.Context, studentID int) (*Progress, error) {
	var out Progress
	if err := c.Call(ctx, http.MethodGet, ProgressPath(studentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	var out Token
	if err := c.Call(ctx, http.MethodPost, PathLogin, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, reg Registration) (*Token, error) {
	var out Token
	if err := c.Call(ctx, http.MethodPost, PathRegister, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisplayName derives the name shown for a logged-in user: the local part
// of the e-mail address.
func DisplayName(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
