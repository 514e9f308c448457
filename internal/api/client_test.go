package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/api/apitest"
)

func TestCall_ErrorNormalisation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", http.StatusNotFound, `{"detail":"not found"}`, "not found"},
		{"no body", http.StatusNotFound, "", "Not Found"},
		{"detail list", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","questions"],"msg":"field required"},{"loc":["body"],"msg":"bad value"}]}`,
			"field required; bad value"},
		{"non-json body", http.StatusInternalServerError, "boom", "Internal Server Error"},
		{"empty detail", http.StatusBadRequest, `{"detail":""}`, "API error"},
		{"unknown status", 599, "", "API error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			srv.Fail(http.MethodGet, api.AnalysisPath(1), tt.status, tt.body)

			_, err := srv.Client().Analysis(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := api.Message(err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
			var gwErr *api.Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("error type = %T, want *api.Error", err)
			}
			if gwErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", gwErr.Status, tt.status)
			}
		})
	}
}

func TestCall_Headers(t *testing.T) {
	srv := apitest.NewServer(t)
	client := srv.Client(api.WithToken("secret"))

	if _, err := client.Progress(context.Background(), 3); err != nil {
		t.Fatalf("Progress() error = %v", err)
	}

	reqs := srv.Recorded()
	if len(reqs) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(reqs))
	}
	r := reqs[0]
	if r.Method != http.MethodGet || r.Path != "/api/progress/3" {
		t.Errorf("request = %s %s, want GET /api/progress/3", r.Method, r.Path)
	}
	if r.ContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", r.ContentType)
	}
	if r.Authorization != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", r.Authorization, "Bearer secret")
	}
	if r.RequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestCall_NoTokenNoAuthorization(t *testing.T) {
	srv := apitest.NewServer(t)
	if _, err := srv.Client().Analysis(context.Background(), 1); err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if got := srv.Recorded()[0].Authorization; got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestCall_TransportError(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err := api.NewClient(url).Analysis(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if msg := api.Message(err); !strings.HasPrefix(msg, "network error: ") {
		t.Errorf("Message() = %q, want prefix %q", msg, "network error: ")
	}
}

func TestCall_Cancelled(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.Client().Analysis(ctx, 1)
	if got := api.Message(err); got != "request cancelled" {
		t.Errorf("Message() = %q, want %q", got, "request cancelled")
	}
}

func TestCall_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	_, err := api.NewClient(slow.URL, api.WithTimeout(20*time.Millisecond)).Analysis(context.Background(), 1)
	if got := api.Message(err); got != "request timed out" {
		t.Errorf("Message() = %q, want %q", got, "request timed out")
	}
}

func TestCall_UndecodableBody(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer bad.Close()

	_, err := api.NewClient(bad.URL).Analysis(context.Background(), 1)
	if got := api.Message(err); got != "invalid response from server" {
		t.Errorf("Message() = %q, want %q", got, "invalid response from server")
	}
}

func TestSubmitTest(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.NextTestID = 7

	test := &api.MockTest{
		StudentID: 1,
		Questions: []api.Question{
			{Subject: "Physics", Topic: "Optics", QuestionID: "Q1", StudentAnswer: "A", CorrectAnswer: "a", TimeTaken: 30},
			{Subject: "Physics", Topic: "Optics", QuestionID: "Q2", StudentAnswer: "B", CorrectAnswer: "C", TimeTaken: 45},
		},
	}
	res, err := srv.Client().SubmitTest(context.Background(), test)
	if err != nil {
		t.Fatalf("SubmitTest() error = %v", err)
	}
	if res.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", res.TotalQuestions)
	}
	if res.Correct != 1 {
		t.Errorf("Correct = %d, want 1", res.Correct)
	}
	if res.Accuracy != 50 {
		t.Errorf("Accuracy = %v, want 50", res.Accuracy)
	}
	if res.MockTestID != 7 {
		t.Errorf("MockTestID = %d, want 7", res.MockTestID)
	}

	var sent api.MockTest
	if err := json.Unmarshal(srv.Recorded()[0].Body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if len(sent.Questions) != 2 || sent.StudentID != 1 {
		t.Errorf("sent body = %+v, want 2 questions for student 1", sent)
	}
}

func TestLoginAndRegister(t *testing.T) {
	srv := apitest.NewServer(t)
	client := srv.Client()
	ctx := context.Background()

	_, err := client.Login(ctx, api.Credentials{Email: "a@b.c", Password: "pw"})
	if got := api.Message(err); got != "Incorrect email or password" {
		t.Errorf("Login() message = %q, want %q", got, "Incorrect email or password")
	}

	tok, err := client.Register(ctx, api.Registration{Name: "A", Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Errorf("token = %+v, want bearer token", tok)
	}

	_, err = client.Register(ctx, api.Registration{Name: "A", Email: "a@b.c", Password: "pw"})
	if got := api.Message(err); got != "Email already registered" {
		t.Errorf("second Register() message = %q, want %q", got, "Email already registered")
	}

	again, err := client.Login(ctx, api.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if again.StudentID != tok.StudentID {
		t.Errorf("StudentID = %d, want %d", again.StudentID, tok.StudentID)
	}
}

func TestLatestEndpoints(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Plans[2] = &api.StudyPlanEnvelope{StudentID: 2, Plan: api.StudyPlan{Days: []api.PlanDay{{Day: 1, Focus: "Optics"}}}}
	client := srv.Client()

	plan, err := client.LatestPlan(context.Background(), 2)
	if err != nil {
		t.Fatalf("LatestPlan() error = %v", err)
	}
	if len(plan.Plan.Days) != 1 || plan.Plan.Days[0].Focus != "Optics" {
		t.Errorf("plan days = %+v, want one Optics day", plan.Plan.Days)
	}
	if got := srv.Recorded()[0].Path; got != "/api/study-plan/2/latest" {
		t.Errorf("path = %q, want /api/study-plan/2/latest", got)
	}

	if _, err := client.GenerateRecommendations(context.Background(), 2); err != nil {
		t.Fatalf("GenerateRecommendations() error = %v", err)
	}
	r := srv.Recorded()[1]
	if r.Method != http.MethodPost || r.Path != "/api/recommendations/2" {
		t.Errorf("request = %s %s, want POST /api/recommendations/2", r.Method, r.Path)
	}
}

func TestLatestPlan_LooseNumbers(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"integers", `{"student_id":2,"plan":{"days":[{"day":3,"focus":"Optics","duration_hours":2,"practice_questions":20}]}}`},
		{"floats", `{"student_id":2,"plan":{"days":[{"day":3.0,"focus":"Optics","duration_hours":2.0,"practice_questions":20.0}]}}`},
		{"strings", `{"student_id":2,"plan":{"days":[{"day":"3","focus":"Optics","duration_hours":" 2 ","practice_questions":"20"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			srv.Reply(http.MethodGet, "/api/study-plan/2/latest", tt.body)

			env, err := srv.Client().LatestPlan(context.Background(), 2)
			if err != nil {
				t.Fatalf("LatestPlan() error = %v", err)
			}
			if len(env.Plan.Days) != 1 {
				t.Fatalf("days = %d, want 1", len(env.Plan.Days))
			}
			d := env.Plan.Days[0]
			if d.Day.Int() != 3 || d.PracticeQuestions.Int() != 20 || d.DurationHours.Float() != 2 {
				t.Errorf("day = %+v, want day 3, 20 questions, 2 hours", d)
			}
		})
	}
}

func TestLatestPlan_UnparseableNumberIsZero(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/api/study-plan/2/latest",
		`{"plan":{"days":[{"day":1,"focus":"Optics","practice_questions":"about twenty","duration_hours":null}]}}`)

	env, err := srv.Client().LatestPlan(context.Background(), 2)
	if err != nil {
		t.Fatalf("LatestPlan() error = %v", err)
	}
	if d := env.Plan.Days[0]; d.PracticeQuestions != 0 || d.DurationHours != 0 || d.Focus != "Optics" {
		t.Errorf("day = %+v, want zero counts and focus kept", d)
	}
}

func TestLatestPlan_NonObjectPlanIsEmpty(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/api/study-plan/2/latest", `{"student_id":2,"plan":"not a plan"}`)

	env, err := srv.Client().LatestPlan(context.Background(), 2)
	if err != nil {
		t.Fatalf("LatestPlan() error = %v", err)
	}
	if len(env.Plan.Days) != 0 {
		t.Errorf("days = %+v, want none", env.Plan.Days)
	}
}

func TestLatestRecommendations_NonObjectIsEmpty(t *testing.T) {
	for _, body := range []string{
		`{"student_id":2,"recommendations":[]}`,
		`{"student_id":2,"recommendations":"none"}`,
		`{"student_id":2,"recommendations":null}`,
	} {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/api/recommendations/2/latest", body)

		env, err := srv.Client().LatestRecommendations(context.Background(), 2)
		if err != nil {
			t.Fatalf("LatestRecommendations(%s) error = %v", body, err)
		}
		if env.StudentID != 2 || len(env.Recommendations.Recommendations) != 0 {
			t.Errorf("LatestRecommendations(%s) = %+v, want empty set", body, env)
		}
	}
}

func TestDecodeMockTest(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "   \n", api.ErrEmptyPayload},
		{"invalid", "{not json", api.ErrInvalidPayload},
		{"no questions", `{"student_id":1,"questions":[]}`, api.ErrNoQuestions},
		{"valid", `{"student_id":99,"questions":[{"subject":"Physics","topic":"Optics","question_id":"Q1","student_answer":"A","correct_answer":"A","time_taken":12}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test, err := api.DecodeMockTest([]byte(tt.raw), 5)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeMockTest() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if test.StudentID != 5 {
				t.Errorf("StudentID = %d, want 5", test.StudentID)
			}
			if len(test.Questions) != 1 || test.Questions[0].TimeTaken != 12 {
				t.Errorf("Questions = %+v", test.Questions)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		raw      string
		wantZero bool
		wantYear int
	}{
		{`"2025-03-01T10:20:30.123456"`, false, 2025},
		{`"2025-03-01T10:20:30Z"`, false, 2025},
		{`"2024-12-31 23:59:59"`, false, 2024},
		{`null`, true, 0},
		{`""`, true, 0},
	}
	for _, tt := range tests {
		var ts api.Timestamp
		if err := json.Unmarshal([]byte(tt.raw), &ts); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.raw, err)
			continue
		}
		if ts.IsZero() != tt.wantZero {
			t.Errorf("Unmarshal(%s) zero = %v, want %v", tt.raw, ts.IsZero(), tt.wantZero)
		}
		if !tt.wantZero && ts.Year() != tt.wantYear {
			t.Errorf("Unmarshal(%s) year = %d, want %d", tt.raw, ts.Year(), tt.wantYear)
		}
	}

	var ts api.Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("Unmarshal(yesterday) expected error")
	}
}

func TestDisplayName(t *testing.T) {
	if got := api.DisplayName("asha@example.com"); got != "asha" {
		t.Errorf("DisplayName() = %q, want %q", got, "asha")
	}
	if got := api.DisplayName("plain"); got != "plain" {
		t.Errorf("DisplayName() = %q, want %q", got, "plain")
	}
}
