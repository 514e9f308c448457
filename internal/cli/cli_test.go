package cli

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/api/apitest"
	"github.com/examcoach/examcoach/internal/config"
)

// testEnv is a config file and data directory pointed at a fake service.
type testEnv struct {
	srv        *apitest.Server
	configPath string
	dataDir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.NewServer(t)
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL()
	cfg.DataDir = filepath.Join(dir, "data")
	path := filepath.Join(dir, "config.yaml")
	if err := config.WriteConfig(path, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	return &testEnv{srv: srv, configPath: path, dataDir: cfg.DataDir}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRegisterStoresCredentials(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "register", "--name", "Asha", "--email", "asha@example.com", "--password", "pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.Contains(out, "Registered Asha (student 1)") {
		t.Errorf("output = %q", out)
	}

	if _, err := e.run(t, "analysis"); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	reqs := e.srv.Recorded()
	last := reqs[len(reqs)-1]
	if last.Authorization != "Bearer token-1" {
		t.Errorf("Authorization = %q, want stored token", last.Authorization)
	}
	if last.Path != "/api/analysis/1" {
		t.Errorf("path = %q", last.Path)
	}

	if _, err := e.run(t, "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := e.run(t, "analysis"); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	reqs = e.srv.Recorded()
	if got := reqs[len(reqs)-1].Authorization; got != "" {
		t.Errorf("Authorization after logout = %q, want none", got)
	}
}

func TestLoginUsesDisplayNameAndStudentID(t *testing.T) {
	e := newTestEnv(t)
	e.srv.Accounts["ravi@example.com"] = api.Token{AccessToken: "t-9", TokenType: "bearer", StudentID: 9}

	out, err := e.run(t, "login", "--email", "ravi@example.com", "--password", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out, "Logged in as ravi (student 9)") {
		t.Errorf("output = %q", out)
	}

	if _, err := e.run(t, "plan"); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	reqs := e.srv.Recorded()
	if got := reqs[len(reqs)-1].Path; got != "/api/study-plan/9/latest" {
		t.Errorf("path = %q, want stored student id", got)
	}

	// --student wins over the stored id.
	if _, err := e.run(t, "--student", "4", "plan", "--generate"); err != nil {
		t.Fatalf("plan --generate failed: %v", err)
	}
	reqs = e.srv.Recorded()
	if got := reqs[len(reqs)-1].Path; got != "/api/study-plan/4" {
		t.Errorf("path = %q, want /api/study-plan/4", got)
	}
}

func TestLoginFailure(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "login", "--email", "nobody@example.com", "--password", "pw")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := api.Message(err); got != "Incorrect email or password" {
		t.Errorf("Message = %q", got)
	}
}

func TestSubmitSample(t *testing.T) {
	e := newTestEnv(t)
	e.srv.NextTestID = 12

	out, err := e.run(t, "--student", "5", "submit", "--sample")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !strings.Contains(out, "Test submitted successfully!") || !strings.Contains(out, "Mock Test ID: 12.") {
		t.Errorf("output = %q", out)
	}
	if body := string(e.srv.Recorded()[0].Body); !strings.Contains(body, `"student_id":5`) {
		t.Errorf("body = %s, want student id 5", body)
	}
}

func TestSubmitValidation(t *testing.T) {
	e := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(file, []byte(`{"questions": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := e.run(t, "submit", file)
	if !errors.Is(err, api.ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
	if _, err := e.run(t, "submit"); err == nil {
		t.Error("submit without input succeeded")
	}
	if len(e.srv.Recorded()) != 0 {
		t.Error("validation failure sent a request")
	}
}

func TestSubmitServerError(t *testing.T) {
	e := newTestEnv(t)
	e.srv.Fail(http.MethodPost, api.PathSubmitTest, http.StatusInternalServerError, "")

	out, err := e.run(t, "submit", "--sample")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, "Error: Internal Server Error") {
		t.Errorf("output = %q", out)
	}
}

func TestPanelsPrintPlaceholders(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"analysis"}, "No topic data yet. Submit a test first."},
		{[]string{"plan"}, "No plan data returned."},
		{[]string{"recommendations", "--generate"}, "No recommendations yet."},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := e.run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	e.srv.Progress[1] = &api.Progress{
		StudentID: 1,
		History: []api.ProgressPoint{
			{TestNumber: 1, Accuracy: 40, AvgTime: 50},
			{TestNumber: 2, Accuracy: 70, AvgTime: 42},
		},
		TopicScores: []api.TopicScore{
			{Topic: "Electrostatics", WeaknessScore: 0.72},
			{Topic: "Thermodynamics", WeaknessScore: 0.2},
		},
	}
	outDir := filepath.Join(t.TempDir(), "charts")

	out, err := e.run(t, "export", "--out", outDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, name := range []string{"accuracy.png", "topicPie.png", "weakness.png", "time.png"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not a PNG", name)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("output = %q, want no skipped charts", out)
	}
}

func TestExportSkipsEmptyPie(t *testing.T) {
	e := newTestEnv(t)
	e.srv.Progress[1] = &api.Progress{
		StudentID: 1,
		History: []api.ProgressPoint{
			{TestNumber: 1, Accuracy: 40, AvgTime: 50},
			{TestNumber: 2, Accuracy: 55, AvgTime: 47},
		},
	}
	outDir := t.TempDir()

	out, err := e.run(t, "export", "--out", outDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "skipped topicPie: no data") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "topicPie.png")); !os.IsNotExist(err) {
		t.Error("topicPie.png written for empty data")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "--api", "http://coach.test", "config", "init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIBaseURL != "http://coach.test" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}

	cmd = NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := cmd.Execute(); err == nil {
		t.Error("second init without --force succeeded")
	}
}
