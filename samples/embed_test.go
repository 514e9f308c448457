package samples

import (
	"testing"

	"github.com/examcoach/examcoach/internal/api"
)

func TestMockTestDecodes(t *testing.T) {
	test, err := api.DecodeMockTest(MockTest, 4)
	if err != nil {
		t.Fatalf("DecodeMockTest() error = %v", err)
	}
	if len(test.Questions) != 3 {
		t.Errorf("len(Questions) = %d, want 3", len(test.Questions))
	}
	if test.StudentID != 4 {
		t.Errorf("StudentID = %d, want 4", test.StudentID)
	}
}
