package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/scholarship-finder/internal/models"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestFromRaw_EndToEnd(t *testing.T) {
	raw := models.RawScholarship{
		ID:        json.Number("7"),
		Title:     "t",
		Type:      "competition",
		EndAt:     "2025-01-01",
		CreatedAt: fixedNow.Add(-6 * 24 * time.Hour).Format(time.RFC3339),
	}

	got := FromRaw(raw, fixedNow)

	assert.Equal(t, "7", got.ID)
	assert.Equal(t, models.CategoryCompetition, got.Category)
	assert.Equal(t, "2025-01-01", got.Deadline)
	assert.True(t, got.IsNew)
	assert.Equal(t, 0, got.ViewCount)
	assert.Equal(t, "강원대학교", got.Organization)
	assert.Equal(t, "정보 없음", got.Amount)
	assert.Equal(t, "강원대 공지사항", got.Source)
	assert.Equal(t, "#", got.ApplicationLink)
	assert.Equal(t, "요약 정보 없음", got.Summary)
}

func TestFromRaw_Deadline(t *testing.T) {
	tests := []struct {
		name     string
		raw      models.RawScholarship
		expected string
	}{
		{"end date wins", models.RawScholarship{StartAt: "2025-01-01", EndAt: "2025-02-01"}, "2025-02-01"},
		{"start date fallback", models.RawScholarship{StartAt: "2025-01-01"}, "2025-01-01"},
		{"neither yields empty", models.RawScholarship{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw.ID = "1"
			assert.Equal(t, tt.expected, FromRaw(tt.raw, fixedNow).Deadline)
		})
	}
}

func TestFromRaw_Category(t *testing.T) {
	tests := []struct {
		rawType  string
		expected models.Category
	}{
		{"competition", models.CategoryCompetition},
		{"Competition", models.CategoryScholarship},
		{"competition ", models.CategoryScholarship},
		{"scholarship", models.CategoryScholarship},
		{"", models.CategoryScholarship},
		{"공모전", models.CategoryScholarship},
	}

	for _, tt := range tests {
		t.Run("type="+tt.rawType, func(t *testing.T) {
			got := FromRaw(models.RawScholarship{ID: "1", Type: tt.rawType}, fixedNow)
			assert.Equal(t, tt.expected, got.Category)
		})
	}
}

func TestFromRaw_Conditions(t *testing.T) {
	t.Run("absent and empty certificates are both absent", func(t *testing.T) {
		absent := FromRaw(models.RawScholarship{ID: "1"}, fixedNow)
		empty := FromRaw(models.RawScholarship{ID: "1", Certificates: []string{}}, fixedNow)
		assert.Nil(t, absent.Conditions.Certificates)
		assert.Nil(t, empty.Conditions.Certificates)
	})

	t.Run("scalar grade and major are lifted", func(t *testing.T) {
		got := FromRaw(models.RawScholarship{ID: "1", Grade: "3학년", Major: "컴퓨터공학"}, fixedNow)
		assert.Equal(t, []string{"3학년"}, got.Conditions.Grade)
		assert.Equal(t, []string{"컴퓨터공학"}, got.Conditions.Major)
		assert.Nil(t, got.Conditions.GPA)
		assert.Nil(t, got.Conditions.Income)
	})

	t.Run("absent facets are omitted from JSON", func(t *testing.T) {
		got := FromRaw(models.RawScholarship{ID: "1", Certificates: []string{"정보처리기사"}}, fixedNow)
		b, err := json.Marshal(got.Conditions)
		require.NoError(t, err)
		assert.JSONEq(t, `{"certificates":["정보처리기사"]}`, string(b))
	})
}

func TestFromRaw_IsNew(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		expected  bool
	}{
		{"absent", "", false},
		{"unparseable", "yesterday-ish", false},
		{"exactly seven days", fixedNow.Add(-7 * 24 * time.Hour).Format(time.RFC3339), true},
		{"just over seven days", fixedNow.Add(-7*24*time.Hour - time.Minute).Format(time.RFC3339), false},
		{"date only", "2025-03-05", true},
		{"old", "2024-12-01", false},
		{"future within window", fixedNow.Add(48 * time.Hour).Format(time.RFC3339), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRaw(models.RawScholarship{ID: "1", CreatedAt: tt.createdAt}, fixedNow)
			assert.Equal(t, tt.expected, got.IsNew)
		})
	}
}

func TestFromRaw_Summary(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "가"
	}

	tests := []struct {
		name     string
		raw      models.RawScholarship
		expected string
	}{
		{"upstream summary", models.RawScholarship{Summary: "요약", Content: "본문"}, "요약"},
		{"short body", models.RawScholarship{Content: "본문"}, "본문"},
		{"long body truncated by characters", models.RawScholarship{Content: long}, long[:len("가")*100]},
		{"html body reduced to text", models.RawScholarship{Content: "<p>신청   <b>기간</b></p>"}, "신청 기간"},
		{"empty markup falls back", models.RawScholarship{Content: "<br/>"}, DefaultSummary},
		{"placeholder", models.RawScholarship{}, DefaultSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw.ID = "1"
			assert.Equal(t, tt.expected, FromRaw(tt.raw, fixedNow).Summary)
		})
	}
}

func TestFromRaw_IsPure(t *testing.T) {
	raw := models.RawScholarship{
		ID:           "42",
		Title:        "교내 장학금",
		Board:        "학생지원과",
		Grade:        "2학년",
		Certificates: []string{"TOEIC"},
		CreatedAt:    "2025-03-09T09:00:00Z",
	}

	first := FromRaw(raw, fixedNow)
	second := FromRaw(raw, fixedNow)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("normalization is not deterministic (-first +second):\n%s", diff)
	}

	first.Conditions.Certificates[0] = "changed"
	assert.Equal(t, "TOEIC", raw.Certificates[0], "output must not alias the input")
}

func TestFromRaw_DecodesNumericID(t *testing.T) {
	var raw models.RawScholarship
	require.NoError(t, json.Unmarshal([]byte(`{"id":1234,"title":"x"}`), &raw))
	assert.Equal(t, "1234", FromRaw(raw, fixedNow).ID)
}

func TestFromRawList_NilInput(t *testing.T) {
	got := FromRawList(nil, fixedNow)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDetailFromRaw(t *testing.T) {
	raw := models.RawScholarship{
		ID:      "9",
		Title:   "상세",
		StartAt: "2025-03-01",
		Content: `<p onclick="x()">지원 대상</p><script>alert(1)</script>`,
		Images:  []string{" https://example.com/a.png ", ""},
		Etc:     "문의: 학생처",
	}

	d := DetailFromRaw(raw, fixedNow)

	assert.Equal(t, "9", d.ID)
	assert.Equal(t, "2025-03-01", d.Deadline)
	assert.Equal(t, "2025-03-01", d.StartAt)
	assert.NotContains(t, d.Content, "script")
	assert.NotContains(t, d.Content, "onclick")
	assert.Contains(t, d.Content, "지원 대상")
	assert.Equal(t, "지원 대상", d.ContentText)
	assert.Equal(t, []string{"https://example.com/a.png"}, d.Images)
	assert.Equal(t, "문의: 학생처", d.Etc)
}
