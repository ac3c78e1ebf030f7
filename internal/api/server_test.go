package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/transport"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

const upstreamList = `{"count":4,"items":[
	{"id":1,"title":"교내 장학금","grade":"3학년","end_at":"2025-03-12","created_at":"2025-03-09"},
	{"id":2,"title":"취업 캠프","type":"competition","grade":"1학년","end_at":"2025-03-11"},
	{"id":3,"title":"국가장학금","price":"100만원","end_at":"2025-04-30","created_at":"2025-03-08"},
	{"id":4,"title":"창업 공모전","type":"competition"}
]}`

func newTestServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	clock := func() time.Time { return fixedNow }
	svc := catalog.NewService(transport.NewClient(ts.URL), nil, catalog.WithClock(clock))
	s := NewServer(svc, &config.Config{Query: config.QueryConfig{PageSize: 6}}, nil)
	s.Now = clock
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type listBody struct {
	Items []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	} `json:"items"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

func (b listBody) ids() []string {
	out := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestListScholarships(t *testing.T) {
	var gotQuery string
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(upstreamList))
	})

	tests := []struct {
		name          string
		url           string
		expectedIDs   []string
		expectedQuery string
	}{
		{"all, recent first", "/api/v1/scholarships", []string{"1", "3", "2", "4"}, "category=all"},
		{"grade facet", "/api/v1/scholarships?grade="+url.QueryEscape("3학년,4학년"), []string{"1"}, "category=all"},
		{"repeated grade facet", "/api/v1/scholarships?grade="+url.QueryEscape("3학년")+"&grade="+url.QueryEscape("1학년"), []string{"1", "2"}, "category=all"},
		{"category and deadline sort", "/api/v1/scholarships?category=competition&sort=deadline", []string{"2", "4"}, "category=competition"},
		{"search delegated", "/api/v1/scholarships?search="+url.QueryEscape("장학")+"&sort=deadline", []string{"2", "1", "3", "4"}, "category=all&search=%EC%9E%A5%ED%95%99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode[listBody](t, rec)
			assert.Equal(t, tt.expectedIDs, body.ids())
			assert.Equal(t, len(tt.expectedIDs), body.Total)
			assert.Equal(t, tt.expectedQuery, gotQuery)
		})
	}
}

func TestListScholarships_CountsFilteredSet(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamList))
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/scholarships", nil))
	body := decode[listBody](t, rec)
	assert.Equal(t, map[string]int{"scholarship": 2, "competition": 2}, body.Counts)
}

func TestListScholarships_UpstreamFailureIsEmpty(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/scholarships", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listBody](t, rec)
	assert.Empty(t, body.Items)
	assert.NotNil(t, body.Items)
	assert.Equal(t, map[string]int{"scholarship": 0, "competition": 0}, body.Counts)
}

func TestGetScholarship(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/scholarships/1" {
			w.Write([]byte(`{"id":1,"title":"상세","content":"<p>본문</p>"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"없음"}`))
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/scholarships/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	assert.Equal(t, "1", detail["id"])
	assert.Equal(t, "본문", detail["contentText"])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/scholarships/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "category=all", r.URL.RawQuery)
		w.Write([]byte(upstreamList))
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?page_size=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NewItems []struct {
			ID string `json:"id"`
		} `json:"new_items"`
		DeadlineSoon []struct {
			ID string `json:"id"`
		} `json:"deadline_soon"`
		NewCount          int `json:"new_count"`
		DeadlineSoonCount int `json:"deadline_soon_count"`
		Total             int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.NewItems, 1)
	assert.Equal(t, "1", body.NewItems[0].ID)
	require.Len(t, body.DeadlineSoon, 1)
	assert.Equal(t, "2", body.DeadlineSoon[0].ID)
	assert.Equal(t, 2, body.NewCount)
	assert.Equal(t, 2, body.DeadlineSoonCount)
	assert.Equal(t, 4, body.Total)
}

func TestEmploymentPrograms(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamList))
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/employment-programs", nil))
	body := decode[listBody](t, rec)
	assert.Equal(t, []string{"2"}, body.ids())
}

func TestRecommend(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resumes", r.URL.Path)
		w.Write([]byte(`{"count":2,"results":[{"id":5,"price":"500,000원"},{"id":6,"price":"100만원"}]}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations",
		strings.NewReader(`{"major":"컴퓨터공학","grade":"3학년","certificates":["TOEIC"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(500100), body["total_amount"])
}

func TestRecommend_Validation(t *testing.T) {
	var calls int
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{"major":"경영학"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "grade is required")
	assert.Equal(t, 0, calls)
}

func TestRecommend_UpstreamFailureIsEmpty(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{"major":"a","grade":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"items":[],"total_amount":0}`, rec.Body.String())
}

func TestWriteResume_SurfacesUpstreamMessage(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/student-1/resume/write", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"학년을 입력하세요"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/resume/write",
		strings.NewReader(`{"name":"홍길동","major":"경영학"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"학년을 입력하세요"}`, rec.Body.String())
}

func TestUploadResume_RejectsNonPDF(t *testing.T) {
	var calls int
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	fmt.Fprint(part, "plain text")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, calls)
}

func TestUploadResume_MissingFile(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/resume/upload", nil)
	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavedNotImplemented(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/saved"},
		{http.MethodPost, "/api/v1/saved/1"},
		{http.MethodDelete, "/api/v1/saved/1"},
	} {
		t.Run(tc.method, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusNotImplemented, rec.Code)
			assert.JSONEq(t, `{"error":"not implemented"}`, rec.Body.String())
		})
	}
}
