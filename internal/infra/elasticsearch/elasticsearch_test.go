package elasticsearch

import (
	"strings"
	"testing"
	"time"

	"trailnote-go/internal/model"

	"github.com/goccy/go-json"
)

func TestBuildDiaryQuery(t *testing.T) {
	body, err := json.Marshal(buildDiaryQuery(DiaryQuery{
		Keyword: "  kyoto ",
		Tag:     "japan",
		Sort:    "like_count",
		Order:   "asc",
		From:    20,
		Size:    10,
	}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(body)
	for _, want := range []string{
		`"query":"kyoto"`,
		`"term":{"tags":"japan"}`,
		`{"like_count":{"order":"asc"}}`,
		`{"id":{"order":"asc"}}`,
		`"from":20`,
		`"track_total_hits":true`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("query %s missing %s", got, want)
		}
	}

	body, _ = json.Marshal(buildDiaryQuery(DiaryQuery{Size: 5}))
	if got := string(body); !strings.Contains(got, `"match_all"`) || !strings.Contains(got, `{"published_at":{"order":"desc"}}`) {
		t.Fatalf("default query = %s", got)
	}
}

func TestDiariesMappingAnalyzer(t *testing.T) {
	cases := map[string]string{
		analyzerStandard: `"analyzer":"standard"`,
		analyzerIK:       `"analyzer":"ik_max_word"`,
		"":               `"analyzer":"standard"`,
	}
	for name, want := range cases {
		body, err := diariesMapping(name)
		if err != nil {
			t.Fatalf("mapping(%q): %v", name, err)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("mapping(%q) = %s, want %s", name, body, want)
		}
	}
}

func TestDiaryToESDoc(t *testing.T) {
	published := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	d := &model.Diary{
		ID:          "d1",
		AuthorID:    7,
		Author:      model.User{ID: 7, Name: "alice"},
		Title:       "Kyoto",
		Tags:        []model.Tag{{Name: "japan"}, {Name: "autumn"}},
		PublishedAt: &published,
		LikeCount:   3,
	}
	doc := diaryToESDoc(d)
	if doc.AuthorName != "alice" || len(doc.Tags) != 2 || doc.Tags[1] != "autumn" {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.PublishedAt != "2026-05-01T08:00:00Z" || doc.LikeCount != 3 {
		t.Fatalf("doc = %+v", doc)
	}

	d.PublishedAt = nil
	body, _ := json.Marshal(diaryToESDoc(d))
	if strings.Contains(string(body), "published_at") {
		t.Fatalf("unpublished doc should omit published_at: %s", body)
	}
}

func TestNormalizeHosts(t *testing.T) {
	got := normalizeHosts([]string{" 127.0.0.1:9200 ", "", "https://es.internal:9200"})
	if len(got) != 2 || got[0] != "http://127.0.0.1:9200" || got[1] != "https://es.internal:9200" {
		t.Fatalf("hosts = %v", got)
	}
}
