package recall

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kailas-cloud/hervoice/internal/domain/entry"
)

func mustEntry(t *testing.T, id string, keywords ...string) entry.Entry {
	t.Helper()
	e, err := entry.New(entry.Fields{ID: id, Summary: "summary " + id, Keywords: keywords})
	if err != nil {
		t.Fatalf("entry.New(%s): %v", id, err)
	}
	return e
}

func ids(t *testing.T, entries []entry.Entry, keywords []string) []string {
	t.Helper()
	out := make([]string, 0)
	for _, c := range Recall(entries, keywords) {
		e := c.Entry()
		out = append(out, e.ID())
	}
	return out
}

func TestRecall_SubstringBothDirections(t *testing.T) {
	entries := []entry.Entry{mustEntry(t, "a", "辞职后的迷茫", "Career Change")}
	for i := 0; i < 8; i++ {
		entries = append(entries, mustEntry(t, fmt.Sprintf("pad%d", i), "无关"))
	}

	pool := Recall(entries, []string{"辞职", "辞职后的迷茫期", "career", "旅行"})

	if len(pool) != 1 {
		t.Fatalf("pool size = %d, want 1", len(pool))
	}
	want := []string{"辞职", "career"}
	if got := pool[0].MatchedKeywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("MatchedKeywords = %v, want %v", got, want)
	}
	if pool[0].MatchCount() != 2 {
		t.Errorf("MatchCount = %d, want 2", pool[0].MatchCount())
	}
}

func TestRecall_ContainedQueryKeyword(t *testing.T) {
	entries := make([]entry.Entry, 0, 9)
	entries = append(entries, mustEntry(t, "a", "独立"))
	for i := 0; i < 8; i++ {
		entries = append(entries, mustEntry(t, fmt.Sprintf("pad%d", i), "无关"))
	}

	pool := Recall(entries, []string{"独立生活"})
	if len(pool) != 1 || pool[0].MatchCount() != 1 {
		t.Fatalf("query keyword containing an entry keyword must match, got %d candidates", len(pool))
	}
}

func TestRecall_PoolBoundedAndStable(t *testing.T) {
	entries := make([]entry.Entry, 0, 12)
	for i := 0; i < 12; i++ {
		kws := []string{"工作"}
		if i%3 == 0 {
			kws = append(kws, "压力")
		}
		entries = append(entries, mustEntry(t, fmt.Sprintf("e%02d", i), kws...))
	}

	got := ids(t, entries, []string{"工作", "压力"})

	want := []string{"e00", "e03", "e06", "e09", "e01", "e02", "e04", "e05"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestRecall_DropsZeroMatchForLargeCorpus(t *testing.T) {
	entries := make([]entry.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, mustEntry(t, fmt.Sprintf("e%d", i), "其他"))
	}

	if got := Recall(entries, []string{"旅行"}); len(got) != 0 {
		t.Errorf("expected empty pool, got %d", len(got))
	}
}

func TestRecall_SmallCorpusAdmitsEverything(t *testing.T) {
	entries := []entry.Entry{
		mustEntry(t, "a", "其他"),
		mustEntry(t, "b", "旅行"),
		mustEntry(t, "c"),
	}

	got := ids(t, entries, []string{"旅行"})

	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestRecall_EmptyKeywordsNeverMatch(t *testing.T) {
	entries := make([]entry.Entry, 0, 9)
	for i := 0; i < 9; i++ {
		entries = append(entries, mustEntry(t, fmt.Sprintf("e%d", i), "工作"))
	}

	if got := Recall(entries, []string{"", "  "}); len(got) != 0 {
		t.Errorf("blank keywords matched %d entries", len(got))
	}
	if got := Recall(entries, nil); len(got) != 0 {
		t.Errorf("nil keywords matched %d entries", len(got))
	}
}

func TestRecall_DuplicateQueryKeywordsCountTwice(t *testing.T) {
	entries := []entry.Entry{mustEntry(t, "a", "工作")}

	pool := Recall(entries, []string{"工作", "工作"})

	if pool[0].MatchCount() != 2 {
		t.Errorf("MatchCount = %d, want 2", pool[0].MatchCount())
	}
}

func TestRecall_EmptyCorpus(t *testing.T) {
	if got := Recall(nil, []string{"工作"}); len(got) != 0 {
		t.Errorf("expected empty pool, got %d", len(got))
	}
}
