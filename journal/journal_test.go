package journal

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestJournalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	j.Record(Entry{Kind: KindSpawn, At: time.Second, Target: 1, Template: "basic", Point: "left", Elite: true})
	j.Record(Entry{Kind: KindKill, At: 2 * time.Second, Target: 1, Template: "basic", Headshot: true, Score: 15})
	j.Record(Entry{Kind: KindReturn, At: 3 * time.Second, Target: 1, Template: "basic"})
	if err := j.Err(); err != nil {
		t.Fatalf("record: %v", err)
	}
	if j.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", j.Len())
	}

	entries, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 decoded entries, got %d", len(entries))
	}
	if entries[0].Point != "left" || !entries[0].Elite {
		t.Fatalf("spawn entry lost fields: %+v", entries[0])
	}
	if entries[1].Score != 15 || !entries[1].Headshot || entries[1].At != 2*time.Second {
		t.Fatalf("kill entry lost fields: %+v", entries[1])
	}
	sum := Summary(entries)
	if sum[KindSpawn] != 1 || sum[KindKill] != 1 || sum[KindReturn] != 1 {
		t.Fatalf("unexpected summary %v", sum)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestJournalKeepsFirstError(t *testing.T) {
	j := New(failingWriter{})
	j.Record(Entry{Kind: KindSpawn})
	j.Record(Entry{Kind: KindKill})
	if j.Err() == nil {
		t.Fatalf("expected a write error")
	}
	if j.Len() != 0 {
		t.Fatalf("failed writes must not count, got %d", j.Len())
	}
}

func TestNilJournalRecord(t *testing.T) {
	var j *Journal
	j.Record(Entry{Kind: KindSpawn})
}
