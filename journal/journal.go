// Package journal records gallery events as a stream of msgpack entries.
package journal

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

type Kind string

const (
	KindSpawn  Kind = "spawn"
	KindKill   Kind = "kill"
	KindExpire Kind = "expire"
	KindReturn Kind = "return"
	KindHit    Kind = "hit"
)

// Entry is one journal record. At is the gallery clock time.
type Entry struct {
	Kind     Kind          `msgpack:"kind"`
	At       time.Duration `msgpack:"at"`
	Target   uint64        `msgpack:"target"`
	Template string        `msgpack:"template"`
	Point    string        `msgpack:"point,omitempty"`
	Elite    bool          `msgpack:"elite,omitempty"`
	Moving   bool          `msgpack:"moving,omitempty"`
	Headshot bool          `msgpack:"headshot,omitempty"`
	Damage   int           `msgpack:"damage,omitempty"`
	Score    int           `msgpack:"score,omitempty"`
}

// Journal appends entries to an underlying writer. The first write error is
// kept and every later Record becomes a no-op.
type Journal struct {
	enc   *msgpack.Encoder
	count int
	err   error
}

func New(w io.Writer) *Journal {
	return &Journal{enc: msgpack.NewEncoder(w)}
}

func (j *Journal) Record(e Entry) {
	if j == nil || j.err != nil {
		return
	}
	if err := j.enc.Encode(&e); err != nil {
		j.err = fmt.Errorf("journal: encode %s entry: %w", e.Kind, err)
		return
	}
	j.count++
}

// Len returns the number of entries written.
func (j *Journal) Len() int {
	return j.count
}

func (j *Journal) Err() error {
	return j.err
}

// Decode reads every entry from r until EOF.
func Decode(r io.Reader) ([]Entry, error) {
	dec := msgpack.NewDecoder(r)
	var out []Entry
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("journal: decode entry %d: %w", len(out), err)
		}
		out = append(out, e)
	}
}

// Summary counts entries by kind.
func Summary(entries []Entry) map[Kind]int {
	m := make(map[Kind]int)
	for _, e := range entries {
		m[e.Kind]++
	}
	return m
}
