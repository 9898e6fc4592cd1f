// Command gallerysim plays a gallery session headlessly with a seeded
// random shooter and prints a summary.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/milk9111/shootinggallery/gallery"
	"github.com/milk9111/shootinggallery/journal"
	"github.com/milk9111/shootinggallery/target"
)

type shooter struct {
	rng      *rand.Rand
	accuracy float64
	headshot float64
	damage   int
	interval time.Duration
	wait     time.Duration

	shots int
	hits  int
}

// fire aims at a random active target when the shooter is ready.
func (s *shooter) fire(rg *gallery.Range, dt time.Duration) {
	s.wait -= dt
	if s.wait > 0 {
		return
	}
	s.wait = s.interval

	var live []*target.Target
	for _, t := range rg.Spawner.Active() {
		if t.State() == target.StateActive {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return
	}
	s.shots++
	if s.rng.Float64() >= s.accuracy {
		return
	}
	t := live[s.rng.Intn(len(live))]
	aim := t.Position()
	head := s.rng.Float64() < s.headshot
	if head {
		aim.Y -= t.Radius() * 0.8
	}
	if shot := rg.Shoot(aim, gallery.IsHeadshot(t, aim), s.damage); shot.Applied > 0 {
		s.hits++
	}
}

func main() {
	galleryName := flag.String("gallery", "gallery.yaml", "gallery prefab name")
	seed := flag.Int64("seed", 1, "seed for spawns and the shooter")
	accuracy := flag.Float64("accuracy", 0.6, "chance a shot hits its target")
	headshot := flag.Float64("headshot", 0.25, "chance a hit aims for the head")
	damage := flag.Int("damage", 25, "damage per shot")
	rate := flag.Float64("rate", 3, "shots per second")
	tick := flag.Duration("tick", time.Second/60, "simulation step")
	maxDuration := flag.Duration("max", 10*time.Minute, "stop after this much simulated time even without a time limit")
	journalPath := flag.String("journal", "", "write a msgpack event journal to this file")
	flag.Parse()

	if *rate <= 0 || *tick <= 0 {
		log.Fatalf("rate and tick must be positive")
	}

	var rec *journal.Journal
	if *journalPath != "" {
		f, err := os.Create(*journalPath)
		if err != nil {
			log.Fatalf("create journal: %v", err)
		}
		defer f.Close()
		w := bufio.NewWriter(f)
		defer w.Flush()
		rec = journal.New(w)
	}

	opts := gallery.Options{Gallery: *galleryName, Seed: *seed}
	if rec != nil {
		opts.Recorder = rec
	}
	rg, err := gallery.Load(opts)
	if err != nil {
		log.Fatalf("load gallery: %v", err)
	}

	s := &shooter{
		rng:      rand.New(rand.NewSource(*seed + 1)),
		accuracy: *accuracy,
		headshot: *headshot,
		damage:   *damage,
		interval: time.Duration(float64(time.Second) / *rate),
	}

	rg.Start()
	var elapsed time.Duration
	for rg.Board.Running() && elapsed < *maxDuration {
		s.fire(rg, *tick)
		rg.Update(*tick)
		elapsed += *tick
	}
	rg.Board.End()
	// let pending returns finish
	rg.Update(5 * time.Second)

	st := rg.Spawner.Stats()
	ps := rg.Pool.Stats()
	fmt.Printf("gallery   %s\n", rg.Name())
	fmt.Printf("score     %d (kills %d, headshots %d)\n", rg.Board.Total(), rg.Board.Kills(), rg.Board.Headshots())
	fmt.Printf("shots     %d fired, %d hit\n", s.shots, s.hits)
	fmt.Printf("spawns    %d (elite %d, moving %d, expired %d, returned %d)\n", st.Spawned, st.Elite, st.Moving, st.Expired, st.Returned)
	fmt.Printf("pool      created %d, reused %d, discarded %d, borrowed %d\n", ps.Created, ps.Reused, ps.Discarded, rg.Pool.Borrowed())
	if rec != nil {
		if err := rec.Err(); err != nil {
			log.Printf("journal: %v", err)
		}
		fmt.Printf("journal   %d entries in %s\n", rec.Len(), *journalPath)
	}
}
