package main

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// tones maps cue names to a frequency and length in seconds. Audio clips
// are not shipped, so cues are synthesised.
var tones = map[string]struct {
	freq float64
	secs float64
}{
	"elite_spawn": {880, 0.25},
	"hit":         {440, 0.05},
	"headshot":    {660, 0.08},
	"kill":        {220, 0.2},
}

type sounds struct {
	ctx   *audio.Context
	cache map[string][]byte
}

func newSounds() *sounds {
	return &sounds{ctx: audio.NewContext(sampleRate), cache: make(map[string][]byte)}
}

func (s *sounds) play(cue string, volume float64) {
	if s == nil {
		return
	}
	pcm, ok := s.cache[cue]
	if !ok {
		tone, known := tones[cue]
		if !known {
			log.Printf("audio: unknown cue %q", cue)
			return
		}
		pcm = sine(tone.freq, tone.secs)
		s.cache[cue] = pcm
	}
	p := s.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()
}

// sine renders a 16-bit stereo tone with a linear fade-out.
func sine(freq, secs float64) []byte {
	n := int(secs * sampleRate)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * env * 0.3 * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
