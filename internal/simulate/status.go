// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package simulate

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// progressInterval is how often a running batch reports progress.
const progressInterval = 10 * time.Second

type status struct {
	evaluated uint64
	cacheHits uint64
	start     time.Time
	ticker    *time.Ticker
	progress  chan bool
	total     int
}

func newStatus(total int, every time.Duration) *status {
	return &status{
		start:    time.Now(),
		ticker:   time.NewTicker(every),
		progress: make(chan bool),
		total:    total,
	}
}

// BeginProgress reports the progress of the batch on every tick until Done is called.
func (s *status) BeginProgress() {
	go func() {
		for {
			select {
			case <-s.progress:
				return
			case <-s.ticker.C:
				log.Info().Msgf("%.2f%% passwords evaluated. %.0f passwords/s", s.percent(), s.passwordsPerSecond())
			}
		}
	}()
}

func (s *status) Evaluated(cacheHit bool) {
	atomic.AddUint64(&s.evaluated, 1)
	if cacheHit {
		atomic.AddUint64(&s.cacheHits, 1)
	}
}

func (s *status) percent() float64 {
	if s.total == 0 {
		return 100
	}
	return float64(atomic.LoadUint64(&s.evaluated)*100) / float64(s.total)
}

func (s *status) passwordsPerSecond() float64 {
	evaluated := float64(atomic.LoadUint64(&s.evaluated))
	elapsed := time.Since(s.start)
	if elapsed.Nanoseconds() > 0 {
		return evaluated / elapsed.Seconds()
	}
	return evaluated
}

func (s *status) Done() {
	s.ticker.Stop()
	s.progress <- true

	evaluated := atomic.LoadUint64(&s.evaluated)
	hits := atomic.LoadUint64(&s.cacheHits)
	var hitPercent float64
	if evaluated > 0 {
		hitPercent = float64(hits*100) / float64(evaluated)
	}

	p := message.NewPrinter(language.English)
	log.Debug().Msgf("evaluated %s passwords in %v. %.0f passwords/s", p.Sprintf("%d", evaluated), time.Since(s.start), s.passwordsPerSecond())
	log.Debug().Msgf("estimate cache hits: %s (%.2f%%)", p.Sprintf("%d", hits), hitPercent)
}
