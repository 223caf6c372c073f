package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/chargepong/pong"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	MaxFrames int
	TPS       int
	Seed      uint64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	SimulatedTime  time.Duration
	Entities       int
	UpdateTime     Stats
	Match          MatchTotals
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min, s.Max = s.Samples[0], s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// MatchTotals accumulates game events over every match of a run.
type MatchTotals struct {
	Matches int
	Losses  [2]int
	Shots   [pong.MaxLevel + 1]int
	Hits    [pong.MaxLevel + 1]int
	Damage  int
}

func (m *MatchTotals) Record(events []pong.Event) {
	for _, ev := range events {
		level := min(max(ev.Level, 0), pong.MaxLevel)
		switch ev.Kind {
		case pong.EventShot:
			m.Shots[level]++
		case pong.EventHit:
			m.Hits[level]++
			m.Damage += ev.Damage
		}
	}
}

func (m *MatchTotals) Decided(loser pong.Side) {
	m.Matches++
	m.Losses[loser]++
}

// Accuracy is hits over shots at level, or 0 when nothing was fired.
func (m MatchTotals) Accuracy(level int) float64 {
	if m.Shots[level] == 0 {
		return 0
	}
	return float64(m.Hits[level]) / float64(m.Shots[level])
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Pong Soak Report

## Configuration
- **Wall Limit:** {{.Duration}}
- **Frame Limit:** {{.MaxFrames}}
- **TPS:** {{.TPS}}
- **Seed:** {{.Seed}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Wall Time:** {{.TotalTime}}
- **Simulated Time:** {{.SimulatedTime}}
- **Live Entities At End:** {{.Entities}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Matches
- **Decided:** {{.Match.Matches}} (left lost {{index .Match.Losses 0}}, right lost {{index .Match.Losses 1}})
- **Damage Dealt:** {{.Match.Damage}}
{{range $level, $shots := .Match.Shots}}{{if $level}}- Level {{$level}}: {{$shots}} shots, {{index $.Match.Hits $level}} hits ({{pct ($.Match.Accuracy $level)}})
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v*100)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
