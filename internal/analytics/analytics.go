// Package analytics implements the append-only usage event log: four named
// streams persisted as a single JSON document behind a kv.Store, plus the
// derived conversion summary served to admins.
package analytics

import (
	"fmt"
)

// Event types accepted on the write path.
const (
	EventSessionStart       = "session_start"
	EventImageCapture       = "image_capture"
	EventGenerationComplete = "generation_complete"
	EventShareClick         = "share_click"
	EventSaveClick          = "save_click"
)

// Event is one logged record. Client payloads are freeform, so the record
// keeps the original shape and the service injects the reserved keys
// (sessionId, timestamp, and optionally type, country, locale).
type Event map[string]any

// Log is the persisted document: four ordered, append-only streams.
type Log struct {
	Sessions    []Event `json:"sessions"`
	Captures    []Event `json:"captures"`
	Generations []Event `json:"generations"`
	Shares      []Event `json:"shares"`
}

// Counts mirrors the currentCounts block returned after each write.
type Counts struct {
	Sessions    int `json:"sessions"`
	Captures    int `json:"captures"`
	Generations int `json:"generations"`
	Shares      int `json:"shares"`
}

// Summary is the derived funnel block of the read endpoint.
type Summary struct {
	TotalSessions    int    `json:"totalSessions"`
	TotalCaptures    int    `json:"totalCaptures"`
	TotalGenerations int    `json:"totalGenerations"`
	TotalShares      int    `json:"totalShares"`
	CaptureRate      string `json:"captureRate"`
	GenerationRate   string `json:"generationRate"`
	ShareRate        string `json:"shareRate"`
}

func (l *Log) counts() Counts {
	return Counts{
		Sessions:    len(l.Sessions),
		Captures:    len(l.Captures),
		Generations: len(l.Generations),
		Shares:      len(l.Shares),
	}
}

// Summarize computes totals and conversion rates for the current log.
func (l *Log) Summarize() Summary {
	c := l.counts()
	return Summary{
		TotalSessions:    c.Sessions,
		TotalCaptures:    c.Captures,
		TotalGenerations: c.Generations,
		TotalShares:      c.Shares,
		CaptureRate:      Rate(c.Captures, c.Sessions),
		GenerationRate:   Rate(c.Generations, c.Captures),
		ShareRate:        Rate(c.Shares, c.Generations),
	}
}

// Rate formats numerator/denominator as a percentage with one decimal
// place, "0.0" when the denominator is zero.
func Rate(numerator, denominator int) string {
	if denominator == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(numerator)/float64(denominator)*100)
}
