package model

import "time"

// Candidate is an unvalidated title/link/points triple extracted from a
// fetched page, prior to storage.
type Candidate struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Points int    `json:"points"`
}

// Story is a stored, deduplicated record. Title is the dedup key and
// CreatedAt is assigned by the database on insert.
type Story struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Notice is the reply sent to a subscriber that messages the server.
type Notice struct {
	Message string `json:"message"`
}

// IngestRun summarises one ingest cycle.
type IngestRun struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Candidates int       `json:"candidates"`
	Inserted   int       `json:"inserted"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}
