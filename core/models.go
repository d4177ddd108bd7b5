package core

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. It is used for
// fixed-size index keys derived from variable-length natural keys (email, cvPath).
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Education is a single education entry extracted from a resume.
type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

// WorkExperience is a single employment entry extracted from a resume.
type WorkExperience struct {
	JobTitle string `json:"jobTitle"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Profile is the structured candidate record extracted from one resume document.
// The JSON tags mirror the wire shape the extraction model is prompted to emit.
// Embedding and CvPath are derived by the pipeline, never user-supplied.
type Profile struct {
	Id             ID               `json:"id"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	PhoneNumber    string           `json:"phoneNumber,omitempty"`
	Skills         []string         `json:"skills,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience,omitempty"`
	Certifications []string         `json:"certifications,omitempty"`
	Embedding      []float32        `json:"-"`
	CvPath         string           `json:"cvPath,omitempty"`
	InsertedAt     time.Time        `json:"-"`
	UpdatedAt      time.Time        `json:"-"`
}

// JobStatus identifies where a processing job is in its lifecycle.
// Failed is terminal; a failed document must be re-submitted to retry.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusReady     JobStatus = "ready"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one queued unit of pipeline work tied to one raw document.
// The queue owns job state and timing; the pipeline owns the semantic outcome.
type Job struct {
	Id         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	StartedAt  time.Time       `json:"startedAt,omitempty"`
	FinishedAt time.Time       `json:"finishedAt,omitempty"`
}

// ProfileMatch is a search result with its vector similarity score.
type ProfileMatch struct {
	Profile *Profile
	Score   float32
}
