package model

import (
	"encoding/json"
	"time"
)

// Run status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusInvalid    = "INVALID"
	StatusFailed     = "FAILED"
)

// Artifact type constants
const (
	ArtifactPage       = "page"
	ArtifactFAQ        = "faq"
	ArtifactComparison = "comparison"
)

// Created-by constants
const (
	CreatedBySystem = "system"
	CreatedByUser   = "user"
)

// Run represents one submitted product and the state of its pipeline run.
type Run struct {
	ID               string  `json:"id"`
	ProductName      string  `json:"product_name"`
	Payload          string  `json:"payload"` // submitted product JSON
	Status           string  `json:"status"`
	IsValid          bool    `json:"is_valid"`
	ValidationErrors *string `json:"validation_errors,omitempty"`
	RetryCount       int     `json:"retry_count"`
	ErrorInfo        *string `json:"error_info,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// RunWithArtifacts is a Run together with its persisted artifacts.
type RunWithArtifacts struct {
	Run
	Artifacts []Artifact `json:"artifacts"`
}

// RunFilter holds query parameters for listing runs.
type RunFilter struct {
	Status []string
}

// NewRun creates a Run in QUEUED state.
func NewRun(id, productName, payload string) Run {
	now := time.Now().UTC().Format(time.RFC3339)
	return Run{
		ID:          id,
		ProductName: productName,
		Payload:     payload,
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Artifact is one generated output document persisted for a Run.
type Artifact struct {
	ID           string `json:"id"`
	RunID        string `json:"run_id"`
	ArtifactType string `json:"artifact_type"`
	Payload      string `json:"payload"` // JSON string
	CreatedBy    string `json:"created_by"`
	CreatedAt    string `json:"created_at"`
}

// NewArtifact creates a system-generated Artifact.
func NewArtifact(id, runID, artifactType, payload string) Artifact {
	return Artifact{
		ID:           id,
		RunID:        runID,
		ArtifactType: artifactType,
		Payload:      payload,
		CreatedBy:    CreatedBySystem,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorInfo holds structured failure information for a Run.
type ErrorInfo struct {
	FailedStage string `json:"failed_stage"`
	Message     string `json:"message"`
	Retryable   bool   `json:"retryable"`
	FailedAt    string `json:"failed_at"`
}

// ToJSON serializes ErrorInfo to a JSON string.
func (e ErrorInfo) ToJSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}
