package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/domain/memory"
)

var ArtifactAggregateContract = Contract{
	Name:      "Memory.ArtifactAggregate",
	Writes:    []string{"artifact"},
	Invariant: "One artifact per (session, type); regenerating replaces its content in place.",
}

// ArtifactAggregate persists generated artifacts.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeRetryable, CodeInternal.
type ArtifactAggregate interface {
	Aggregate

	// GenerateArtifact stores content for (session, type), replacing any earlier
	// content for the same pair. Without a session a new artifact is always created.
	GenerateArtifact(ctx context.Context, in GenerateArtifactInput) (GenerateArtifactResult, error)

	SetPinned(ctx context.Context, in SetPinnedInput) (*memory.Artifact, error)

	RenameArtifact(ctx context.Context, in RenameArtifactInput) (*memory.Artifact, error)
}

type GenerateArtifactInput struct {
	UserID    uuid.UUID
	SessionID *uuid.UUID
	Title     *string
	Content   memory.Content
}

type GenerateArtifactResult struct {
	Artifact *memory.Artifact
	Created  bool
}

type SetPinnedInput struct {
	UserID     uuid.UUID
	ArtifactID uuid.UUID
	Pinned     bool
}

type RenameArtifactInput struct {
	UserID     uuid.UUID
	ArtifactID uuid.UUID
	Title      *string
}
