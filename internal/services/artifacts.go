package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// ArtifactDraft is generated artifact content as the extraction step hands it over.
type ArtifactDraft struct {
	Type    memory.ArtifactType `json:"type"`
	Title   *string             `json:"title,omitempty"`
	Content json.RawMessage     `json:"content"`
}

// Decode validates the draft and returns its typed content.
func (d ArtifactDraft) Decode() (memory.Content, error) {
	return memory.DecodeContent(memory.ArtifactType(strings.TrimSpace(string(d.Type))), d.Content)
}

type ArtifactListOptions struct {
	Type       *memory.ArtifactType
	SessionID  *uuid.UUID
	PinnedOnly bool
	Limit      int
}

type ArtifactService interface {
	Generate(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, draft ArtifactDraft) (domainagg.GenerateArtifactResult, error)
	Pin(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error)
	Unpin(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error)
	Rename(ctx context.Context, userID, artifactID uuid.UUID, title *string) (*types.Artifact, error)
	Get(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error)
	List(ctx context.Context, userID uuid.UUID, opts ArtifactListOptions) ([]*types.Artifact, error)
}

type artifactService struct {
	log       *logger.Logger
	agg       domainagg.ArtifactAggregate
	artifacts repos.ArtifactRepo
	bus       events.Bus
}

func NewArtifactService(log *logger.Logger, agg domainagg.ArtifactAggregate, artifacts repos.ArtifactRepo, bus events.Bus) ArtifactService {
	return &artifactService{
		log:       log.With("service", "ArtifactService"),
		agg:       agg,
		artifacts: artifacts,
		bus:       bus,
	}
}

func (s *artifactService) Generate(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, draft ArtifactDraft) (domainagg.GenerateArtifactResult, error) {
	const op = "Memory.Artifact.Generate"
	content, err := draft.Decode()
	if err != nil {
		return domainagg.GenerateArtifactResult{}, invalidInput(op, err.Error())
	}
	res, err := s.agg.GenerateArtifact(ctx, domainagg.GenerateArtifactInput{
		UserID:    userID,
		SessionID: sessionID,
		Title:     draft.Title,
		Content:   content,
	})
	if err != nil {
		return res, err
	}
	publish(ctx, s.bus, s.log, events.ArtifactGenerated, userID, events.ArtifactGeneratedData{
		ArtifactID: res.Artifact.ID,
		SessionID:  res.Artifact.SessionID,
		Type:       string(res.Artifact.Type),
		Created:    res.Created,
	})
	return res, nil
}

func (s *artifactService) Pin(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error) {
	return s.agg.SetPinned(ctx, domainagg.SetPinnedInput{UserID: userID, ArtifactID: artifactID, Pinned: true})
}

func (s *artifactService) Unpin(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error) {
	return s.agg.SetPinned(ctx, domainagg.SetPinnedInput{UserID: userID, ArtifactID: artifactID, Pinned: false})
}

func (s *artifactService) Rename(ctx context.Context, userID, artifactID uuid.UUID, title *string) (*types.Artifact, error) {
	return s.agg.RenameArtifact(ctx, domainagg.RenameArtifactInput{UserID: userID, ArtifactID: artifactID, Title: title})
}

func (s *artifactService) Get(ctx context.Context, userID, artifactID uuid.UUID) (*types.Artifact, error) {
	const op = "Memory.Artifact.Get"
	if userID == uuid.Nil || artifactID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id or artifact_id")
	}
	row, err := s.artifacts.GetForUser(dbctx.From(ctx), userID, artifactID)
	if err != nil {
		return nil, readError(op, err)
	}
	return row, nil
}

func (s *artifactService) List(ctx context.Context, userID uuid.UUID, opts ArtifactListOptions) ([]*types.Artifact, error) {
	const op = "Memory.Artifact.List"
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	if opts.Type != nil && !opts.Type.Valid() {
		return nil, invalidInput(op, "unknown artifact type: "+string(*opts.Type))
	}
	rows, err := s.artifacts.List(dbctx.From(ctx), repos.ArtifactQuery{
		UserID:     userID,
		Type:       opts.Type,
		SessionID:  opts.SessionID,
		PinnedOnly: opts.PinnedOnly,
		Limit:      opts.Limit,
	})
	if err != nil {
		return nil, readError(op, err)
	}
	return rows, nil
}
