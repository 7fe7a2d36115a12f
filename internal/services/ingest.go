package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// Extraction is what the extraction collaborator proposes for one closed session.
type Extraction struct {
	Themes    []domainagg.ThemeCandidate `json:"themes"`
	Artifacts []ArtifactDraft            `json:"artifacts"`
}

func (e Extraction) Empty() bool {
	return len(e.Themes) == 0 && len(e.Artifacts) == 0
}

type IngestResult struct {
	Themes    domainagg.ApplyThemesResult `json:"themes"`
	Artifacts []*types.Artifact           `json:"artifacts"`
}

// IngestService persists an extraction. Every write is keyed by the session,
// so replaying the same extraction changes nothing.
type IngestService interface {
	IngestExtraction(ctx context.Context, userID, sessionID uuid.UUID, ext Extraction) (IngestResult, error)
	GenerateArtifacts(ctx context.Context, userID, sessionID uuid.UUID, drafts []ArtifactDraft) ([]*types.Artifact, error)
}

type ingestService struct {
	log       *logger.Logger
	themes    ThemeService
	artifacts ArtifactService
}

func NewIngestService(log *logger.Logger, themes ThemeService, artifacts ArtifactService) IngestService {
	return &ingestService{
		log:       log.With("service", "IngestService"),
		themes:    themes,
		artifacts: artifacts,
	}
}

func (s *ingestService) IngestExtraction(ctx context.Context, userID, sessionID uuid.UUID, ext Extraction) (IngestResult, error) {
	const op = "Memory.Ingest"
	out := IngestResult{Artifacts: []*types.Artifact{}}
	// Reject a bad draft before anything is written.
	if err := validateDrafts(op, ext.Artifacts); err != nil {
		return out, err
	}
	themes, err := s.themes.ApplyThemes(ctx, userID, sessionID, ext.Themes)
	if err != nil {
		return out, err
	}
	out.Themes = themes
	arts, err := s.GenerateArtifacts(ctx, userID, sessionID, ext.Artifacts)
	if err != nil {
		return out, err
	}
	out.Artifacts = arts
	s.log.Info("Extraction ingested",
		"user_id", userID.String(),
		"session_id", sessionID.String(),
		"themes", len(themes.Outcomes),
		"artifacts", len(arts),
	)
	return out, nil
}

func (s *ingestService) GenerateArtifacts(ctx context.Context, userID, sessionID uuid.UUID, drafts []ArtifactDraft) ([]*types.Artifact, error) {
	const op = "Memory.Ingest.Artifacts"
	if err := validateDrafts(op, drafts); err != nil {
		return nil, err
	}
	sid := sessionID
	out := make([]*types.Artifact, 0, len(drafts))
	for _, d := range drafts {
		res, err := s.artifacts.Generate(ctx, userID, &sid, d)
		if err != nil {
			return out, err
		}
		out = append(out, res.Artifact)
	}
	return out, nil
}

func validateDrafts(op string, drafts []ArtifactDraft) error {
	seen := map[string]int{}
	for i, d := range drafts {
		content, err := d.Decode()
		if err != nil {
			return invalidInput(op, fmt.Sprintf("artifacts[%d]: %v", i, err))
		}
		t := string(content.ArtifactType())
		if j, dup := seen[t]; dup {
			return invalidInput(op, fmt.Sprintf("artifacts[%d] repeats type %s from artifacts[%d]", i, t, j))
		}
		seen[t] = i
	}
	return nil
}
