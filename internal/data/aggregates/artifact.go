package aggregates

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

type ArtifactAggregateDeps struct {
	Base BaseDeps

	Sessions  repos.SessionRepo
	Artifacts repos.ArtifactRepo
}

type artifactAggregate struct {
	deps ArtifactAggregateDeps
}

func NewArtifactAggregate(deps ArtifactAggregateDeps) domainagg.ArtifactAggregate {
	deps.Base = deps.Base.withDefaults()
	return &artifactAggregate{deps: deps}
}

func (a *artifactAggregate) Contract() domainagg.Contract {
	return domainagg.ArtifactAggregateContract
}

func (a *artifactAggregate) GenerateArtifact(ctx context.Context, in domainagg.GenerateArtifactInput) (domainagg.GenerateArtifactResult, error) {
	const op = "Memory.Artifact.Generate"
	var out domainagg.GenerateArtifactResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.SessionID != nil && *in.SessionID == uuid.Nil {
		in.SessionID = nil
	}
	content, err := memory.EncodeContent(in.Content)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	typ := in.Content.ArtifactType()
	title := cleanTitle(in.Title)

	if in.SessionID == nil {
		row := &types.Artifact{
			ID:      uuid.New(),
			UserID:  in.UserID,
			Type:    typ,
			Title:   title,
			Content: content,
		}
		err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			_, err := a.deps.Artifacts.Create(dbc, row)
			return err
		})
		if err != nil {
			return out, err
		}
		return domainagg.GenerateArtifactResult{Artifact: row, Created: true}, nil
	}

	sessionID := *in.SessionID
	err = executeWriteWithRetry(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Sessions.GetForUser(dbc, in.UserID, sessionID); err != nil {
			return err
		}
		existing, err := a.deps.Artifacts.GetBySessionType(dbc, sessionID, typ)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			updates := map[string]interface{}{"content": content}
			if title != nil {
				updates["title"] = *title
			}
			if err := a.deps.Artifacts.UpdateFields(dbc, existing.ID, updates); err != nil {
				return err
			}
			reloaded, err := a.deps.Artifacts.GetForUser(dbc, in.UserID, existing.ID)
			if err != nil {
				return err
			}
			out = domainagg.GenerateArtifactResult{Artifact: reloaded, Created: false}
			return nil
		}
		row := &types.Artifact{
			ID:        uuid.New(),
			UserID:    in.UserID,
			SessionID: &sessionID,
			Type:      typ,
			Title:     title,
			Content:   content,
		}
		created, err := a.deps.Artifacts.CreateIfAbsent(dbc, row)
		if err != nil {
			return err
		}
		if !created {
			return ConflictError("artifact for session and type created concurrently")
		}
		out = domainagg.GenerateArtifactResult{Artifact: row, Created: true}
		return nil
	})
	if err != nil {
		return domainagg.GenerateArtifactResult{}, err
	}
	return out, nil
}

func (a *artifactAggregate) SetPinned(ctx context.Context, in domainagg.SetPinnedInput) (*types.Artifact, error) {
	const op = "Memory.Artifact.SetPinned"
	if in.UserID == uuid.Nil || in.ArtifactID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or artifact_id", nil)
	}
	return a.update(ctx, op, in.UserID, in.ArtifactID, map[string]interface{}{"is_pinned": in.Pinned})
}

func (a *artifactAggregate) RenameArtifact(ctx context.Context, in domainagg.RenameArtifactInput) (*types.Artifact, error) {
	const op = "Memory.Artifact.Rename"
	if in.UserID == uuid.Nil || in.ArtifactID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or artifact_id", nil)
	}
	return a.update(ctx, op, in.UserID, in.ArtifactID, map[string]interface{}{"title": cleanTitle(in.Title)})
}

func (a *artifactAggregate) update(ctx context.Context, op string, userID, artifactID uuid.UUID, updates map[string]interface{}) (*types.Artifact, error) {
	var out *types.Artifact
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Artifacts.GetForUser(dbc, userID, artifactID); err != nil {
			return err
		}
		if err := a.deps.Artifacts.UpdateFields(dbc, artifactID, updates); err != nil {
			return err
		}
		var err error
		out, err = a.deps.Artifacts.GetForUser(dbc, userID, artifactID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
