package domain

import (
	"github.com/danfirsten/Standup/internal/domain/chat"
	"github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/domain/user"
)

type (
	Profile = user.Profile
	Level   = user.Level

	Session     = chat.Session
	Message     = chat.Message
	MessageRole = chat.MessageRole

	Theme               = memory.Theme
	ThemeOccurrence     = memory.ThemeOccurrence
	Artifact            = memory.Artifact
	ArtifactType        = memory.ArtifactType
	Goal                = memory.Goal
	GoalStatus          = memory.GoalStatus
	ReconciliationEntry = memory.ReconciliationEntry
)

// Models lists every persisted row type, in dependency order, for migrations.
func Models() []any {
	return []any{
		&user.Profile{},
		&chat.Session{},
		&chat.Message{},
		&memory.Theme{},
		&memory.ThemeOccurrence{},
		&memory.Artifact{},
		&memory.Goal{},
		&memory.ReconciliationEntry{},
	}
}
