package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos/testutil"
	types "github.com/danfirsten/Standup/internal/domain"
	memdomain "github.com/danfirsten/Standup/internal/domain/memory"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

func TestThemeRepoCreateIfAbsentAndIncrement(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewThemeRepo(db, testutil.Logger(t))

	userID := uuid.New()
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := &types.Theme{UserID: userID, Name: "Scope Creep", NormalizedName: "scope creep", OccurrenceCount: 1, FirstSeen: t1, LastSeen: t1}
	created, err := repo.CreateIfAbsent(dbc, row)
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent first: created=%v err=%v", created, err)
	}
	dup := &types.Theme{UserID: userID, Name: "scope creep", NormalizedName: "scope creep", OccurrenceCount: 1, FirstSeen: t1, LastSeen: t1}
	created, err = repo.CreateIfAbsent(dbc, dup)
	if err != nil {
		t.Fatalf("CreateIfAbsent dup: %v", err)
	}
	if created {
		t.Fatalf("CreateIfAbsent dup: want created=false")
	}

	// Another user may own the same label.
	other := &types.Theme{UserID: uuid.New(), Name: "Scope Creep", NormalizedName: "scope creep", OccurrenceCount: 1, FirstSeen: t1, LastSeen: t1}
	if created, err := repo.CreateIfAbsent(dbc, other); err != nil || !created {
		t.Fatalf("CreateIfAbsent other user: created=%v err=%v", created, err)
	}

	earlier := t1.Add(-48 * time.Hour)
	later := t1.Add(72 * time.Hour)
	if err := repo.IncrementOccurrence(dbc, row.ID, later); err != nil {
		t.Fatalf("IncrementOccurrence later: %v", err)
	}
	if err := repo.IncrementOccurrence(dbc, row.ID, earlier); err != nil {
		t.Fatalf("IncrementOccurrence earlier: %v", err)
	}
	got, err := repo.GetByNormalizedName(dbc, userID, "scope creep")
	if err != nil {
		t.Fatalf("GetByNormalizedName: %v", err)
	}
	if got.OccurrenceCount != 3 {
		t.Fatalf("count: want=3 got=%d", got.OccurrenceCount)
	}
	if !got.FirstSeen.Equal(earlier) || !got.LastSeen.Equal(later) {
		t.Fatalf("window: want=[%v,%v] got=[%v,%v]", earlier, later, got.FirstSeen, got.LastSeen)
	}

	if err := repo.IncrementOccurrence(dbc, uuid.New(), t1); err == nil {
		t.Fatalf("IncrementOccurrence missing: want error")
	}
}

func TestThemeOccurrenceRepoInsertIfAbsent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewThemeOccurrenceRepo(db, testutil.Logger(t))

	userID := uuid.New()
	ended := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	sess := testutil.SeedSession(t, ctx, tx, userID, &ended)
	theme := testutil.SeedTheme(t, ctx, tx, userID, "Imposter Syndrome", "imposter syndrome", 0, ended)

	inserted, err := repo.InsertIfAbsent(dbc, &types.ThemeOccurrence{ThemeID: theme.ID, SessionID: sess.ID})
	if err != nil || !inserted {
		t.Fatalf("InsertIfAbsent first: inserted=%v err=%v", inserted, err)
	}
	inserted, err = repo.InsertIfAbsent(dbc, &types.ThemeOccurrence{ThemeID: theme.ID, SessionID: sess.ID})
	if err != nil {
		t.Fatalf("InsertIfAbsent dup: %v", err)
	}
	if inserted {
		t.Fatalf("InsertIfAbsent dup: want false")
	}
	linked, err := repo.ListSessionsForTheme(dbc, theme.ID, 10)
	if err != nil || len(linked) != 1 {
		t.Fatalf("ListSessionsForTheme: want=1 got=%d err=%v", len(linked), err)
	}

	sightings, err := repo.ListSightingsByUser(dbc, userID)
	if err != nil {
		t.Fatalf("ListSightingsByUser: %v", err)
	}
	if len(sightings) != 1 || sightings[0].ThemeID != theme.ID || sightings[0].EndedAt == nil || !sightings[0].EndedAt.Equal(ended) {
		t.Fatalf("ListSightingsByUser: unexpected %+v", sightings)
	}

	sessions, err := repo.ListSessionsForTheme(dbc, theme.ID, 0)
	if err != nil || len(sessions) != 1 || sessions[0].ID != sess.ID {
		t.Fatalf("ListSessionsForTheme: got=%v err=%v", sessions, err)
	}
}

func TestArtifactRepoCreateIfAbsentAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewArtifactRepo(db, testutil.Logger(t))

	userID := uuid.New()
	ended := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	sess := testutil.SeedSession(t, ctx, tx, userID, &ended)
	content := []byte(`{"text":"notes"}`)

	a := &types.Artifact{UserID: userID, SessionID: &sess.ID, Type: memdomain.ArtifactSummary, Content: content}
	created, err := repo.CreateIfAbsent(dbc, a)
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent: created=%v err=%v", created, err)
	}
	created, err = repo.CreateIfAbsent(dbc, &types.Artifact{UserID: userID, SessionID: &sess.ID, Type: memdomain.ArtifactSummary, Content: content})
	if err != nil || created {
		t.Fatalf("CreateIfAbsent dup: created=%v err=%v", created, err)
	}

	// Standalone artifacts of one type do not collide.
	for i := 0; i < 2; i++ {
		if _, err := repo.Create(dbc, &types.Artifact{UserID: userID, Type: memdomain.ArtifactInsight, Content: content}); err != nil {
			t.Fatalf("Create standalone %d: %v", i, err)
		}
	}
	if err := repo.UpdateFields(dbc, a.ID, map[string]interface{}{"is_pinned": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	all, err := repo.List(dbc, ArtifactQuery{UserID: userID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != a.ID {
		t.Fatalf("List: want pinned artifact first among 3, got %+v", all)
	}
	insight := memdomain.ArtifactInsight
	onlyInsights, err := repo.List(dbc, ArtifactQuery{UserID: userID, Type: &insight})
	if err != nil || len(onlyInsights) != 2 {
		t.Fatalf("List by type: want=2 got=%d err=%v", len(onlyInsights), err)
	}
	pinned, err := repo.List(dbc, ArtifactQuery{UserID: userID, PinnedOnly: true})
	if err != nil || len(pinned) != 1 {
		t.Fatalf("List pinned: want=1 got=%d err=%v", len(pinned), err)
	}
}

func TestGoalRepoUpdateByVersion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewGoalRepo(db, testutil.Logger(t))

	userID := uuid.New()
	g, err := repo.Create(dbc, &types.Goal{UserID: userID, Description: "Ship the migration", Status: memdomain.GoalNotStarted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err := repo.UpdateByVersion(dbc, g.ID, 0, map[string]interface{}{"description": "Ship the migration by Q2"})
	if err != nil || !ok {
		t.Fatalf("UpdateByVersion v0: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateByVersion(dbc, g.ID, 0, map[string]interface{}{"description": "stale"})
	if err != nil {
		t.Fatalf("UpdateByVersion stale: %v", err)
	}
	if ok {
		t.Fatalf("UpdateByVersion stale: want ok=false")
	}
	got, err := repo.GetForUser(dbc, userID, g.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if got.Version != 1 || got.Description != "Ship the migration by Q2" {
		t.Fatalf("after update: %+v", got)
	}

	status := memdomain.GoalNotStarted
	list, err := repo.ListByUser(dbc, userID, &status, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByUser: want=1 got=%d err=%v", len(list), err)
	}
}
