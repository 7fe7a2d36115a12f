package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/data/repos/testutil"
	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

func TestSessionRepoCloseIfOpenIsWriteOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewSessionRepo(db, testutil.Logger(t))
	userID := uuid.New()
	created, err := repo.Create(dbc, []*types.Session{{UserID: userID, StartedAt: time.Now().UTC()}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID

	first := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	ok, err := repo.CloseIfOpen(dbc, id, first)
	if err != nil || !ok {
		t.Fatalf("CloseIfOpen first: ok=%v err=%v", ok, err)
	}
	ok, err = repo.CloseIfOpen(dbc, id, first.Add(time.Hour))
	if err != nil {
		t.Fatalf("CloseIfOpen second: %v", err)
	}
	if ok {
		t.Fatalf("CloseIfOpen second: want no-op")
	}

	got, err := repo.GetForUser(dbc, userID, id)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(first) {
		t.Fatalf("ended_at: want=%v got=%v", first, got.EndedAt)
	}

	if _, err := repo.GetForUser(dbc, uuid.New(), id); err == nil {
		t.Fatalf("GetForUser other user: want error")
	}
}

func TestSessionRepoReserveSeq(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewSessionRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.Session{{UserID: uuid.New(), StartedAt: time.Now().UTC()}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID

	for want := int64(1); want <= 3; want++ {
		seq, ok, err := repo.ReserveSeq(dbc, id)
		if err != nil || !ok {
			t.Fatalf("ReserveSeq: ok=%v err=%v", ok, err)
		}
		if seq != want {
			t.Fatalf("ReserveSeq: want=%d got=%d", want, seq)
		}
	}

	if _, err := repo.CloseIfOpen(dbc, id, time.Now().UTC()); err != nil {
		t.Fatalf("CloseIfOpen: %v", err)
	}
	if _, ok, err := repo.ReserveSeq(dbc, id); err != nil || ok {
		t.Fatalf("ReserveSeq closed: want ok=false got ok=%v err=%v", ok, err)
	}
}

func TestMessageRepoListBySessionOrdersBySeq(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	sessions := NewSessionRepo(db, testutil.Logger(t))
	messages := NewMessageRepo(db, testutil.Logger(t))
	userID := uuid.New()
	created, err := sessions.Create(dbc, []*types.Session{{UserID: userID, StartedAt: time.Now().UTC()}})
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	sid := created[0].ID
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	// Same timestamp on purpose: seq decides the order.
	rows := []*types.Message{
		{SessionID: sid, UserID: userID, Seq: 2, Role: "assistant", Content: "b", CreatedAt: at},
		{SessionID: sid, UserID: userID, Seq: 1, Role: "user", Content: "a", CreatedAt: at},
	}
	if _, err := messages.Create(dbc, rows); err != nil {
		t.Fatalf("Create messages: %v", err)
	}
	got, err := messages.ListBySession(dbc, sid, 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(got) != 2 || got[0].Content != "a" || got[1].Content != "b" {
		t.Fatalf("ListBySession: unexpected order %+v", got)
	}
	n, err := messages.CountBySession(dbc, sid)
	if err != nil || n != 2 {
		t.Fatalf("CountBySession: want=2 got=%d err=%v", n, err)
	}
}
