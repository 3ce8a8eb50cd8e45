package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// ---- Clock & ID ----
type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Recorder は各ミューテーションから呼ばれる監査ログの書き口。
// 書き込み失敗で呼び出し元の状態変更を巻き戻さない（監査はベストエフォート）。
type Recorder struct {
	store *Store
	clock Clock
	id    IDGen
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{store: NewStore(db), clock: realClock{}, id: ulidGen{}}
}

// Record は1イベントを追記する。成功なら true。
// 失敗時はログに残して false を返すだけで、エラーは呼び出し元に伝播させない。
func (r *Recorder) Record(ctx context.Context, ev Event) bool {
	now := r.clock.Now()
	ev.HistoryULID = r.id.NewULID(now)
	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = now
	}
	if ev.PerformedBy == "" {
		ev.PerformedBy = "unknown"
	}
	if err := r.store.Append(ctx, &ev); err != nil {
		log.Printf("[WARN] history append failed (entity=%s code=%s action=%s): %v",
			ev.EntityType, ev.EntityCode, ev.Action, err)
		return false
	}
	return true
}
