package guard

import (
	"sync"
	"time"
)

// Guard はカテゴリ単位の二重実行防止。
// 同一カテゴリの操作が実行中なら後続は捨てる（キューイングしない）し、
// 直前の実行から interval 未満の再実行も捨てる。ダブルクリック対策であって
// エンティティ単位の排他ではない点に注意。
type Guard struct {
	interval time.Duration

	mu   sync.Mutex
	cats map[string]*category
}

type category struct {
	mu   sync.Mutex
	last time.Time // 前回実行完了時刻（monotonic込み）
}

const DefaultInterval = 500 * time.Millisecond

func New(interval time.Duration) *Guard {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Guard{
		interval: interval,
		cats:     make(map[string]*category),
	}
}

func (g *Guard) cat(name string) *category {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.cats[name]
	if !ok {
		c = &category{}
		g.cats[name] = c
	}
	return c
}

// Do は fn を実行する。同一カテゴリ実行中、またはデバウンス間隔内なら
// fn を呼ばずに false を返す。fn のエラーはそのまま返す。
func (g *Guard) Do(name string, fn func() error) (bool, error) {
	c := g.cat(name)
	if !c.mu.TryLock() {
		return false, nil
	}
	defer c.mu.Unlock()

	if !c.last.IsZero() && time.Since(c.last) < g.interval {
		return false, nil
	}

	err := fn()
	c.last = time.Now()
	return true, err
}
