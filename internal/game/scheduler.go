package game

import (
	"context"
	"log"
	"time"

	"deskpets/internal/entity"
	"deskpets/internal/frames"
)

// DefaultPoll 调度循环的轮询间隔
const DefaultPoll = 10 * time.Millisecond

// Compositor 把宠物的一帧画到它自己的悬浮层上
type Compositor interface {
	Present(p *entity.Pet, d frames.Drawable) error
	Destroy(p *entity.Pet)
}

// Scheduler 固定间隔轮询所有宠物，每只宠物按自己的帧间隔更新和重画
// 只在一个 goroutine 里跑，宠物不需要加锁
type Scheduler struct {
	pets []*entity.Pet
	comp Compositor
	poll time.Duration
	now  func() time.Time
	due  []time.Time // 每只宠物下一次该更新的时间
}

func NewScheduler(pets []*entity.Pet, comp Compositor, poll time.Duration) *Scheduler {
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &Scheduler{
		pets: pets,
		comp: comp,
		poll: poll,
		now:  time.Now,
		due:  make([]time.Time, len(pets)),
	}
}

// Run 阻塞运行，直到 ctx 被取消
// 只在两轮之间检查 ctx，不会停在某只宠物画到一半的时候
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		s.Tick(s.now())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick 处理所有到点的宠物
func (s *Scheduler) Tick(now time.Time) {
	for i, p := range s.pets {
		if now.Before(s.due[i]) {
			continue
		}
		s.step(p)
		// 间隔在 step 之后取：状态变了，节奏也跟着变
		s.due[i] = now.Add(p.Interval())
	}
}

// step 更新一只宠物并画出当前帧，出错就记日志跳过这一轮
func (s *Scheduler) step(p *entity.Pet) {
	if err := p.Update(); err != nil {
		log.Printf("game: pet %d (%s/%s) update: %v", p.ID(), p.Species(), p.Color(), err)
		return
	}

	d, release, err := p.Frame()
	if err != nil {
		log.Printf("game: pet %d (%s/%s) frame: %v", p.ID(), p.Species(), p.Color(), err)
		return
	}
	err = s.comp.Present(p, d)
	release()
	if err != nil {
		log.Printf("game: pet %d (%s/%s) draw: %v", p.ID(), p.Species(), p.Color(), err)
		return
	}
	p.AdvanceFrame()
}
