package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"deskpets/internal/catalog"
	"deskpets/internal/entity"
	"deskpets/internal/frames"
	"deskpets/internal/roster"
)

var ErrStopped = errors.New("game: manager stopped")

// Loader 读取宠物名单
type Loader func() ([]roster.Request, error)

// Options Manager 的依赖
type Options struct {
	Catalog    *catalog.Catalog
	Pipeline   *frames.Pipeline
	Host       entity.Host
	Compositor Compositor
	Load       Loader
	Poll       time.Duration
	Rand       entity.Rand
}

// Manager 持有全部宠物和调度循环
// Start / Refresh / Stop 互斥：刷新时先等循环完全退出，再释放旧宠物，
// 新名单准备好之后才启动新的循环
type Manager struct {
	opts Options

	mu     sync.Mutex
	pets   []*entity.Pet
	nextID int
	cancel context.CancelFunc
	done   chan struct{}
	closed bool // Stop 之后不再启动新的循环
}

func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Start 加载名单并启动循环；已经在运行时等同于 Refresh
func (m *Manager) Start() error {
	return m.Refresh()
}

// Refresh 整体重建名单
// 名单文件读不出来时保持现状，返回错误
func (m *Manager) Refresh() error {
	reqs, err := m.opts.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStopped
	}

	m.stopLocked()
	m.teardownLocked()

	for _, req := range reqs {
		m.nextID++
		p, err := entity.New(m.nextID, req, m.opts.Catalog, m.opts.Pipeline, m.opts.Host, m.opts.Rand)
		if err != nil {
			log.Printf("game: skip %s/%s: %v", req.Species, req.Color, err)
			continue
		}
		m.pets = append(m.pets, p)
	}
	log.Printf("game: roster loaded, %d of %d pets", len(m.pets), len(reqs))

	m.startLocked()
	return nil
}

// Stop 停止循环并释放所有宠物，可以重复调用
// 之后的 Start / Refresh 直接返回 ErrStopped
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stopLocked()
	m.teardownLocked()
}

// Count 当前宠物数量
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pets)
}

// Running 循环是否在跑
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

func (m *Manager) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sched := NewScheduler(m.pets, m.opts.Compositor, m.opts.Poll)
	go func() {
		defer close(done)
		sched.Run(ctx)
	}()
	m.cancel = cancel
	m.done = done
}

// stopLocked 通知循环退出，并等它真的退出
func (m *Manager) stopLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.done = nil
}

// teardownLocked 只能在循环停下之后调用
func (m *Manager) teardownLocked() {
	for _, p := range m.pets {
		m.opts.Compositor.Destroy(p)
		p.Close()
	}
	m.pets = nil
}
