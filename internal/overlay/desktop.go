package overlay

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"deskpets/config"
	"deskpets/internal/entity"
	"deskpets/internal/frames"
	"deskpets/internal/monitor"
)

var ErrSurface = errors.New("overlay: cannot create surface")

// Desktop 唯一的渲染后端：一个铺满主显示器的 ebiten 窗口
// 无边框 + 置顶 + 鼠标穿透 + 透明背景，每只宠物在上面有一块自己的悬浮层
type Desktop struct {
	cfg     *config.Config
	mon     *monitor.Monitor
	width   int
	height  int
	taskbar entity.Taskbar

	mu       sync.Mutex
	surfaces map[int]*surface
	order    []int // 按创建顺序绘制，后来的在上面

	live atomic.Int64 // 还没释放的 Drawable 数量

	ready     chan struct{}
	readyOnce sync.Once
	quit      chan struct{}
	quitOnce  sync.Once
}

// New 创建窗口前的准备工作，mon 可以为 nil
func New(cfg *config.Config, mon *monitor.Monitor) *Desktop {
	w, h := cfg.ScreenWidth, cfg.ScreenHeight
	if m := ebiten.Monitor(); m != nil {
		if mw, mh := m.Size(); mw > 0 && mh > 0 {
			w, h = mw, mh
		}
	}
	return newDesktop(cfg, mon, w, h, queryTaskbar(configTaskbar(cfg)))
}

func newDesktop(cfg *config.Config, mon *monitor.Monitor, w, h int, tb entity.Taskbar) *Desktop {
	return &Desktop{
		cfg:      cfg,
		mon:      mon,
		width:    w,
		height:   h,
		taskbar:  tb,
		surfaces: map[int]*surface{},
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
	}
}

// Run 打开窗口并阻塞，直到 Close 被调用。必须在主 goroutine 调用
func (d *Desktop) Run() error {
	// 1. 基础窗口设置
	ebiten.SetWindowDecorated(false)       // 无边框
	ebiten.SetWindowFloating(true)         // 始终置顶
	ebiten.SetWindowMousePassthrough(true) // 鼠标穿透，不挡住桌面
	ebiten.SetWindowTitle("deskpets")
	ebiten.SetRunnableOnUnfocused(true) // 失去焦点也要继续画

	// 2. 窗口铺满主显示器，这样窗口坐标就是屏幕坐标
	ebiten.SetWindowSize(d.width, d.height)
	ebiten.SetWindowPosition(0, 0)

	// 3. 启动
	return ebiten.RunGameWithOptions(d, &ebiten.RunGameOptions{
		ScreenTransparent: true, // 透明背景
		InitUnfocused:     true,
		SkipTaskbar:       true,
	})
}

// Ready 窗口跑起来之后关闭
func (d *Desktop) Ready() <-chan struct{} { return d.ready }

// Close 让 Run 返回，可以在任意 goroutine 调用
func (d *Desktop) Close() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Update 实现 ebiten.Game。宠物的逻辑不在这里，由调度循环负责
func (d *Desktop) Update() error {
	d.readyOnce.Do(func() { close(d.ready) })
	select {
	case <-d.quit:
		return ebiten.Termination
	default:
		return nil
	}
}

// Draw 实现 ebiten.Game：把每块悬浮层按逐像素 alpha 叠到透明窗口上
func (d *Desktop) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	for _, id := range d.order {
		d.surfaces[id].composite(screen)
	}
	n := len(d.order)
	d.mu.Unlock()

	if d.cfg.ShowMonitor {
		d.drawHUD(screen, n)
	}
}

// Layout 画布大小就是窗口大小
func (d *Desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Present 实现 game.Compositor：把 dr 画到宠物自己的悬浮层上
// 悬浮层第一次用到时才创建，创建失败这一轮就跳过
func (d *Desktop) Present(p *entity.Pet, dr frames.Drawable) error {
	src, ok := dr.(*drawable)
	if !ok {
		return fmt.Errorf("overlay: foreign drawable %T", dr)
	}
	w, h := p.Size()
	x, y := p.Position()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSurface, w, h)
	}

	d.mu.Lock()
	s, ok := d.surfaces[p.ID()]
	if !ok {
		s = &surface{}
		d.surfaces[p.ID()] = s
		d.order = append(d.order, p.ID())
	}
	d.mu.Unlock()

	s.present(src.img, x, y, w, h)
	return nil
}

// Destroy 实现 game.Compositor：拆掉宠物的悬浮层
func (d *Desktop) Destroy(p *entity.Pet) {
	d.mu.Lock()
	s, ok := d.surfaces[p.ID()]
	if ok {
		delete(d.surfaces, p.ID())
		for i, id := range d.order {
			if id == p.ID() {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	d.mu.Unlock()

	if ok {
		s.release()
	}
}

// Live 还没释放的 Drawable 数量
func (d *Desktop) Live() int64 { return d.live.Load() }
