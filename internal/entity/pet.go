package entity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"deskpets/internal/behavior"
	"deskpets/internal/catalog"
	"deskpets/internal/frames"
	"deskpets/internal/roster"
)

var (
	ErrNoStates       = errors.New("entity: no selectable states")
	ErrSequenceTiming = errors.New("entity: wall scene state cannot progress")
)

// 随机事件的概率
const (
	SequenceChance  = 0.10 // 自然切换时进入爬墙剧情
	ClimbStopChance = 0.05 // 爬墙途中提前停下
)

// Edge 任务栏贴在屏幕哪一边 (和 Windows 的 ABE_* 取值一致)
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

// Taskbar 任务栏信息，用来算宠物站立的基线
type Taskbar struct {
	Height   int
	AutoHide bool
	Edge     Edge
}

// Host 宠物需要从宿主窗口系统查询的东西
type Host interface {
	CursorPosition() (x, y int)
	ScreenSize() (w, h int)
	Taskbar() Taskbar
}

// Rand 随机源，*rand.Rand (math/rand/v2) 满足这个接口
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Pet 桌面上的一只宠物
// 同一时刻只有一个 goroutine 在操作它 (调度循环，或者循环停下后的刷新流程)，所以没有锁
type Pet struct {
	id      int
	species string
	color   string
	fps     int
	size    frames.Size

	palette  catalog.Palette
	pipeline *frames.Pipeline
	host     Host
	rng      Rand

	screenW int
	screenH int
	baseY   int // 站立时的 y (已经让开任务栏)
	x, y    int

	state    *behavior.State
	set      *frames.Set
	frame    int
	interval time.Duration
	pending  bool // 上次生成帧集合失败，下次 Update 先重试

	immune    bool
	lieOK     bool
	lieHeight int

	scene bool // 该物种有爬墙剧情
	phase behavior.Phase

	closed bool
}

// New 按名单里的一项创建宠物
// 目录缺状态、尺寸档位不认识、动画解码失败都会返回错误，调用方跳过这只即可
func New(id int, req roster.Request, cat *catalog.Catalog, pipeline *frames.Pipeline, host Host, rng Rand) (*Pet, error) {
	if req.FPS <= 0 {
		req.FPS = roster.DefaultFPS
	}
	palette, err := cat.Palette(req.Species, req.Color, req.FPS)
	if err != nil {
		return nil, err
	}
	size, err := frames.ParseSize(req.Size)
	if err != nil {
		return nil, err
	}

	p := &Pet{
		id:       id,
		species:  req.Species,
		color:    req.Color,
		fps:      req.FPS,
		size:     size,
		palette:  palette,
		pipeline: pipeline,
		host:     host,
		rng:      rng,
		interval: time.Second / time.Duration(req.FPS),
	}
	if len(p.selectable()) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoStates, req.Species, req.Color)
	}
	if cat.WallScene(req.Species) {
		if err := p.checkScene(); err != nil {
			return nil, err
		}
		p.scene = true
	}
	_, p.lieOK = palette[behavior.Lie]

	p.state = p.randomState()
	if err := p.rebuild(); err != nil {
		return nil, err
	}

	p.screenW, p.screenH = host.ScreenSize()
	p.baseY = baseline(p.screenH, p.set.Height(), host.Taskbar())
	p.x = p.screenW - p.set.Width()
	p.y = p.baseY
	return p, nil
}

// baseline 宠物脚底贴着任务栏上沿；任务栏自动隐藏或者不在底部时贴着屏幕底边
func baseline(screenH, h int, tb Taskbar) int {
	if tb.AutoHide || tb.Edge != EdgeBottom {
		return screenH - h
	}
	return screenH - h - tb.Height
}

// checkScene 爬墙剧情用到的状态必须齐全，而且每一步都能走完
func (p *Pet) checkScene() error {
	for ph := behavior.PhaseClimb; ph <= behavior.PhaseFall; ph++ {
		if _, err := p.palette.Lookup(behavior.Steps[ph].State); err != nil {
			return fmt.Errorf("%s/%s: %w", p.species, p.color, err)
		}
	}
	if len(p.locomotion()) == 0 {
		return fmt.Errorf("%s/%s: %w: no moving locomotion state", p.species, p.color, catalog.ErrMissingState)
	}
	for _, name := range []string{behavior.WallClimb, behavior.FallFromGrab} {
		if p.palette[name].MovementSpeed <= 0 {
			return fmt.Errorf("%w: %s has no movement speed", ErrSequenceTiming, name)
		}
	}
	for _, name := range []string{behavior.WallDig, behavior.WallNap, behavior.WallGrab} {
		if p.palette[name].SpeedAnimation == 0 {
			return fmt.Errorf("%w: %s never expires", ErrSequenceTiming, name)
		}
	}
	return nil
}

// selectable 可以随机选中的状态 (已排序)
func (p *Pet) selectable() []string {
	var names []string
	for _, name := range p.palette.Names() {
		if !behavior.Reserved[name] {
			names = append(names, name)
		}
	}
	return names
}

func (p *Pet) locomotion() []string {
	var names []string
	for _, name := range behavior.Locomotion {
		if e, ok := p.palette[name]; ok && e.MovementSpeed > 0 {
			names = append(names, name)
		}
	}
	return names
}

// randomState 在非保留状态里均匀随机选一个，朝向也随机
func (p *Pet) randomState() *behavior.State {
	names := p.selectable()
	name := names[p.rng.IntN(len(names))]
	dir := behavior.Right
	if p.rng.IntN(2) == 0 {
		dir = behavior.Left
	}
	return behavior.New(name, p.palette[name], dir)
}

// rebuild 为当前状态重新生成帧集合，旧集合立即释放
func (p *Pet) rebuild() error {
	set, err := p.pipeline.Build(p.state.Source, p.size)
	if err != nil {
		p.pending = true
		return fmt.Errorf("entity: %s/%s %s: %w", p.species, p.color, p.state.Name, err)
	}
	p.swap(set)
	return nil
}

func (p *Pet) swap(set *frames.Set) {
	if p.set != nil {
		p.set.Release()
	}
	p.set = set
	p.pending = false
	p.frame = 0
	p.state.Counter = 0
	p.lieHeight = set.Height()
	if !p.state.Frozen() {
		p.interval = time.Duration(float64(time.Second) / (float64(p.fps) * p.state.SpeedAnimation))
	}
}

// Frame 当前要画的那一帧；朝左时返回翻转后的版本
// 画完之后必须调用 release
func (p *Pet) Frame() (frames.Drawable, func(), error) {
	if p.state.Direction < 0 {
		return p.set.Mirrored(p.frame)
	}
	return p.set.Drawable(p.frame), func() {}, nil
}

// AdvanceFrame 播放下一帧；时间静止的状态停在当前帧
func (p *Pet) AdvanceFrame() {
	if p.state.Frozen() {
		return
	}
	p.frame = (p.frame + 1) % p.set.Len()
}

// Close 释放所有帧资源，可以重复调用
func (p *Pet) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.set != nil {
		p.set.Release()
	}
}

func (p *Pet) ID() int { return p.id }
func (p *Pet) Species() string { return p.species }
func (p *Pet) Color() string { return p.color }
func (p *Pet) Position() (int, int) { return p.x, p.y }
func (p *Pet) Size() (int, int) { return p.set.Width(), p.set.Height() }
func (p *Pet) StateName() string { return p.state.Name }
func (p *Pet) Direction() behavior.Direction { return p.state.Direction }
func (p *Pet) Phase() behavior.Phase { return p.phase }
func (p *Pet) Immune() bool { return p.immune }
func (p *Pet) Interval() time.Duration { return p.interval }
func (p *Pet) FrameIndex() int { return p.frame }
func (p *Pet) FrameCount() int { return p.set.Len() }
func (p *Pet) Closed() bool { return p.closed }

// Bounds 水平活动范围：屏幕最右边四分之一
func (p *Pet) Bounds() (minX, maxX int) {
	return p.screenW - p.screenW/4, p.screenW - p.set.Width()
}

// cursorDistance 鼠标到宠物锚点 (左上角) 的距离
func (p *Pet) cursorDistance() float64 {
	mx, my := p.host.CursorPosition()
	return math.Hypot(float64(p.x-mx), float64(p.y-my))
}
