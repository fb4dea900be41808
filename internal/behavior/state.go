package behavior

import "deskpets/internal/catalog"

// 行为逻辑里直接引用的状态名
const (
	Lie          = "lie"
	WithBall     = "with_ball"
	Walk         = "walk"
	WalkFast     = "walk_fast"
	Run          = "run"
	WallClimb    = "wallclimb"
	WallDig      = "walldig"
	WallNap      = "wallnap"
	WallGrab     = "wallgrab"
	FallFromGrab = "fall_from_grab"
)

// LieHold 被鼠标惊到后躺下的帧数
const LieHold = 24

// Reserved 随机选状态时排除的名字
var Reserved = map[string]bool{
	WithBall:     true,
	WallClimb:    true,
	WallDig:      true,
	WallNap:      true,
	WallGrab:     true,
	FallFromGrab: true,
}

// Locomotion 爬墙剧情第一步可选的移动状态
var Locomotion = []string{Walk, WalkFast, Run}

// Direction 朝向：+1 朝右，-1 朝左
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Flip 反向
func (d Direction) Flip() Direction { return -d }

// State 一个行为状态。除了 Counter 和 Direction，其余字段创建后不变
type State struct {
	Name           string
	Source         string
	Hold           int
	MovementSpeed  int
	SpeedAnimation float64
	Direction      Direction
	Counter        int
}

// New 用目录里的条目创建状态
func New(name string, e catalog.Entry, dir Direction) *State {
	return &State{
		Name:           name,
		Source:         e.Source,
		Hold:           e.Hold,
		MovementSpeed:  e.MovementSpeed,
		SpeedAnimation: e.SpeedAnimation,
		Direction:      dir,
	}
}

// Advance 每个动画帧调用一次，返回是否已经到了可以切换的时候
// SpeedAnimation 为 0 的状态时间是静止的：计数不动，永远不会自然结束
func (s *State) Advance() bool {
	if s.SpeedAnimation == 0 {
		return false
	}
	s.Counter++
	return s.Counter >= s.Hold
}

// Frozen 时间是否静止
func (s *State) Frozen() bool { return s.SpeedAnimation == 0 }
