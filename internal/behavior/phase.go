package behavior

// Phase 爬墙剧情的阶段，PhaseNone 表示不在剧情中
// 阶段严格按顺序推进：Approach → Climb → Dig → Rest → Grab → Fall → None
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseApproach
	PhaseClimb
	PhaseDig
	PhaseRest
	PhaseGrab
	PhaseFall
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseApproach:
		return "approach"
	case PhaseClimb:
		return "climb"
	case PhaseDig:
		return "dig"
	case PhaseRest:
		return "rest"
	case PhaseGrab:
		return "grab"
	case PhaseFall:
		return "fall"
	}
	return "unknown"
}

// Next 下一个阶段，Fall 之后回到 None
func (p Phase) Next() Phase {
	if p >= PhaseFall {
		return PhaseNone
	}
	return p + 1
}

// Step 每个阶段进入时使用的状态和朝向
type Step struct {
	State     string
	Direction Direction
}

// Steps 除 Approach 外每个阶段的入口状态 (Approach 从 Locomotion 里随机选)
var Steps = map[Phase]Step{
	PhaseClimb: {WallClimb, Right},
	PhaseDig:   {WallDig, Right},
	PhaseRest:  {WallNap, Left},
	PhaseGrab:  {WallGrab, Right},
	PhaseFall:  {FallFromGrab, Left},
}
