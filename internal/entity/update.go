package entity

import "deskpets/internal/behavior"

// Update 推进一帧的行为，由调度循环在该宠物到点时调用
//
// 优先级：
//  1. 爬墙剧情进行中，只走剧情
//  2. 鼠标靠近且不免疫，强制躺下
//  3. 当前状态到期，选下一个状态 (可能进入爬墙剧情)
//
// 最后把 x 限制在活动范围内。返回错误时宠物保持旧的帧集合，下次 Update 重试
func (p *Pet) Update() error {
	if p.pending {
		if err := p.retry(); err != nil {
			return err
		}
	}

	var err error
	if p.phase != behavior.PhaseNone {
		err = p.stepScene()
	} else {
		err = p.stepFree()
	}
	p.clamp()
	return err
}

// retry 重做上次失败的帧集合；掉落阶段重做的是定格，不是掉落动画
func (p *Pet) retry() error {
	if p.phase == behavior.PhaseFall {
		return p.freeze()
	}
	return p.rebuild()
}

func (p *Pet) stepFree() error {
	if p.lieOK && !p.immune && p.cursorDistance() < float64(p.lieHeight) {
		e := p.palette[behavior.Lie]
		e.Hold = behavior.LieHold
		p.state = behavior.New(behavior.Lie, e, p.state.Direction)
		p.immune = true
		return p.rebuild()
	}

	if !p.state.Frozen() {
		p.x += int(p.state.Direction) * p.state.MovementSpeed
	}
	if !p.state.Advance() {
		return nil
	}
	return p.expire()
}

// expire 当前状态自然结束
func (p *Pet) expire() error {
	if p.scene && p.rng.Float64() < SequenceChance {
		names := p.locomotion()
		name := names[p.rng.IntN(len(names))]
		p.phase = behavior.PhaseApproach
		p.immune = true
		p.state = behavior.New(name, p.palette[name], behavior.Right)
		return p.rebuild()
	}

	p.state = p.randomState()
	p.immune = false
	return p.rebuild()
}

// clamp 超出范围就拉回来并掉头
// 挖墙时不掉头；剧情里的朝向由剧情自己决定
func (p *Pet) clamp() {
	minX, maxX := p.Bounds()
	turn := p.phase == behavior.PhaseNone && p.state.Name != behavior.WallDig
	if p.x < minX {
		p.x = minX
		if turn {
			p.state.Direction = p.state.Direction.Flip()
		}
	}
	if p.x > maxX {
		p.x = maxX
		if turn {
			p.state.Direction = p.state.Direction.Flip()
		}
	}
}
