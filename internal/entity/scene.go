package entity

import (
	"fmt"

	"deskpets/internal/behavior"
)

// 爬墙剧情：走到屏幕右边 → 往上爬 → 挖 → 打盹 → 抓住 → 松手掉下来
// 每个阶段只能进入 phase.Next()，不会跳过

func (p *Pet) stepScene() error {
	switch p.phase {
	case behavior.PhaseApproach:
		if p.x < p.screenW-p.set.Width() {
			p.x += p.state.MovementSpeed
			return nil
		}
		return p.enter(p.phase.Next())

	case behavior.PhaseClimb:
		mid := p.screenH / 2
		band := mid + p.screenH/4
		// 爬到 (mid, band) 这一段时，每一下都有小概率就地停下
		if p.y > mid && (p.y >= band || p.rng.Float64() >= ClimbStopChance) {
			p.y -= p.state.MovementSpeed
			return nil
		}
		return p.enter(p.phase.Next())

	case behavior.PhaseDig, behavior.PhaseRest, behavior.PhaseGrab:
		if p.state.Advance() {
			return p.enter(p.phase.Next())
		}
		return nil

	case behavior.PhaseFall:
		if p.y < p.baseY {
			p.y = min(p.y+p.state.MovementSpeed, p.baseY)
			p.x -= p.state.MovementSpeed / 2
			return nil
		}
		return p.endScene()

	case behavior.PhaseNone:
	}
	return nil
}

// enter 进入剧情的下一个阶段
func (p *Pet) enter(next behavior.Phase) error {
	step := behavior.Steps[next]
	e := p.palette[step.State]
	if next == behavior.PhaseGrab {
		e.MovementSpeed = 0
	}
	p.phase = next
	p.state = behavior.New(step.State, e, step.Direction)

	if next != behavior.PhaseFall {
		return p.rebuild()
	}
	return p.freeze()
}

// freeze 掉落时不播放自己的动画，定格在抓墙动作的最后一帧
// 失败时抓墙的帧集合保留着，下次 Update 重新定格
func (p *Pet) freeze() error {
	frozen, err := p.pipeline.Freeze(p.set, p.set.Len()-1)
	if err != nil {
		p.pending = true
		return fmt.Errorf("entity: %s/%s freeze %s: %w", p.species, p.color, behavior.WallGrab, err)
	}
	p.swap(frozen)
	return nil
}

// endScene 落回地面，剧情结束，回到普通随机状态
func (p *Pet) endScene() error {
	p.y = p.baseY
	p.phase = behavior.PhaseNone
	p.immune = false
	p.state = p.randomState()
	return p.rebuild()
}
