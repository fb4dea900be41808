package overlay

import (
	"github.com/hajimehoshi/ebiten/v2"

	"deskpets/config"
	"deskpets/internal/entity"
)

// CursorPosition 实现 entity.Host
// 窗口在 (0,0) 且铺满屏幕，窗口坐标就是屏幕坐标
func (d *Desktop) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// ScreenSize 实现 entity.Host
func (d *Desktop) ScreenSize() (int, int) {
	return d.width, d.height
}

// Taskbar 实现 entity.Host
func (d *Desktop) Taskbar() entity.Taskbar {
	return d.taskbar
}

// configTaskbar 配置文件里的任务栏设置，系统查不到时使用
func configTaskbar(cfg *config.Config) entity.Taskbar {
	edge := entity.Edge(cfg.TaskbarEdge)
	if edge < entity.EdgeLeft || edge > entity.EdgeBottom {
		edge = entity.EdgeBottom
	}
	return entity.Taskbar{
		Height:   cfg.TaskbarHeight,
		AutoHide: cfg.TaskbarAutoHide,
		Edge:     edge,
	}
}
