//go:build !windows

package overlay

import "deskpets/internal/entity"

// queryTaskbar 非 Windows 平台没有统一的接口，直接用配置
func queryTaskbar(fallback entity.Taskbar) entity.Taskbar {
	return fallback
}
