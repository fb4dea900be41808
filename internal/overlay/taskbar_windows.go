//go:build windows

package overlay

import (
	"unsafe"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sys/windows"

	"deskpets/internal/entity"
)

var (
	shell32             = windows.NewLazySystemDLL("shell32.dll")
	procSHAppBarMessage = shell32.NewProc("SHAppBarMessage")
)

const (
	abmGetState      = 0x4
	abmGetTaskbarPos = 0x5
	absAutoHide      = 0x1
)

// APPBARDATA
type appBarData struct {
	cbSize           uint32
	hWnd             windows.HWND
	uCallbackMessage uint32
	uEdge            uint32
	rc               windows.Rect
	lParam           uintptr
}

// queryTaskbar 通过 SHAppBarMessage 读取任务栏位置和自动隐藏状态
func queryTaskbar(fallback entity.Taskbar) entity.Taskbar {
	if err := procSHAppBarMessage.Find(); err != nil {
		return fallback
	}

	var abd appBarData
	abd.cbSize = uint32(unsafe.Sizeof(abd))
	if ok, _, _ := procSHAppBarMessage.Call(abmGetTaskbarPos, uintptr(unsafe.Pointer(&abd))); ok == 0 {
		return fallback
	}
	state, _, _ := procSHAppBarMessage.Call(abmGetState, uintptr(unsafe.Pointer(&abd)))

	tb := entity.Taskbar{
		Edge:     entity.Edge(abd.uEdge),
		AutoHide: state&absAutoHide != 0,
	}
	// 上下边时取高度，左右边时取宽度
	if tb.Edge == entity.EdgeTop || tb.Edge == entity.EdgeBottom {
		tb.Height = int(abd.rc.Bottom - abd.rc.Top)
	} else {
		tb.Height = int(abd.rc.Right - abd.rc.Left)
	}

	// rc 是物理像素，窗口坐标是逻辑像素
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			tb.Height = int(float64(tb.Height) / s)
		}
	}
	return tb
}
