// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Panels are entities carrying an ImguiItem; ImguiSystem renders the visible ones each frame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/chargepong/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
// Title names the item in the Panels window; untitled items cannot be hidden.
type ImguiItem struct {
	Title  string
	Hidden bool
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions
// to the end of the frame, after every other system has updated.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues the Panels window and all visible render functions.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	items := make([]*ImguiItem, 0, i.Items.Len())
	for item := range i.Items.Iter() {
		items = append(items, item.ImguiItem)
	}

	if len(items) == 0 {
		return
	}
	frame.Commands.Defer(func() { renderMenu(items) })
	for _, item := range items {
		if !item.Hidden && item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

// renderMenu draws a window of checkboxes that toggle each titled item.
func renderMenu(items []*ImguiItem) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	if imgui.BeginV("Panels", nil, imgui.WindowFlagsNone) {
		for _, item := range items {
			if item.Title == "" {
				continue
			}
			visible := !item.Hidden
			if imgui.Checkbox(item.Title, &visible) {
				item.Hidden = !visible
			}
		}
	}
	imgui.End()
}
