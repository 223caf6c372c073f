package ebitenhost

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/chargepong/ecs/debugui"
	"github.com/plus3/chargepong/pong"
)

// DebugOptions builds a game whose world can carry the Dear ImGui overlay.
// Pass them to pong.NewGame before handing the game to New with WithImgui.
func DebugOptions() []pong.Option {
	return []pong.Option{
		pong.WithComponents(debugui.RegisterComponents),
		pong.WithSystems(&debugui.ImguiSystem{}),
	}
}

// matchPanel shows the match state and queues button presses. Widgets render
// while the game's scheduler flushes, so the actions run after Update returns.
type matchPanel struct {
	game  *pong.Game
	reset bool
	fire  [2]bool
}

func (p *matchPanel) Render() {
	s := p.game.State()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 470), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 240), imgui.CondOnce)
	if !imgui.BeginV("Match", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Clock: %.2fs", s.Clock))
	imgui.Text(fmt.Sprintf("Bullets in flight: %d", len(s.Bullets)))
	if side, lost := p.game.Loser(); lost {
		imgui.TextColored(imgui.NewVec4(1.0, 0.4, 0.4, 1.0), fmt.Sprintf("%s is out of HP", side))
	}

	for _, ps := range s.Paddles {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("%s  pos (%.2f, %.2f)  %s", ps.Side, ps.Position.X(), ps.Position.Y(), ps.Dir))
		imgui.ProgressBarV(float32(ps.HP)/float32(ps.MaxHP), imgui.NewVec2(-1, 0), fmt.Sprintf("HP %d/%d", ps.HP, ps.MaxHP))
		imgui.Text(fmt.Sprintf("Charge level %d (%.2fs)", ps.Level, ps.StoreTime))
		if imgui.Button(fmt.Sprintf("Fire %s", ps.Side)) {
			p.fire[ps.Side] = true
		}
	}

	imgui.Separator()
	if imgui.Button("Reset") {
		p.reset = true
	}
	imgui.End()
}

// apply runs the actions queued by the last Render.
func (p *matchPanel) apply() {
	if p.reset {
		p.game.Reset()
	}
	for side, fire := range p.fire {
		if fire {
			p.game.Fire(pong.Side(side))
		}
	}
	p.reset = false
	p.fire = [2]bool{}
}
