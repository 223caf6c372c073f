package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/chargepong/ecs"
	"github.com/plus3/chargepong/ecs/debugui"
	debugui_ebiten "github.com/plus3/chargepong/ecs/debugui/ebiten"
)

// overlay implements ebiten.Game around a scheduler that runs ImguiSystem.
type overlay struct {
	backend   *debugui_ebiten.ImguiBackend
	scheduler *ecs.Scheduler
}

func (o *overlay) Update() error {
	o.backend.BeginFrame()
	o.scheduler.Once(1.0 / 60.0)
	o.backend.EndFrame()
	return nil
}

func (o *overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *overlay) Layout(outsideWidth, outsideHeight int) (int, int) {
	o.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	backend := debugui_ebiten.NewImguiBackend()
	backend.CreateWindow("ECS ImGui Example", 1280, 720)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	debugui.SpawnDebugUI(scheduler)
	storage.Spawn(debugui.ImguiItem{
		Title: "Hello",
		Render: func() {
			imgui.Begin("Hello")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})
	scheduler.Register(&debugui.ImguiSystem{})

	if err := ebiten.RunGame(&overlay{backend: backend, scheduler: scheduler}); err != nil {
		panic(err)
	}
}
