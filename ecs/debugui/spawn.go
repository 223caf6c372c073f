package debugui

import "github.com/plus3/chargepong/ecs"

// RegisterComponents registers the components ImguiSystem reads.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// SpawnDebugUI adds the input state singleton and the performance and entity
// browser panels to the scheduler's storage. Both panels start hidden.
func SpawnDebugUI(scheduler *ecs.Scheduler) {
	storage := scheduler.Storage()
	ecs.NewSingleton[ImguiInputState](storage)
	storage.Spawn(ImguiItem{
		Title:  "Performance Stats",
		Hidden: true,
		Render: NewPerformanceStats(scheduler, 120).Render,
	})
	storage.Spawn(ImguiItem{
		Title:  "Entity Browser",
		Hidden: true,
		Render: NewEntityBrowser(storage, 100).Render,
	})
}
