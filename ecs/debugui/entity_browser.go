package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/chargepong/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// CollectEntities lists every live entity in storage ordered by ID.
func CollectEntities(storage *ecs.Storage) []EntityInfo {
	var entities []EntityInfo
	for _, archetype := range storage.Archetypes() {
		names := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			names[i] = t.String()
		}
		for id := range archetype.Iter() {
			entities = append(entities, EntityInfo{
				ID:             id,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: names,
			})
		}
	}
	slices.SortFunc(entities, func(a, b EntityInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entities
}

// FilterEntities keeps the entities whose ID, archetype or component names
// contain text, case-insensitively. An empty filter keeps everything.
func FilterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}
	needle := strings.ToLower(text)
	var filtered []EntityInfo
	for _, e := range entities {
		if strings.Contains(fmt.Sprintf("%d", e.ID), needle) ||
			strings.Contains(fmt.Sprintf("0x%x", e.ArchetypeID), needle) ||
			strings.Contains(strings.ToLower(strings.Join(e.ComponentTypes, " ")), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

type EntityBrowser struct {
	storage  *ecs.Storage
	filter   string
	selected ecs.EntityId
	page     int
	perPage  int
}

func NewEntityBrowser(storage *ecs.Storage, perPage int) *EntityBrowser {
	if perPage < 1 {
		perPage = 1
	}
	return &EntityBrowser{storage: storage, perPage: perPage}
}

func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selected
}

func (eb *EntityBrowser) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 300), imgui.CondOnce)
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filter = ""
	}

	entities := FilterEntities(CollectEntities(eb.storage), eb.filter)
	pages := max(1, (len(entities)+eb.perPage-1)/eb.perPage)
	eb.page = min(eb.page, pages-1)
	start := eb.page * eb.perPage
	end := min(start+eb.perPage, len(entities))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		for _, e := range entities[start:end] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(e.ID.String(), eb.selected == e.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = e.ID
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", e.ArchetypeID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(e.ComponentTypes, ", "))
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(entities)))
	imgui.SameLine()
	if imgui.Button("Prev") && eb.page > 0 {
		eb.page--
	}
	imgui.SameLine()
	if imgui.Button("Next") && eb.page < pages-1 {
		eb.page++
	}

	imgui.End()
}
