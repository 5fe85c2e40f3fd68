package viewer

import (
	"fmt"
	"log"
	"path/filepath"

	"radview/internal/app"
	"radview/internal/measure"
	"radview/internal/render"
	"radview/internal/syncview"
	"radview/internal/version"
	"radview/internal/viewport"
	"radview/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const handToolLabel = "Hand (pan)"

// MainWindow is the primary application window. It lays out one viewport
// per open study and keeps them linked through a sync coordinator.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	state      *app.State
	prefs      *prefs.Prefs
	imagesRoot string

	coord    *syncview.Coordinator
	canvases []*ViewportCanvas
	active   *ViewportCanvas

	grid       *fyne.Container
	toolSelect *widget.Select
	statusBar  *widget.Label

	measureList  *widget.List
	listItems    []measure.Measurement
	listSelected int
}

// New creates the main window. imagesRoot is the directory image ids are
// resolved against when opening files from the menu.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, imagesRoot string) *MainWindow {
	win := fyneApp.NewWindow("RadView")

	mw := &MainWindow{
		Window:       win,
		app:          fyneApp,
		state:        state,
		prefs:        p,
		imagesRoot:   imagesRoot,
		coord:        syncview.NewCoordinator(maskFromPrefs(p)),
		listSelected: -1,
	}

	mw.setupUI()
	mw.setupMenus()

	win.Resize(fyne.NewSize(
		float32(p.Float(prefs.KeyWindowWidth, 1280)),
		float32(p.Float(prefs.KeyWindowHeight, 800)),
	))
	return mw
}

func maskFromPrefs(p *prefs.Prefs) syncview.Mask {
	def := syncview.DefaultMask()
	return syncview.Mask{
		Zoom:        p.Bool(prefs.KeySyncZoom, def.Zoom),
		Pan:         p.Bool(prefs.KeySyncPan, def.Pan),
		WindowLevel: p.Bool(prefs.KeySyncWindowing, def.WindowLevel),
		Rotation:    p.Bool(prefs.KeySyncRotation, def.Rotation),
	}
}

// setupUI creates the main layout: toolbar, viewport grid, side panel.
func (mw *MainWindow) setupUI() {
	mw.grid = container.New(layout.NewGridLayoutWithColumns(1))
	mw.statusBar = widget.NewLabel("No image loaded")

	content := container.NewBorder(
		mw.createToolbar(),
		container.NewPadded(mw.statusBar),
		nil,
		mw.createSidePanel(),
		mw.grid,
	)
	mw.SetContent(content)
}

// OpenStudy opens an image id in a new viewport and joins it to the sync
// group.
func (mw *MainWindow) OpenStudy(id string) {
	// An already-open study just takes focus.
	for _, vc := range mw.canvases {
		if vc.Instance().ID() == id {
			mw.setActive(vc)
			return
		}
	}

	st, err := mw.state.OpenStudy(id)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if st.LoadErr != nil {
		log.Printf("image %s unavailable: %v", id, st.LoadErr)
	}

	vc := NewViewportCanvas(st.Viewport)
	vc.SetInterpolation(interpolationFromName(mw.prefs.String(prefs.KeyInterpolation, "nearest")))
	vc.OnActivity(func() {
		mw.setActive(vc)
	})
	vc.OnMeasured(func(m *measure.Measurement) {
		mw.refreshMeasurements()
	})

	mw.coord.Register(st.Viewport)
	st.Viewport.OnChange(func(string, viewport.State) {
		if mw.active == vc {
			mw.updateStatus()
		}
	})

	// Restore the last tool used for this exam category.
	if last := mw.prefs.String(prefs.KeyLastToolPrefix+string(st.Category), ""); last != "" {
		for i := range st.Tools {
			if st.Tools[i].ID == last {
				st.Viewport.Session().SelectTool(&st.Tools[i])
				break
			}
		}
	}

	mw.canvases = append(mw.canvases, vc)
	mw.relayoutGrid()
	mw.setActive(vc)
}

// relayoutGrid rebuilds the viewport grid, one column per open study.
func (mw *MainWindow) relayoutGrid() {
	mw.grid.RemoveAll()
	if n := len(mw.canvases); n > 0 {
		mw.grid.Layout = layout.NewGridLayoutWithColumns(n)
	}
	for _, vc := range mw.canvases {
		mw.grid.Add(vc)
	}
	mw.grid.Refresh()
}

// setActive moves keyboard and sync focus to a viewport.
func (mw *MainWindow) setActive(vc *ViewportCanvas) {
	if mw.active == vc {
		return
	}
	mw.active = vc
	mw.coord.SetFocused(vc.Instance().ID())
	mw.refreshToolSelect()
	mw.refreshMeasurements()
	mw.updateStatus()
}

func (mw *MainWindow) activeStudy() *app.Study {
	if mw.active == nil {
		return nil
	}
	return mw.state.Study(mw.active.Instance().ID())
}

// createToolbar creates view controls shared by all viewports.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	resetViewBtn := widget.NewButton("Reset View", func() {
		mw.eachTarget(func(vc *ViewportCanvas) { vc.Instance().ResetView() })
	})
	resetAdjBtn := widget.NewButton("Reset W/L", func() {
		mw.eachTarget(func(vc *ViewportCanvas) { vc.Instance().ResetAdjustments() })
	})
	rotateLeftBtn := widget.NewButton("⟲ 90", func() {
		mw.rotateActive(-90)
	})
	rotateRightBtn := widget.NewButton("⟳ 90", func() {
		mw.rotateActive(90)
	})
	invertCheck := widget.NewCheck("Invert", func(on bool) {
		mw.eachTarget(func(vc *ViewportCanvas) { vc.Instance().SetInvert(on) })
	})

	dragMode := widget.NewSelect([]string{"Pan", "Window/Level"}, func(s string) {
		mode := DragPan
		if s == "Window/Level" {
			mode = DragWindowLevel
		}
		for _, vc := range mw.canvases {
			vc.SetDragMode(mode)
		}
	})
	dragMode.SetSelected("Pan")

	interp := widget.NewSelect([]string{"nearest", "bilinear"}, func(s string) {
		mw.prefs.SetString(prefs.KeyInterpolation, s)
		for _, vc := range mw.canvases {
			vc.SetInterpolation(interpolationFromName(s))
		}
	})
	interp.SetSelected(mw.prefs.String(prefs.KeyInterpolation, "nearest"))

	return container.NewHBox(
		widget.NewLabel("Drag:"),
		dragMode,
		widget.NewSeparator(),
		rotateLeftBtn,
		rotateRightBtn,
		resetViewBtn,
		resetAdjBtn,
		invertCheck,
		widget.NewSeparator(),
		widget.NewLabel("Filter:"),
		interp,
	)
}

// eachTarget applies an action to the active viewport only. Sync fan-out is
// the coordinator's job, not the toolbar's.
func (mw *MainWindow) eachTarget(action func(vc *ViewportCanvas)) {
	if mw.active == nil {
		return
	}
	action(mw.active)
	mw.active.Refresh()
}

func (mw *MainWindow) rotateActive(deltaDeg float64) {
	if mw.active == nil {
		return
	}
	in := mw.active.Instance()
	in.SetRotation(in.GetState().RotationDeg + deltaDeg)
	mw.active.Refresh()
}

// createSidePanel creates the tool picker, sync toggles, and measurement
// list.
func (mw *MainWindow) createSidePanel() fyne.CanvasObject {
	mw.toolSelect = widget.NewSelect([]string{handToolLabel}, mw.onToolSelected)
	mw.toolSelect.SetSelected(handToolLabel)

	mw.measureList = widget.NewList(
		func() int { return len(mw.listItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			m := mw.listItems[i]
			name := m.ToolID
			if tool, ok := measure.FindTool(m.ToolID); ok {
				name = tool.DisplayName
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s: %s", name, m.Value))
		},
	)
	mw.measureList.OnSelected = func(i widget.ListItemID) {
		mw.listSelected = i
	}
	mw.measureList.OnUnselected = func(widget.ListItemID) {
		mw.listSelected = -1
	}

	deleteBtn := widget.NewButton("Delete Measurement", mw.onDeleteMeasurement)
	saveBtn := widget.NewButton("Save Report", mw.onSaveReport)

	syncBox := container.NewVBox(
		widget.NewLabel("Synchronize"),
		mw.syncCheck("Zoom", prefs.KeySyncZoom, true, func(m *syncview.Mask, v bool) { m.Zoom = v }),
		mw.syncCheck("Pan", prefs.KeySyncPan, true, func(m *syncview.Mask, v bool) { m.Pan = v }),
		mw.syncCheck("Window/Level", prefs.KeySyncWindowing, true, func(m *syncview.Mask, v bool) { m.WindowLevel = v }),
		mw.syncCheck("Rotation", prefs.KeySyncRotation, false, func(m *syncview.Mask, v bool) { m.Rotation = v }),
	)

	top := container.NewVBox(
		widget.NewLabel("Tool"),
		mw.toolSelect,
		widget.NewSeparator(),
		syncBox,
		widget.NewSeparator(),
		widget.NewLabel("Measurements"),
	)
	bottom := container.NewVBox(deleteBtn, saveBtn)

	panel := container.NewBorder(top, bottom, nil, nil, mw.measureList)
	panel.Resize(fyne.NewSize(260, 600))
	return panel
}

func (mw *MainWindow) syncCheck(label, prefKey string, def bool, set func(m *syncview.Mask, v bool)) *widget.Check {
	check := widget.NewCheck(label, func(on bool) {
		mask := mw.coord.Mask()
		set(&mask, on)
		mw.coord.SetMask(mask)
		mw.prefs.SetBool(prefKey, on)
	})
	check.SetChecked(mw.prefs.Bool(prefKey, def))
	return check
}

// onToolSelected activates a measurement tool on the focused viewport.
// Switching tools discards any half-collected points.
func (mw *MainWindow) onToolSelected(name string) {
	st := mw.activeStudy()
	if st == nil {
		return
	}
	session := st.Viewport.Session()
	active := session.ActiveTool()
	if name == handToolLabel {
		if active != nil {
			session.SelectTool(nil)
		}
	} else {
		for i := range st.Tools {
			if st.Tools[i].DisplayName != name {
				continue
			}
			// Re-selecting the active tool (e.g. on focus change) must not
			// discard points in progress.
			if active == nil || active.ID != st.Tools[i].ID {
				session.SelectTool(&st.Tools[i])
				mw.prefs.SetString(prefs.KeyLastToolPrefix+string(st.Category), st.Tools[i].ID)
			}
			break
		}
	}
	if mw.active != nil {
		mw.active.Refresh()
	}
}

// refreshToolSelect rebuilds the tool picker for the focused study's exam
// category.
func (mw *MainWindow) refreshToolSelect() {
	st := mw.activeStudy()
	if st == nil {
		return
	}
	names := []string{handToolLabel}
	for _, tool := range st.Tools {
		names = append(names, tool.DisplayName)
	}
	mw.toolSelect.Options = names

	current := handToolLabel
	if active := st.Viewport.Session().ActiveTool(); active != nil {
		current = active.DisplayName
	}
	mw.toolSelect.SetSelected(current)
	mw.toolSelect.Refresh()
}

func (mw *MainWindow) refreshMeasurements() {
	if mw.active == nil {
		mw.listItems = nil
	} else {
		mw.listItems = mw.active.Instance().Measurements()
	}
	mw.listSelected = -1
	mw.measureList.UnselectAll()
	mw.measureList.Refresh()
}

func (mw *MainWindow) onDeleteMeasurement() {
	if mw.active == nil || mw.listSelected < 0 || mw.listSelected >= len(mw.listItems) {
		return
	}
	mw.active.Instance().RemoveMeasurement(mw.listItems[mw.listSelected].ID)
	mw.refreshMeasurements()
	mw.active.Refresh()
}

func (mw *MainWindow) onSaveReport() {
	st := mw.activeStudy()
	if st == nil {
		return
	}
	if err := mw.state.SaveStudy(st.ID); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText(fmt.Sprintf("Saved report for %s", st.ID))
}

// updateStatus shows the focused viewport's transform and windowing state.
func (mw *MainWindow) updateStatus() {
	if mw.active == nil {
		mw.statusBar.SetText("No image loaded")
		return
	}
	in := mw.active.Instance()
	s := in.GetState()
	text := fmt.Sprintf("%s  |  zoom %.2fx  rot %.0f°  W/L %.0f/%.0f",
		in.ID(), s.Scale, in.Transform().NormalizedRotation(), s.WindowWidth, s.WindowCenter)
	if _, err := in.Raster(); err != nil {
		text += "  |  image unavailable"
	}
	mw.statusBar.SetText(text)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Report", mw.onSaveReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", func() {
			mw.eachTarget(func(vc *ViewportCanvas) { vc.Instance().ResetView() })
		}),
		fyne.NewMenuItem("Reset Adjustments", func() {
			mw.eachTarget(func(vc *ViewportCanvas) { vc.Instance().ResetAdjustments() })
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("RadView",
				fmt.Sprintf("RadView %s\nBuilt %s (%s)",
					version.Version, version.BuildTime, version.GitCommit),
				mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		id, relErr := filepath.Rel(mw.imagesRoot, path)
		if relErr != nil {
			id = filepath.Base(path)
		}
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		mw.OpenStudy(id)
	}, mw.Window)
	fd.Show()
}

// SavePreferences persists window geometry and preferences.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

func interpolationFromName(name string) render.Interpolation {
	if name == "bilinear" {
		return render.Bilinear
	}
	return render.Nearest
}
