// Package main provides the entry point for the RadView application.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"radview/internal/app"
	"radview/internal/examtype"
	"radview/internal/marker"
	"radview/internal/raster"
	"radview/internal/report"
	"radview/internal/version"
	"radview/ui/prefs"
	"radview/ui/viewer"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagesRoot := flag.String("images", ".", "Directory image ids are resolved against")
	reportsDir := flag.String("reports", "", "Report store directory (default: <images>/reports)")
	useOCR := flag.Bool("ocr", false, "Read burned-in view markers with OCR to pick the tool set")
	flag.Parse()

	log.Printf("Starting RadView v%s (%s)", version.Version, version.GitCommit)

	if *reportsDir == "" {
		*reportsDir = filepath.Join(*imagesRoot, "reports")
	}

	classifiers := examtype.Chain{examtype.Metadata()}
	if *useOCR {
		reader, err := marker.NewReader()
		if err != nil {
			log.Printf("marker OCR unavailable: %v", err)
		} else {
			defer reader.Close()
			classifiers = append(classifiers, examtype.Marker(reader))
		}
	}

	state := app.NewState(
		raster.NewFileSource(*imagesRoot),
		classifiers,
		report.NewDirStore(*reportsDir),
	)
	appPrefs := prefs.Load()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	win := viewer.New(fyneApp, state, appPrefs, *imagesRoot)

	for _, id := range flag.Args() {
		win.OpenStudy(id)
	}

	setupHotReload(win, appPrefs)

	win.SetOnClosed(func() {
		win.SavePreferences()
	})
	win.ShowAndRun()
}

// setupHotReload restarts into a newer binary during development and
// flushes preferences on a timer.
func setupHotReload(win *viewer.MainWindow, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.Baseline().Format("15:04:05"))

	reloader.OnTick(func() {
		if err := appPrefs.SaveIfDirty(); err != nil {
			log.Printf("Hot reload: save preferences: %v", err)
		}
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected, restarting")
		win.SavePreferences()
		if err := reloader.Restart(); err != nil {
			log.Printf("Hot reload: restart failed: %v", err)
			os.Exit(1)
		}
	})

	reloader.Start()
}
