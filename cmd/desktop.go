package main

import (
	"fmt"
	"log"

	"pomodoro/internal/core/session"
	"pomodoro/internal/format"
	"pomodoro/internal/i18n"
	"pomodoro/internal/ui/timerwindow"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func runDesktop(controller *session.Controller) error {
	fyneApp := app.NewWithID("com.pomodoro.app")
	activeIcon := resources.MustLogo(resources.IconActive)
	pausedIcon := resources.MustLogo(resources.IconPaused)
	fyneApp.SetIcon(activeIcon)

	window := timerwindow.New(fyneApp, controller)

	var trayManager *tray.Manager
	desktopApp, ok := fyneApp.(desktop.App)
	if ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnToggleRun: controller.ToggleRun,
			OnStop:      controller.Stop,
			OnShow:      window.Show,
			OnQuit: func() {
				controller.Close()
				fyneApp.Quit()
			},
		})
		desktopApp.SetSystemTrayIcon(pausedIcon)
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	events := controller.Subscribe(16)
	go func() {
		running := false
		for event := range events {
			snapshot := event.Snapshot
			window.Update(snapshot)
			if trayManager == nil {
				continue
			}
			fyne.Do(func() {
				trayManager.SetRunState(snapshot.Running(), snapshot.Active())
				trayManager.SetStatus(trayStatus(snapshot))
				if snapshot.Running() != running {
					running = snapshot.Running()
					if running {
						desktopApp.SetSystemTrayIcon(activeIcon)
					} else {
						desktopApp.SetSystemTrayIcon(pausedIcon)
					}
				}
			})
		}
	}()

	window.Show()
	fyneApp.Run()
	return nil
}

func trayStatus(snapshot session.Snapshot) string {
	if !snapshot.Active() {
		return i18n.T("Idle")
	}
	return fmt.Sprintf("%s %s", i18n.T(snapshot.Phase.String()), format.SecondsToDuration(snapshot.Remaining))
}
