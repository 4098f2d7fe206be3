// Package timerwindow renders the timer controls and the live session.
package timerwindow

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/session"
	"pomodoro/internal/format"
	"pomodoro/internal/i18n"
)

// Controller is the command surface the window drives.
type Controller interface {
	ToggleRun()
	Stop()
	AdjustFocus(delta int)
	AdjustBreak(delta int)
	Snapshot() session.Snapshot
}

var (
	focusColor  = color.NRGBA{R: 229, G: 72, B: 77, A: 255}
	breakColor  = color.NRGBA{R: 70, G: 167, B: 88, A: 255}
	pausedColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
)

// Window manages the main timer window.
type Window struct {
	window     fyne.Window
	controller Controller

	focusLabel *widget.Label
	breakLabel *widget.Label
	focusDown  *widget.Button
	focusUp    *widget.Button
	breakDown  *widget.Button
	breakUp    *widget.Button
	playPause  *widget.Button
	stop       *widget.Button

	titleLabel     *canvas.Text
	remainingLabel *widget.Label
	pausedLabel    *canvas.Text
	progress       *widget.ProgressBar
	sessionArea    *fyne.Container
}

// New creates the timer window. Closing it hides it; quitting is left to the
// tray or the application.
func New(app fyne.App, controller Controller) *Window {
	window := app.NewWindow("Pomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	timer := &Window{
		window:         window,
		controller:     controller,
		focusLabel:     widget.NewLabel(""),
		breakLabel:     widget.NewLabel(""),
		remainingLabel: widget.NewLabel(""),
		progress:       widget.NewProgressBar(),
	}

	timer.focusDown = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		controller.AdjustFocus(-5)
		timer.refresh()
	})
	timer.focusUp = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		controller.AdjustFocus(5)
		timer.refresh()
	})
	timer.breakDown = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		controller.AdjustBreak(-1)
		timer.refresh()
	})
	timer.breakUp = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		controller.AdjustBreak(1)
		timer.refresh()
	})
	timer.playPause = widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), func() {
		controller.ToggleRun()
		timer.refresh()
	})
	timer.playPause.Importance = widget.HighImportance
	timer.stop = widget.NewButtonWithIcon(i18n.T("Stop"), theme.MediaStopIcon(), func() {
		controller.Stop()
		timer.refresh()
	})

	timer.titleLabel = canvas.NewText("", focusColor)
	timer.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	timer.titleLabel.TextSize = 22
	timer.titleLabel.Alignment = fyne.TextAlignCenter

	timer.pausedLabel = canvas.NewText(i18n.T("PAUSED"), pausedColor)
	timer.pausedLabel.TextStyle = fyne.TextStyle{Bold: true}
	timer.pausedLabel.TextSize = 18
	timer.pausedLabel.Alignment = fyne.TextAlignCenter

	timer.remainingLabel.Alignment = fyne.TextAlignCenter
	timer.progress.Min = 0
	timer.progress.Max = 100
	timer.progress.TextFormatter = func() string {
		return fmt.Sprintf("%.0f%%", timer.progress.Value)
	}

	durations := container.NewGridWithColumns(2,
		container.NewHBox(timer.focusLabel, layout.NewSpacer(), timer.focusDown, timer.focusUp),
		container.NewHBox(timer.breakLabel, layout.NewSpacer(), timer.breakDown, timer.breakUp),
	)
	controls := container.NewHBox(timer.playPause, timer.stop)
	timer.sessionArea = container.NewVBox(
		timer.titleLabel,
		timer.remainingLabel,
		timer.pausedLabel,
		timer.progress,
	)

	window.SetContent(container.NewPadded(container.NewVBox(
		durations,
		controls,
		widget.NewSeparator(),
		timer.sessionArea,
	)))
	window.Resize(fyne.NewSize(520, 280))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	timer.apply(controller.Snapshot())
	return timer
}

// Show displays the window.
func (timer *Window) Show() {
	timer.window.Show()
	timer.window.RequestFocus()
}

// Hide hides the window.
func (timer *Window) Hide() {
	timer.window.Hide()
}

// Update renders snapshot from any goroutine.
func (timer *Window) Update(snapshot session.Snapshot) {
	fyne.Do(func() {
		timer.apply(snapshot)
	})
}

func (timer *Window) refresh() {
	timer.apply(timer.controller.Snapshot())
}

// apply must run on the UI goroutine.
func (timer *Window) apply(snapshot session.Snapshot) {
	timer.focusLabel.SetText(fmt.Sprintf(i18n.T("Focus Duration: %s"), format.MinutesToDuration(snapshot.Config.FocusMinutes)))
	timer.breakLabel.SetText(fmt.Sprintf(i18n.T("Break Duration: %s"), format.MinutesToDuration(snapshot.Config.BreakMinutes)))

	for _, button := range []*widget.Button{timer.focusDown, timer.focusUp, timer.breakDown, timer.breakUp} {
		if snapshot.Running() {
			button.Disable()
		} else {
			button.Enable()
		}
	}

	if snapshot.Running() {
		timer.playPause.SetText(i18n.T("Pause"))
		timer.playPause.SetIcon(theme.MediaPauseIcon())
		timer.stop.Enable()
	} else {
		timer.playPause.SetText(i18n.T("Start"))
		timer.playPause.SetIcon(theme.MediaPlayIcon())
		timer.stop.Disable()
	}

	if !snapshot.Active() {
		timer.sessionArea.Hide()
		return
	}

	timer.titleLabel.Text = fmt.Sprintf(i18n.T("%s for %s minutes"),
		i18n.T(snapshot.Phase.String()), format.MinutesToDuration(snapshot.PhaseMinutes))
	timer.titleLabel.Color = focusColor
	if snapshot.Phase == session.PhaseOnBreak {
		timer.titleLabel.Color = breakColor
	}
	timer.titleLabel.Refresh()

	timer.remainingLabel.SetText(fmt.Sprintf(i18n.T("%s remaining"), format.SecondsToDuration(snapshot.Remaining)))
	if snapshot.Running() {
		timer.pausedLabel.Hide()
	} else {
		timer.pausedLabel.Show()
	}
	timer.progress.SetValue(snapshot.Progress)
	timer.sessionArea.Show()
}
