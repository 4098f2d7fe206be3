// Package console drives the timer from a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"pomodoro/internal/core/session"
	"pomodoro/internal/format"
	"pomodoro/internal/i18n"
)

// Controller is the part of session.Controller the console needs.
type Controller interface {
	ToggleRun()
	Stop()
	AdjustFocus(delta int)
	AdjustBreak(delta int)
	Snapshot() session.Snapshot
	Subscribe(buffer int) <-chan session.Event
}

const barWidth = 20

const helpText = `commands:
  p, <enter>  start / pause / resume
  s           stop
  f+, f-      focus duration +/- 5 minutes
  b+, b-      break duration +/- 1 minute
  ?           this help
  q           quit`

var (
	focusColor = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	breakColor = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	pauseColor = color.New(color.FgHiYellow).SprintFunc()
	dimColor   = color.New(color.FgHiBlack).SprintFunc()
	errorColor = color.New(color.FgHiRed).SprintFunc()
)

// Console reads commands from a reader and writes status lines.
type Console struct {
	controller Controller
	mu         sync.Mutex
	out        io.Writer
}

// New creates a Console writing to out.
func New(controller Controller, out io.Writer) *Console {
	return &Console{controller: controller, out: out}
}

// Run processes commands from in until "q", end of input or ctx is done.
// Ticks and phase changes are rendered as they happen.
func (console *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)

	events := console.controller.Subscribe(8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		console.watch(ctx, events)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	console.println(helpText)
	console.render(console.controller.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := console.handle(strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func (console *Console) handle(command string) bool {
	switch strings.ToLower(command) {
	case "", "p":
		console.controller.ToggleRun()
	case "s":
		console.controller.Stop()
	case "f+":
		console.controller.AdjustFocus(5)
	case "f-":
		console.controller.AdjustFocus(-5)
	case "b+":
		console.controller.AdjustBreak(1)
	case "b-":
		console.controller.AdjustBreak(-1)
	case "?", "h", "help":
		console.println(helpText)
		return false
	case "q", "quit":
		return true
	default:
		console.println(errorColor(fmt.Sprintf("unknown command %q", command)))
		return false
	}
	console.render(console.controller.Snapshot())
	return false
}

func (console *Console) watch(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case session.EventPhaseChange:
				console.println(fmt.Sprintf("%s %s", dimColor("*"), phaseLabel(event.Snapshot.Phase)))
			case session.EventTick:
				console.render(event.Snapshot)
			}
		}
	}
}

func (console *Console) render(snapshot session.Snapshot) {
	console.println(StatusLine(snapshot))
}

func (console *Console) println(line string) {
	console.mu.Lock()
	defer console.mu.Unlock()
	fmt.Fprintln(console.out, line)
}

// StatusLine renders a snapshot as one line.
func StatusLine(snapshot session.Snapshot) string {
	durations := dimColor(fmt.Sprintf("[%s | %s]",
		fmt.Sprintf(i18n.T("Focus Duration: %s"), format.MinutesToDuration(snapshot.Config.FocusMinutes)),
		fmt.Sprintf(i18n.T("Break Duration: %s"), format.MinutesToDuration(snapshot.Config.BreakMinutes)),
	))
	if !snapshot.Active() {
		return fmt.Sprintf("%s %s", i18n.T("Idle"), durations)
	}

	title := fmt.Sprintf(i18n.T("%s for %s minutes"),
		phaseLabel(snapshot.Phase), format.MinutesToDuration(snapshot.PhaseMinutes))
	remaining := fmt.Sprintf(i18n.T("%s remaining"), format.SecondsToDuration(snapshot.Remaining))
	line := fmt.Sprintf("%s  %s  %s %3.0f%%", title, remaining, ProgressBar(snapshot.Progress, barWidth), snapshot.Progress)
	if !snapshot.Running() {
		line += "  " + pauseColor(i18n.T("PAUSED"))
	}
	return line + " " + durations
}

// ProgressBar renders a percentage as a fixed-width bar.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func phaseLabel(phase session.Phase) string {
	if phase == session.PhaseOnBreak {
		return breakColor(i18n.T(phase.String()))
	}
	return focusColor(i18n.T(phase.String()))
}
