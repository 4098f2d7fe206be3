package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pomodoro/internal/audio"
	"pomodoro/internal/console"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
	"pomodoro/internal/core/tick"
	"pomodoro/internal/i18n"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "pomodoro",
		Short: "Focus/break interval timer",
		Long: `pomodoro alternates between a focus phase and a break phase,
playing a short chime at every change. It runs as a desktop window with a
tray menu, or in the terminal with --headless.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings, v.GetBool("headless"))
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "Settings file (default <user config dir>/Pomodoro/settings.yaml)")
	flags.Int("focus", 0, "Focus duration in minutes (5-60, step 5)")
	flags.Int("break", 0, "Break duration in minutes (1-15)")
	flags.Bool("headless", false, "Run in the terminal instead of a window")
	flags.Bool("mute", false, "Do not play the phase-change chime")
	flags.String("lang", "", "Interface language (en, pt, es, ru)")
	flags.String("boundary", "", "Phase boundary counting: original or normalized")

	bindConfig(v, flags)

	return cmd
}

// bindConfig maps settings keys onto flags and POMODORO_* variables.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"config":        "config",
		"focus_minutes": "focus",
		"break_minutes": "break",
		"headless":      "headless",
		"mute":          "mute",
		"language":      "lang",
		"boundary":      "boundary",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	v.SetEnvPrefix("POMODORO")
	v.AutomaticEnv()
}

// resolveSettings layers the settings file under environment variables and
// flags.
func resolveSettings(v *viper.Viper) (model.Settings, error) {
	configPath := v.GetString("config")
	if configPath == "" {
		resolved, err := storage.ResolveConfigPath(appName)
		if err != nil {
			return model.Settings{}, err
		}
		configPath = resolved
	}

	settings, err := storage.LoadSettings(configPath)
	if err != nil {
		return settings, err
	}
	applyOverrides(&settings, v)
	return settings, nil
}

func applyOverrides(settings *model.Settings, v *viper.Viper) {
	if v.IsSet("focus_minutes") {
		settings.FocusMinutes = v.GetInt("focus_minutes")
	}
	if v.IsSet("break_minutes") {
		settings.BreakMinutes = v.GetInt("break_minutes")
	}
	if v.GetBool("mute") {
		settings.SoundEnabled = false
	}
	if language := v.GetString("language"); language != "" {
		settings.Language = language
	}
	if boundary := v.GetString("boundary"); boundary != "" {
		settings.Boundary = boundary
	}
}

func run(ctx context.Context, settings model.Settings, headless bool) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	i18n.Setup(settings.Language)
	boundary, err := session.ParseBoundary(settings.Boundary)
	if err != nil {
		return err
	}

	ticks := tick.NewInterval()
	defer ticks.Close()

	controller := session.New(settings.SessionConfig(), session.Options{
		Ticks:    ticks,
		Notifier: newNotifier(settings),
		Boundary: boundary,
	})
	defer controller.Close()

	if headless {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := console.New(controller, os.Stdout).Run(ctx, os.Stdin)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return runDesktop(controller)
}

func newNotifier(settings model.Settings) session.Notifier {
	if !settings.SoundEnabled {
		return nil
	}

	var player audio.Player
	device, err := audio.NewSpeaker()
	if err != nil {
		log.Printf("audio disabled: %v", err)
	} else {
		player = device
	}

	chime := audio.New(audio.Config{URL: settings.SoundURL, Volume: settings.Volume}, player)
	if player != nil {
		chime.Preload()
	}
	return chime
}
