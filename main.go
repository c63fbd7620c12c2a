package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dimfu/metronome/config"
)

// defaultHold outlasts the debounce window but not the speed repeat delay, so
// a tap is one step and terminal key repeat keeps the button down.
const defaultHold = 20 * time.Millisecond

var (
	settings = config.DefaultSettings()

	// flags
	flags struct {
		preset     string
		presetFile string
		logLevel   string
		mute       bool
		hold       time.Duration
		length     time.Duration
	}
)

var rootCmd = &cobra.Command{
	Use:   "clack",
	Short: "A metronome running on an emulated microcontroller",
	Long: `clack emulates a small metronome board: a buzzer, an LED, a 3-digit
display and three buttons. The arrow keys play the speed buttons and t the
time signature button.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runMetronome,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&settings.Speed, "tempo", settings.Speed,
		"the speed at which a passage of this metronome should be played")
	pf.StringVar(&settings.TimeSignature, "timesig", settings.TimeSignature,
		"indicate how many beats are in each measure")
	pf.StringVarP(&flags.preset, "preset", "p", "",
		"start from a preset in the presets file")
	pf.StringVar(&flags.presetFile, "presets", "",
		"presets file (default ~/"+config.PRESET_FILE+")")
	pf.BoolVar(&settings.UnifiedCompare, "unified-compare", false,
		"apply the -1 compare bias on every tone reprogram, not only at power on")
	pf.StringVarP(&flags.logLevel, "log-level", "l", "info",
		"log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVar(&flags.mute, "mute", false,
		"do not open the audio device")
	rootCmd.Flags().DurationVar(&flags.hold, "hold", defaultHold,
		"how long a key press holds a button down")

	rootCmd.AddCommand(recordCmd, presetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(flags.logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if flags.preset != "" {
		presets, err := loadPresets()
		if err != nil {
			return err
		}
		p, err := config.FindPreset(presets, flags.preset)
		if err != nil {
			return err
		}
		err = applyPreset(&settings, p, cmd.Flags().Changed("tempo"), cmd.Flags().Changed("timesig"))
		if err != nil {
			return err
		}
	}

	return settings.Validate()
}

// applyPreset lets explicit flags win over the preset.
func applyPreset(s *config.Settings, p config.Preset, keepTempo, keepTimesig bool) error {
	speed, ts := s.Speed, s.TimeSignature
	if err := s.Apply(p); err != nil {
		return err
	}
	if keepTempo {
		s.Speed = speed
	}
	if keepTimesig {
		s.TimeSignature = ts
	}
	return nil
}

func loadPresets() ([]config.Preset, error) {
	path := flags.presetFile
	if path == "" {
		var err error
		if path, err = config.DefaultPresetPath(); err != nil {
			return nil, err
		}
	}
	return config.LoadPresets(path)
}
