package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dimfu/metronome/audio"
	"github.com/dimfu/metronome/firmware"
)

var recordCmd = &cobra.Command{
	Use:   "record FILE",
	Short: "Render the buzzer to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets file",
	Args:  cobra.NoArgs,
	RunE:  listPresets,
}

func init() {
	recordCmd.Flags().DurationVar(&flags.length, "length", 10*time.Second,
		"how much time to render")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if flags.length <= 0 {
		return errors.New("length must be positive")
	}

	tape := &audio.Tape{}
	dev, err := firmware.New(settings, tape, logrus.StandardLogger())
	if err != nil {
		return err
	}
	dev.RunFor(flags.length)

	f, err := os.Create(args[0])
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	defer f.Close()

	if err := audio.Encode(f, tape, settings.CPUHz, flags.length); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":    args[0],
		"beats":   dev.Scheduler.State().Beat,
		"tempo":   dev.Model.Speed(),
		"timesig": dev.Model.TimeSignature(),
	}).Info("recorded")
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets, err := loadPresets()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(presets) == 0 {
		fmt.Fprintln(out, "no presets")
		return nil
	}
	for _, p := range presets {
		fmt.Fprintf(out, "%-12s %4d  %s\n", p.Key, p.Tempo, p.Timesig)
	}
	return nil
}
