package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dimfu/metronome/audio"
	"github.com/dimfu/metronome/board"
	"github.com/dimfu/metronome/display"
	"github.com/dimfu/metronome/firmware"
	"github.com/dimfu/metronome/tempo"
)

const (
	audioLatency = 100 * time.Millisecond
	refreshRate  = 50 * time.Millisecond
)

func runMetronome(cmd *cobra.Command, args []string) error {
	log := logrus.StandardLogger()

	var sink board.EdgeSink
	if !flags.mute {
		spk, err := audio.OpenSpeaker(settings.CPUHz, audioLatency)
		if err != nil {
			log.WithError(err).Warn("running without sound")
		} else {
			defer spk.Close()
			sink = spk
		}
	}

	dev, err := firmware.New(settings, sink, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keys, err := keyboard.GetKeys(16)
	if err != nil {
		return errors.Wrap(err, "opening keyboard")
	}
	defer keyboard.Close()
	go readKeys(keys, dev, flags.hold, stop, log)

	if isatty.IsTerminal(os.Stdout.Fd()) {
		w := uilive.New()
		w.Start()
		defer w.Stop()
		log.SetOutput(w.Bypass())
		go renderDisplay(ctx, w, dev)
	}

	dev.Machine.Realtime(true)
	err = dev.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readKeys(keys <-chan keyboard.KeyEvent, dev *firmware.Device, hold time.Duration, quit func(), log logrus.FieldLogger) {
	for ev := range keys {
		if ev.Err != nil {
			log.WithError(ev.Err).Warn("keyboard")
			continue
		}
		if isQuit(ev) {
			quit()
			return
		}
		if btn, ok := buttonFor(ev); ok {
			dev.Press(btn, hold)
		}
	}
}

func buttonFor(ev keyboard.KeyEvent) (board.Button, bool) {
	switch {
	case ev.Key == keyboard.KeyArrowUp, ev.Rune == '+', ev.Rune == '=':
		return board.BUTTON_UP, true
	case ev.Key == keyboard.KeyArrowDown, ev.Rune == '-', ev.Rune == '_':
		return board.BUTTON_DOWN, true
	case ev.Key == keyboard.KeySpace, ev.Rune == 't', ev.Rune == 'T':
		return board.BUTTON_TIMESIG, true
	}
	return 0, false
}

func isQuit(ev keyboard.KeyEvent) bool {
	return ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC || ev.Rune == 'q'
}

func renderDisplay(ctx context.Context, w io.Writer, dev *firmware.Device) {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, frame(dev.Digits(), dev.LED(), dev.Model.TimeSignature()))
		}
	}
}

func frame(digits [board.NUM_DIGITS]uint8, led bool, ts tempo.TimeSignature) string {
	rows := display.ASCII(digits)
	lamp := "○"
	if led {
		lamp = "●"
	}
	return fmt.Sprintf("%s\n%s   %s\n%s   %s\n\n↑/↓ speed   t time signature   q quit\n",
		rows[0], rows[1], lamp, rows[2], ts)
}
