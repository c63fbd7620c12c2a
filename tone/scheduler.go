// Package tone turns the tempo into clicks. The scheduler is the handler of
// the tone timer: the timer fires at the tone frequency, and the handler
// decides on each match whether the compare output stays connected to the
// buzzer, which yields a short burst of square wave on every beat.
package tone

// Voice is the pitch and length of one click. BuzzPeriod counts timer
// matches, so it is always Frequency/50 (20ms).
type Voice struct {
	Frequency  uint16
	BuzzPeriod uint16
}

var (
	Accent = Voice{Frequency: 1000, BuzzPeriod: 20}
	Normal = Voice{Frequency: 2000, BuzzPeriod: 40}
)

// VoiceFor picks the voice for the click that follows beat.
func VoiceFor(beat uint32, divisor uint8) Voice {
	if divisor == 0 || beat%uint32(divisor) == 0 {
		return Accent
	}
	return Normal
}

// CounterTarget is the number of timer matches in one beat.
func CounterTarget(freq uint16, speed uint8) uint16 {
	if speed == 0 {
		speed = 1
	}
	return uint16(uint32(freq) * 60 / uint32(speed))
}

// CompareValue is the compare register value that makes a timer clocked at
// clockHz/prescaler match freq times a second. The register counts from
// zero, so the exact value is one less; bias selects it.
func CompareValue(clockHz, prescaler uint64, freq uint16, bias bool) uint16 {
	v := clockHz / prescaler / uint64(freq)
	if bias && v > 0 {
		v--
	}
	return uint16(v)
}

type Outputs interface {
	SetToneOutput(on bool)
	ToggleLED()
	SetLED(on bool)
}

type CompareRegister interface {
	SetCompare(v uint16)
}

type Tempo interface {
	Speed() uint8
	Divisor() uint8
}

type Config struct {
	ClockHz   uint64
	Prescaler uint64
	// UnifiedCompare applies the -1 bias on every reprogram, not only at
	// setup, so all clicks share one frequency formula.
	UnifiedCompare bool
}

// State is a copy of the scheduler's counters.
type State struct {
	Voice   Voice
	Counter uint16
	Target  uint16
	Active  bool
	Beat    uint32
}

// Scheduler owns every counter it touches. Only Tick runs in interrupt
// context; Restart is for the foreground with the tone timer gated off.
type Scheduler struct {
	tempo   Tempo
	out     Outputs
	timer   CompareRegister
	cfg     Config
	voice   Voice
	counter uint16
	target  uint16
	active  bool
	beat    uint32
}

// NewScheduler programs the timer for the normal voice, the way the device
// boots.
func NewScheduler(tempo Tempo, out Outputs, timer CompareRegister, cfg Config) *Scheduler {
	s := &Scheduler{
		tempo: tempo,
		out:   out,
		timer: timer,
		cfg:   cfg,
		voice: Normal,
	}
	s.target = CounterTarget(s.voice.Frequency, tempo.Speed())
	timer.SetCompare(CompareValue(cfg.ClockHz, cfg.Prescaler, s.voice.Frequency, true))
	return s
}

// Tick is the tone timer handler.
func (s *Scheduler) Tick() {
	s.out.SetToneOutput(false)
	s.counter++

	if s.counter == s.target || s.active {
		s.active = true
		s.out.ToggleLED()
		s.out.SetToneOutput(true)
	}

	if s.counter == s.target+s.voice.BuzzPeriod {
		s.active = false
		s.counter = 0
		s.out.SetLED(false)

		s.voice = VoiceFor(s.beat, s.tempo.Divisor())
		s.beat++
		s.retarget()
		s.timer.SetCompare(CompareValue(s.cfg.ClockHz, s.cfg.Prescaler, s.voice.Frequency, s.cfg.UnifiedCompare))
	}
}

// Restart starts a fresh beat from now with the current speed. A click that
// was sounding is cut short.
func (s *Scheduler) Restart() {
	s.counter = 0
	s.Mute()
	s.retarget()
}

// Mute cuts a sounding click short and leaves the beat counters alone. The
// compare output stays wired to the pin while the timer is gated, so the
// foreground calls this after gating the tone timer.
func (s *Scheduler) Mute() {
	if !s.active {
		return
	}
	s.active = false
	s.out.SetToneOutput(false)
	s.out.SetLED(false)
}

func (s *Scheduler) retarget() {
	s.target = CounterTarget(s.voice.Frequency, s.tempo.Speed())
}

func (s *Scheduler) State() State {
	return State{
		Voice:   s.voice,
		Counter: s.counter,
		Target:  s.target,
		Active:  s.active,
		Beat:    s.beat,
	}
}
