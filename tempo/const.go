package tempo

const (
	MIN_SPEED = 30  // slowest tempo in BPM
	MAX_SPEED = 250 // fastest tempo in BPM

	DEFAULT_SPEED = 60
)
