package irq

const (
	pitChannel0 = 0x40
	pitCommand  = 0x43

	// pitInputClock is the PIT's fixed oscillator frequency in Hz.
	pitInputClock = 1193180
)

// InitPIT programs channel 0 for square-wave mode at the given frequency.
// A zero or negative hz makes no sense for a divisor and is the caller's
// mistake, not something this function defends against.
func InitPIT(hz uint32) {
	divisor := uint16(pitInputClock / hz)
	outbFn(pitCommand, 0x36)
	outbFn(pitChannel0, uint8(divisor&0xFF))
	outbFn(pitChannel0, uint8((divisor>>8)&0xFF))
}
