package pt5

type Kind byte

const (
	Move                   Kind = iota + 1 // G01
	ClockwiseCircle                        // G02
	CounterClockwiseCircle                 // G03
	Stop                                   // M00
	End                                    // M02
	StopAndRewind                          // M30
)

var mnemonics = [...]string{
	Move:                   "G01",
	ClockwiseCircle:        "G02",
	CounterClockwiseCircle: "G03",
	Stop:                   "M00",
	End:                    "M02",
	StopAndRewind:          "M30",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(mnemonics) {
		return mnemonics[k]
	}
	return "unknown"
}

// Command is a PT5 command. Argument values are in micrometers and are deltas
// from the previous position.
type Command struct {
	Kind Kind
	Args map[byte]int64
}

// Program is a PT5 file: commands in execution order.
type Program struct {
	Commands []Command
}
