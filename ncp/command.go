package ncp

import (
	"fmt"
	"sort"
	"strings"
)

type Kind byte

const (
	Unknown                Kind = iota
	Move                        // G01
	ClockwiseCircle             // G02
	CounterClockwiseCircle      // G03
	SetAbsoluteMode             // G90
	SetIncrementalMode          // G91
	Stop                        // M00
	End                         // M02
	StopAndRewind               // M30
)

var (
	mnemonics = [...]string{
		Unknown:                "",
		Move:                   "G01",
		ClockwiseCircle:        "G02",
		CounterClockwiseCircle: "G03",
		SetAbsoluteMode:        "G90",
		SetIncrementalMode:     "G91",
		Stop:                   "M00",
		End:                    "M02",
		StopAndRewind:          "M30",
	}

	kindMap = map[string]Kind{
		"G01": Move,
		"G02": ClockwiseCircle,
		"G03": CounterClockwiseCircle,
		"G90": SetAbsoluteMode,
		"G91": SetIncrementalMode,
		"M00": Stop,
		"M02": End,
		"M30": StopAndRewind,
	}
)

// LookupKind returns the kind for a directive token. Only the exact mnemonic
// matches: G1 is not G01.
func LookupKind(code string) Kind {
	return kindMap[code]
}

func (k Kind) String() string {
	if int(k) < len(mnemonics) && k != Unknown {
		return mnemonics[k]
	}
	return "unknown"
}

type Command struct {
	Kind Kind
	Code string // directive token as written, e.g. G01 or G17
	Args map[byte]float64
}

func newCommand(code string) Command {
	return Command{
		Kind: LookupKind(code),
		Code: code,
		Args: map[byte]float64{},
	}
}

// Arg returns the value of the argument named by letter, or def when the
// command does not carry it.
func (cmd Command) Arg(letter byte, def float64) float64 {
	if val, ok := cmd.Args[letter]; ok {
		return val
	}
	return def
}

func (cmd Command) String() string {
	letters := make([]byte, 0, len(cmd.Args))
	for l := range cmd.Args {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	var sb strings.Builder
	sb.WriteString(cmd.Code)
	for _, l := range letters {
		fmt.Fprintf(&sb, " %c%g", l, cmd.Args[l])
	}
	return sb.String()
}

// Program is an NCP file: commands in execution order.
type Program struct {
	Commands []Command
}
