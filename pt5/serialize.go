package pt5

import (
	"io"
	"iter"
	"strconv"
	"strings"
)

// The first positioning line carries this marker; the controller expects it.
const firstLineMarker = "M91"

// Lines returns the serialized program one line at a time, without line
// terminators. Each range over the sequence starts from line one.
//
// Positioning commands (G01, G02, G03) start a new numbered line. Control
// commands (M00, M02, M30) are appended to the pending line and do not
// advance the line counter.
func (prog Program) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		lineNum := 1
		var line string

		for _, cmd := range prog.Commands {
			var letters string
			switch cmd.Kind {
			case Move:
				letters = "XY"
			case ClockwiseCircle, CounterClockwiseCircle:
				letters = "XYIJ"
			case Stop, End, StopAndRewind:
				line += " " + cmd.Kind.String()
				continue
			default:
				continue
			}

			if line != "" {
				if !yield(line) {
					return
				}
			}

			parts := []string{"N" + strconv.Itoa(lineNum), cmd.Kind.String()}
			for ldx := 0; ldx < len(letters); ldx += 1 {
				if arg := formatArg(letters[ldx], cmd.Args[letters[ldx]]); arg != "" {
					parts = append(parts, arg)
				}
			}
			if lineNum == 1 {
				parts = append(parts, firstLineMarker)
			}
			line = strings.Join(parts, " ")
			lineNum += 1
		}

		if line != "" {
			yield(line)
		}
	}
}

// formatArg formats a micrometer value. Zero is omitted entirely and the sign
// is always explicit. The text form is a thousand times finer than the
// micrometer value, so three zeros are appended rather than multiplied in.
func formatArg(letter byte, um int64) string {
	if um == 0 {
		return ""
	}

	buf := []byte{letter}
	if um > 0 {
		buf = append(buf, '+')
	}
	buf = strconv.AppendInt(buf, um, 10)
	return string(append(buf, "000"...))
}

// WriteTo writes each line of the program to w, terminated by a newline.
func (prog Program) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for line := range prog.Lines() {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (prog Program) String() string {
	var sb strings.Builder
	prog.WriteTo(&sb)
	return sb.String()
}
