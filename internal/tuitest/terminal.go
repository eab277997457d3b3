package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries are the capability probes bubbletea and termenv send on
// startup, paired with the replies a dark xterm would give.
var terminalQueries = []struct {
	query, reply string
}{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
}

// responder answers terminal queries found in the program's output so it
// never blocks waiting on a real terminal.
type responder struct {
	w    io.Writer
	tail []byte
}

func (r *responder) Feed(chunk []byte) {
	r.tail = append(r.tail, chunk...)
	for r.answerOne() {
	}
	// queries can straddle reads, so keep a short tail
	if len(r.tail) > 256 {
		r.tail = append([]byte(nil), r.tail[len(r.tail)-64:]...)
	}
}

func (r *responder) answerOne() bool {
	first, at := -1, len(r.tail)
	for i, q := range terminalQueries {
		if idx := bytes.Index(r.tail, []byte(q.query)); idx >= 0 && idx < at {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := terminalQueries[first]
	r.tail = r.tail[at+len(q.query):]
	_, _ = r.w.Write([]byte(q.reply))
	return true
}
