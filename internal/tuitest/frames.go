package tuitest

import (
	"regexp"
	"strings"
)

// Frame is the text the program drew between two erase-display sequences.
// Plain is what WaitFor matches against: escapes removed, trailing blanks
// trimmed.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	// bubbletea clears the display before each full repaint, so an erase
	// marks where one frame ends and the next begins.
	eraseDisplay = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	// escapes covers OSC strings, CSI sequences and the SO/SI charset shifts.
	escapes = regexp.MustCompile(`\x1b\][^\x07]*(?:\x07|\x1b\\)|\x1b\[[0-9;?]*[A-Za-z]|[\x0e\x0f]`)
)

func splitFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	add := func(ansi string) {
		ansi = strings.TrimPrefix(strings.Trim(ansi, "\x00"), "\x1b[H")
		if plain := plainText(ansi); plain != "" {
			frames = append(frames, Frame{Index: len(frames), ANSI: ansi, Plain: plain})
		}
	}
	from := 0
	for _, loc := range eraseDisplay.FindAllStringIndex(stream, -1) {
		add(stream[from:loc[0]])
		from = loc[1]
	}
	add(stream[from:])
	return frames
}

// Strip removes terminal escape sequences from s.
func Strip(s string) string {
	return escapes.ReplaceAllString(s, "")
}

// plainText is the normalized form both frames and the live screen are
// searched in.
func plainText(s string) string {
	lines := strings.Split(Strip(strings.ReplaceAll(s, "\r", "")), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// FinalFrame returns the last captured frame.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Contains reports whether text was ever on screen, either within one frame
// or anywhere in the raw stream when a repaint split it.
func (r *Recording) Contains(text string) bool {
	for _, f := range r.Frames {
		if strings.Contains(f.Plain, text) {
			return true
		}
	}
	return strings.Contains(plainText(string(r.Raw)), text)
}
