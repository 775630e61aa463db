package table

import (
	"errors"
	"strings"
)

// SampleSize is the number of leading bytes the dialect is sniffed from.
const SampleSize = 1024

// ErrNoDelimiter is returned when no character splits the sample consistently.
var ErrNoDelimiter = errors.New("could not determine delimiter")

// preferred breaks ties between several consistent delimiters.
var preferred = []rune{',', '\t', ';', ' ', ':'}

const (
	chunkLength    = 10
	minConsistency = 0.9
)

// Dialect describes how the table is delimited.
type Dialect struct {
	Delimiter        rune
	SkipInitialSpace bool
}

// mode is the most common per-line frequency of a character, with its
// count already reduced by the lines that disagree with it.
type mode struct {
	freq  int
	count int
}

// freqCount keeps per-character frequency tallies in first-seen order, so
// that ties resolve to the frequency observed first.
type freqCount struct {
	freqs  []int
	counts []int
}

func (f *freqCount) add(freq int) {
	for i, v := range f.freqs {
		if v == freq {
			f.counts[i]++
			return
		}
	}
	f.freqs = append(f.freqs, freq)
	f.counts = append(f.counts, 1)
}

func (f *freqCount) mode() (mode, bool) {
	if len(f.freqs) == 1 && f.freqs[0] == 0 {
		return mode{}, false
	}
	best := 0
	for i := range f.counts {
		if f.counts[i] > f.counts[best] {
			best = i
		}
	}
	m := mode{freq: f.freqs[best], count: f.counts[best]}
	for i := range f.counts {
		if i != best {
			m.count -= f.counts[i]
		}
	}
	return m, true
}

// candidates are the characters considered as delimiters: tab and every
// printable ASCII character that is neither alphanumeric nor a quote.
var candidates = func() []rune {
	out := []rune{'\t'}
	for c := rune(0x20); c < 0x7f; c++ {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '"', c == '\'':
		default:
			out = append(out, c)
		}
	}
	return out
}()

// sampleLines splits a sample into its non-empty lines. When the sample was
// cut from a longer input, the trailing line is incomplete and is dropped.
func sampleLines(sample []byte, truncated bool) []string {
	text := strings.ReplaceAll(string(sample), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	if truncated && len(parts) > 1 && !strings.HasSuffix(text, "\n") {
		parts = parts[:len(parts)-1]
	}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

// countOutsideQuotes counts c in line, ignoring double-quoted sections.
func countOutsideQuotes(line string, c rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && r == c:
			n++
		}
	}
	return n
}

// Sniff guesses the dialect of a table from a sample of its leading bytes.
// The delimiter is the character that occurs the same number of times on
// (nearly) every line. Lines are examined in growing chunks until some
// candidates qualify; a single candidate wins outright, several are ranked
// by preference.
func Sniff(sample []byte, truncated bool) (Dialect, error) {
	lines := sampleLines(sample, truncated)
	if len(lines) == 0 {
		return Dialect{}, ErrNoDelimiter
	}

	chunk := min(chunkLength, len(lines))
	tallies := make(map[rune]*freqCount, len(candidates))
	delims := make(map[rune]mode)

	for start, iteration := 0, 1; start < len(lines); start, iteration = start+chunk, iteration+1 {
		end := min(start+chunk, len(lines))
		for _, line := range lines[start:end] {
			for _, c := range candidates {
				fc, ok := tallies[c]
				if !ok {
					fc = &freqCount{}
					tallies[c] = fc
				}
				fc.add(countOutsideQuotes(line, c))
			}
		}

		modes := make(map[rune]mode)
		for c, fc := range tallies {
			if m, ok := fc.mode(); ok {
				modes[c] = m
			}
		}

		total := float64(min(chunk*iteration, len(lines)))
		for consistency := 1.0; len(delims) == 0 && consistency >= minConsistency; consistency -= 0.01 {
			for c, m := range modes {
				if m.freq > 0 && m.count > 0 && float64(m.count)/total >= consistency {
					delims[c] = m
				}
			}
		}

		if len(delims) == 1 {
			for c := range delims {
				return newDialect(c, lines[0]), nil
			}
		}
	}

	if len(delims) == 0 {
		return Dialect{}, ErrNoDelimiter
	}
	for _, c := range preferred {
		if _, ok := delims[c]; ok {
			return newDialect(c, lines[0]), nil
		}
	}

	var best rune
	var bestMode mode
	first := true
	for c, m := range delims {
		if first || m.freq > bestMode.freq ||
			(m.freq == bestMode.freq && m.count > bestMode.count) ||
			(m.freq == bestMode.freq && m.count == bestMode.count && c > best) {
			best, bestMode, first = c, m, false
		}
	}
	return newDialect(best, lines[0]), nil
}

func newDialect(delim rune, firstLine string) Dialect {
	return Dialect{
		Delimiter:        delim,
		SkipInitialSpace: strings.Count(firstLine, string(delim)) == strings.Count(firstLine, string(delim)+" "),
	}
}
