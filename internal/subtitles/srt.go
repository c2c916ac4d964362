package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Negative input clamps to
// zero.
func FormatTimestamp(seconds float64) string {
	d := time.Duration(math.Round(math.Max(seconds, 0)*1000)) * time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		int(d/time.Hour),
		int(d%time.Hour/time.Minute),
		int(d%time.Minute/time.Second),
		int(d%time.Second/time.Millisecond),
	)
}

// ParseTimestamp reads HH:MM:SS,mmm. A period is accepted in place of the
// comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	var h, m, s, ms int
	n, err := fmt.Sscanf(strings.Replace(value, ".", ",", 1), "%d:%d:%d,%d", &h, &m, &s, &ms)
	if err != nil || n != 4 || m > 59 || s > 59 || h < 0 || m < 0 || s < 0 || ms < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}

// WriteSRT writes cues as numbered SRT blocks.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for i, cue := range cues {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// WriteSRTFile writes cues to path.
func WriteSRTFile(path string, cues []Cue) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSRT(file, cues)
}

// ParseSRT reads SRT blocks separated by blank lines. Blocks without a
// numeric index or a valid timing line are skipped.
func ParseSRT(r io.Reader) ([]Cue, error) {
	var (
		cues  []Cue
		block []string
	)
	flush := func() {
		if cue, ok := parseBlock(block); ok {
			cues = append(cues, cue)
		}
		block = block[:0]
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()
	return cues, nil
}

// LoadSRT reads cues from an SRT file.
func LoadSRT(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseSRT(file)
}

func parseBlock(lines []string) (Cue, bool) {
	if len(lines) < 3 {
		return Cue{}, false
	}
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
		return Cue{}, false
	}
	from, to, ok := strings.Cut(lines[1], "-->")
	if !ok {
		return Cue{}, false
	}
	start, err := ParseTimestamp(from)
	if err != nil {
		return Cue{}, false
	}
	end, err := ParseTimestamp(to)
	if err != nil {
		return Cue{}, false
	}
	return Cue{Start: start, End: end, Text: strings.Join(lines[2:], "\n")}, true
}
