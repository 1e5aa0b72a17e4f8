package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	srtTimestampRegex = regexp.MustCompile(
		`(\d+):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d+):(\d{2}):(\d{2})[,.](\d{3})`,
	)
	vttTimestampRegex = regexp.MustCompile(
		`(\d+):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d+):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

// cue under construction while scanning
type cue struct {
	start, end time.Duration
	timed      bool
	lines      []string
}

// parseSRT reads SubRip cues. Cue numbers in the file are not trusted:
// entries are renumbered 1..n in file order.
func parseSRT(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *cue
	lineNum := 0

	flush := func() {
		if current != nil && current.timed && len(current.lines) > 0 {
			entries = append(entries, Entry{
				Number:    len(entries) + 1,
				StartTime: current.start,
				EndTime:   current.end,
				Text:      strings.Join(current.lines, "\n"),
			})
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &cue{}
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				continue
			}
			// tolerate a missing cue number
		}

		if !current.timed {
			matches := srtTimestampRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				start, end, err := timestampsFromMatch(matches, lineNum)
				if err != nil {
					return nil, err
				}
				current.start, current.end, current.timed = start, end, true
				continue
			}
			// not a cue header; drop the line
			current = nil
			continue
		}

		current.lines = append(current.lines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT: %w", err)
	}

	return entries, nil
}

// parseVTT reads WebVTT cues, skipping NOTE and STYLE blocks. Cue
// identifiers are optional and ignored.
func parseVTT(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *cue
	lineNum := 0
	headerParsed := false
	skipBlock := false

	flush := func() {
		if current != nil && len(current.lines) > 0 {
			entries = append(entries, Entry{
				Number:    len(entries) + 1,
				StartTime: current.start,
				EndTime:   current.end,
				Text:      strings.Join(current.lines, "\n"),
			})
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if !headerParsed && strings.HasPrefix(trimmed, "WEBVTT") {
			headerParsed = true
			skipBlock = true
			continue
		}

		if trimmed == "" {
			flush()
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}

		if current == nil &&
			(strings.HasPrefix(trimmed, "NOTE") ||
				strings.HasPrefix(trimmed, "STYLE") ||
				strings.HasPrefix(trimmed, "REGION")) {
			skipBlock = true
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); len(matches) == 9 {
			flush()
			start, end, err := timestampsFromMatch(matches, lineNum)
			if err != nil {
				return nil, err
			}
			current = &cue{start: start, end: end, timed: true}
			continue
		}

		if short := vttShortTimestampRegex.FindStringSubmatch(line); len(short) == 7 {
			flush()
			matches := []string{
				short[0],
				"00", short[1], short[2], short[3],
				"00", short[4], short[5], short[6],
			}
			start, end, err := timestampsFromMatch(matches, lineNum)
			if err != nil {
				return nil, err
			}
			current = &cue{start: start, end: end, timed: true}
			continue
		}

		// cue identifier line, or stray text outside a cue
		if current == nil {
			continue
		}
		current.lines = append(current.lines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT: %w", err)
	}

	return entries, nil
}

func timestampsFromMatch(
	matches []string,
	lineNum int,
) (time.Duration, time.Duration, error) {
	start, err := parseTimestamp(matches[1], matches[2], matches[3], matches[4])
	if err != nil {
		return 0, 0, fmt.Errorf(
			"invalid start timestamp at line %d: %w",
			lineNum,
			err,
		)
	}
	end, err := parseTimestamp(matches[5], matches[6], matches[7], matches[8])
	if err != nil {
		return 0, 0, fmt.Errorf(
			"invalid end timestamp at line %d: %w",
			lineNum,
			err,
		)
	}
	return start, end, nil
}

func parseTimestamp(
	hours, minutes, seconds, millis string,
) (time.Duration, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("%s:%s:%s out of range", hours, minutes, seconds)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
