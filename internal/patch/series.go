package patch

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Series is an ordered list of patches, in application order
type Series []*Patch

// Entry is a parsed manifest line
type Entry struct {
	Name  string
	Strip int
}

// Topic returns the subdirectory an entry lives in, or "" for top level entries
func (e Entry) Topic() string {
	dir := path.Dir(e.Name)
	if dir == "." {
		return ""
	}
	return dir
}

// ParseSeries parses manifest content. Each line names a patch relative to
// the series directory, optionally followed by a -pN strip level. Blank lines
// and # comments are ignored.
func ParseSeries(data []byte) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		entry := Entry{Name: fields[0], Strip: DefaultStrip}
		for _, opt := range fields[1:] {
			if !strings.HasPrefix(opt, "-p") {
				return nil, fmt.Errorf("series line %d: unsupported option %q", lineNo, opt)
			}
			strip, err := strconv.Atoi(strings.TrimPrefix(opt, "-p"))
			if err != nil || strip < 0 {
				return nil, fmt.Errorf("series line %d: invalid strip level %q", lineNo, opt)
			}
			entry.Strip = strip
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadSeries reads the manifest at seriesPath and loads every patch it lists.
// Patch paths are resolved relative to the manifest's directory.
func ReadSeries(fs afero.Fs, seriesPath string) (Series, error) {
	data, err := afero.ReadFile(fs, seriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read series file %s: %w", seriesPath, err)
	}

	entries, err := ParseSeries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", seriesPath, err)
	}

	dir := filepath.Dir(seriesPath)
	series := make(Series, 0, len(entries))
	for _, entry := range entries {
		p, err := Load(fs, filepath.Join(dir, filepath.FromSlash(entry.Name)), entry.Topic(), entry.Strip)
		if err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, nil
}

// WriteSeries writes a manifest listing names in order. The file is written
// under a temporary name and renamed into place so that a failure never
// leaves a truncated manifest behind.
func WriteSeries(fs afero.Fs, seriesPath string, names []string) error {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteString("\n")
	}

	tmp := seriesPath + ".tmp"
	if err := afero.WriteFile(fs, tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write series file: %w", err)
	}
	if err := fs.Rename(tmp, seriesPath); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to write series file: %w", err)
	}
	return nil
}
