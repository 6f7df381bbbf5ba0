package patch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// TopicTrailer is the commit message trailer that carries a patch's topic
const TopicTrailer = "Gbp-Pq-Topic"

var topicLinePrefix = strings.ToLower(TopicTrailer) + ": "

// WriteOptions controls how WritePatch names its output
type WriteOptions struct {
	// PatchNumbers keeps the numeric prefix git format-patch puts in front of file names
	PatchNumbers bool
}

// WritePatch moves a patch produced by git format-patch at path, which must
// live inside patchDir, to its final location. The leading "From <sha>" line
// and the first Gbp-Pq-Topic line are dropped; the topic, if any, selects a
// subdirectory of patchDir. It returns the destination path and the topic.
//
// Destinations are not checked for collisions; a later patch with the same
// name overwrites an earlier one.
func WritePatch(fs afero.Fs, path, patchDir string, opts WriteOptions) (string, string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	var (
		out   strings.Builder
		topic string
		found bool
	)
	// Skip first line (From <sha1>)
	for _, line := range lines[1:] {
		if !found && strings.HasPrefix(strings.ToLower(line), topicLinePrefix) {
			topic = strings.TrimSpace(line[len(topicLinePrefix):])
			found = true
			continue
		}
		out.WriteString(line)
	}

	oldName, err := filepath.Rel(patchDir, path)
	if err != nil {
		return "", "", fmt.Errorf("%s is not below %s: %w", path, patchDir, err)
	}
	newName := filepath.Base(oldName)
	if !opts.PatchNumbers {
		if m := numberPrefixRegex.FindStringSubmatch(newName); m != nil {
			newName = m[1]
		}
	}

	topicDir := patchDir
	if topic != "" {
		topicDir = filepath.Join(patchDir, filepath.FromSlash(topic))
	}
	if err := fs.MkdirAll(topicDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", topicDir, err)
	}

	tmpName := path + ".gbp"
	if err := afero.WriteFile(fs, tmpName, []byte(out.String()), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := fs.Remove(path); err != nil {
		return "", "", fmt.Errorf("failed to remove %s: %w", path, err)
	}

	dstName := filepath.Join(topicDir, newName)
	if err := fs.Rename(tmpName, dstName); err != nil {
		return "", "", fmt.Errorf("failed to move %s to %s: %w", tmpName, dstName, err)
	}
	return dstName, topic, nil
}

// SeriesName returns the manifest entry for a patch written to dst
func SeriesName(patchDir, dst string) (string, error) {
	rel, err := filepath.Rel(patchDir, dst)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
