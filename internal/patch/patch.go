// Package patch reads and writes quilt patches: the metadata carried in a
// patch's mail header, the series manifest, and the transformation that turns
// a freshly formatted patch into its place in the patch directory.
package patch

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"net/textproto"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// DefaultStrip is the -p level used when the series does not name one
const DefaultStrip = 1

var (
	subjectTagRegex   = regexp.MustCompile(`^\s*\[[^\]]*PATCH[^\]]*\]\s*`)
	numberPrefixRegex = regexp.MustCompile(`^[0-9]+-(.+)$`)
	headerLineRegex   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:`)
)

// Patch is a single entry of a patch series
type Patch struct {
	Path     string
	Topic    string
	Strip    int
	Author   string
	Email    string
	Date     string
	Subject  string
	LongDesc string
}

func (p *Patch) String() string {
	return p.Path
}

// Message composes the commit message for the patch: subject, a blank line
// and the long description, followed by a Gbp-Pq-Topic line when topic is
// set.
func (p *Patch) Message(topic string) string {
	msg := p.Subject + "\n\n" + p.LongDesc
	if topic != "" {
		msg += fmt.Sprintf("\n%s: %s", TopicTrailer, topic)
	}
	return msg
}

// Load reads the patch at path and fills in its metadata
func Load(fs afero.Fs, path, topic string, strip int) (*Patch, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open patch %s: %w", path, err)
	}

	p := &Patch{Path: path, Topic: topic, Strip: strip}
	if err := p.parse(data); err != nil {
		return nil, fmt.Errorf("failed to read patch %s: %w", path, err)
	}
	if p.Subject == "" {
		p.Subject = subjectFromFilename(path)
	}
	return p, nil
}

// parse extracts author, date, subject and description from a git
// format-patch style header or a DEP-3 header. Anything that is not a
// well-formed header block, such as a quilt "Index:" line, only contributes a
// description.
func (p *Patch) parse(data []byte) error {
	text := string(data)

	// Skip an mbox separator line
	if strings.HasPrefix(text, "From ") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}

	fields, body, ok := readHeaderBlock(text)
	if !ok {
		return p.readDescription(strings.NewReader(text))
	}
	desc := p.readHeader(fields)
	if err := p.readDescription(strings.NewReader(body)); err != nil {
		return err
	}
	if desc != "" {
		if p.LongDesc != "" {
			desc += "\n"
		}
		p.LongDesc = desc + p.LongDesc
	}
	return nil
}

// headerFields maps canonical header names to their lines, continuation
// lines included
type headerFields map[string][]string

func (h headerFields) get(key string) string {
	return strings.TrimSpace(strings.Join(h[key], " "))
}

// readHeaderBlock splits text into a header block and the rest. The block
// ends at a blank line or at the start of the diff. It is only accepted when
// every line is a header or continuation line and at least one field that
// carries patch metadata is present.
func readHeaderBlock(text string) (headerFields, string, bool) {
	fields := headerFields{}
	var last string
	known := false

	rest := text
	for rest != "" {
		line := rest
		next := ""
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, next = rest[:i], rest[i+1:]
		}
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.TrimSpace(line) == "":
			return fields, next, known
		case isDiffStart(line):
			return fields, rest, known
		case line[0] == ' ' || line[0] == '\t':
			if last == "" {
				return nil, "", false
			}
			fields[last] = append(fields[last], strings.TrimSpace(line))
		case headerLineRegex.MatchString(line):
			key, value, _ := strings.Cut(line, ":")
			last = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key))
			fields[last] = []string{strings.TrimSpace(value)}
			if metadataFields[last] {
				known = true
			}
		default:
			return nil, "", false
		}
		rest = next
	}
	return fields, "", known
}

var metadataFields = map[string]bool{
	"From":        true,
	"Author":      true,
	"Subject":     true,
	"Description": true,
	"Date":        true,
}

// readHeader fills in the metadata from a header block and returns the
// extended DEP-3 description, if any
func (p *Patch) readHeader(h headerFields) string {
	dec := new(mime.WordDecoder)

	from := h.get("From")
	if from == "" {
		from = h.get("Author")
	}
	if from != "" {
		if addr, err := mail.ParseAddress(from); err == nil {
			p.Author = addr.Name
			p.Email = addr.Address
		} else if name, err := dec.DecodeHeader(from); err == nil {
			p.Author = strings.TrimSpace(name)
		} else {
			p.Author = from
		}
	}

	p.Date = h.get("Date")

	if subject := h.get("Subject"); subject != "" {
		if decoded, err := dec.DecodeHeader(subject); err == nil {
			subject = decoded
		}
		p.Subject = strings.TrimSpace(subjectTagRegex.ReplaceAllString(subject, ""))
		return ""
	}

	// DEP-3: the first line is the summary, continuation lines the long
	// description with "." standing for an empty line
	lines := h["Description"]
	if len(lines) == 0 {
		return ""
	}
	p.Subject = lines[0]
	var desc []string
	for _, line := range lines[1:] {
		if line == "." {
			line = ""
		}
		desc = append(desc, line)
	}
	d := strings.Trim(strings.Join(desc, "\n"), "\n")
	if d == "" {
		return ""
	}
	return d + "\n"
}

func isDiffStart(line string) bool {
	return line == "---" || strings.HasPrefix(line, "diff ") || strings.HasPrefix(line, "Index: ") || strings.HasPrefix(line, "--- ")
}

// readDescription collects the text before the diff
func (p *Patch) readDescription(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if isDiffStart(line) {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	p.LongDesc = strings.Trim(strings.Join(lines, "\n"), "\n")
	if p.LongDesc != "" {
		p.LongDesc += "\n"
	}
	return nil
}

// subjectFromFilename derives a subject from a patch file name:
// 0001-fix-the-build.patch becomes "fix the build"
func subjectFromFilename(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".patch", ".diff"} {
		name = strings.TrimSuffix(name, ext)
	}
	if m := numberPrefixRegex.FindStringSubmatch(name); m != nil {
		name = m[1]
	}
	return strings.ReplaceAll(name, "-", " ")
}
