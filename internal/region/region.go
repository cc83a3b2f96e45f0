package region

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/storage"
)

const (
	// BeginMarker opens the managed block. All three target formats treat '#' as a comment.
	BeginMarker = "# >>> ghmm managed block >>>"
	// EndMarker closes the managed block.
	EndMarker = "# <<< ghmm managed block <<<"

	notice = "# Generated by ghmm. Edits inside this block are overwritten by 'ghmm apply'."
)

// ErrCorrupt indicates a missing, duplicated or misordered marker.
var ErrCorrupt = errors.New("corrupt managed region")

// WriteError reports an I/O or permission failure on a target file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Result describes the outcome of rewriting one file.
type Result struct {
	Path    string
	Changed bool // file content differs from before
	Created bool // file did not exist
}

// span is the byte range [start, end) covering both marker lines.
type span struct {
	start, end int
	bodyStart  int // first byte after the begin line
	bodyEnd    int // first byte of the end line
}

// locate finds the managed block. ok is false when neither marker is present.
func locate(content []byte) (s span, ok bool, err error) {
	begins, ends := 0, 0
	offset := 0
	for offset < len(content) {
		lineEnd := bytes.IndexByte(content[offset:], '\n')
		next := len(content)
		if lineEnd >= 0 {
			next = offset + lineEnd + 1
		}
		line := strings.TrimSpace(string(content[offset:next]))

		switch line {
		case BeginMarker:
			begins++
			if ends > 0 {
				return span{}, false, fmt.Errorf("%w: begin marker after end marker", ErrCorrupt)
			}
			s.start = offset
			s.bodyStart = next
		case EndMarker:
			ends++
			if begins == 0 {
				return span{}, false, fmt.Errorf("%w: end marker without begin marker", ErrCorrupt)
			}
			s.bodyEnd = offset
			s.end = next
		}
		offset = next
	}

	switch {
	case begins == 0 && ends == 0:
		return span{}, false, nil
	case begins > 1 || ends > 1:
		return span{}, false, fmt.Errorf("%w: %d begin and %d end markers", ErrCorrupt, begins, ends)
	case ends == 0:
		return span{}, false, fmt.Errorf("%w: missing end marker %q", ErrCorrupt, EndMarker)
	}
	return s, true, nil
}

// Render builds the full block around body. Body lines need no trailing newline.
func Render(body string) []byte {
	var b bytes.Buffer
	b.WriteString(BeginMarker)
	b.WriteByte('\n')
	b.WriteString(notice)
	b.WriteByte('\n')
	if body != "" {
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(EndMarker)
	b.WriteByte('\n')
	return b.Bytes()
}

// Splice returns content with its managed block replaced by a block holding body.
// Without an existing block, the block is appended after a blank line,
// reusing one the content already ends with.
func Splice(content []byte, body string) ([]byte, error) {
	s, ok, err := locate(content)
	if err != nil {
		return nil, err
	}
	block := Render(body)

	if !ok {
		if len(content) == 0 {
			return block, nil
		}
		out := make([]byte, 0, len(content)+len(block)+2)
		out = append(out, content...)
		for !bytes.HasSuffix(out, []byte("\n\n")) {
			out = append(out, '\n')
		}
		return append(out, block...), nil
	}

	out := make([]byte, 0, len(content)+len(block))
	out = append(out, content[:s.start]...)
	out = append(out, block...)
	return append(out, content[s.end:]...), nil
}

// Extract returns the body of the managed block without the notice line.
// ok is false when the file has no block.
func Extract(content []byte) (body string, ok bool, err error) {
	s, ok, err := locate(content)
	if err != nil || !ok {
		return "", ok, err
	}
	inner := string(content[s.bodyStart:s.bodyEnd])
	inner = strings.TrimPrefix(inner, notice+"\n")
	return inner, true, nil
}

// Apply rewrites the managed block of the file at path with body.
// A missing file is created with perm and holds only the block.
// The file is not written when its content would not change.
func Apply(ctx context.Context, path, body string, perm fs.FileMode) (Result, error) {
	l := log.FromContext(ctx)
	res := Result{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return res, &WriteError{Path: path, Err: err}
		}
		res.Created = true
	}

	updated, err := Splice(content, body)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	if !res.Created && bytes.Equal(updated, content) {
		l.Debug("managed region unchanged", "path", path)
		return res, nil
	}

	if err := storage.WriteFileAtomic(path, updated, perm); err != nil {
		return res, &WriteError{Path: path, Err: err}
	}
	res.Changed = true
	l.Debug("rewrote managed region", "path", path, "created", res.Created)
	return res, nil
}

// Read returns the body of the managed block in the file at path.
// A missing file reads as no block.
func Read(path string) (body string, ok bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	body, ok, err = Extract(content)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", path, err)
	}
	return body, ok, nil
}
