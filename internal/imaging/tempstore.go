package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TempStore stages uploaded bytes as files in a single directory.
//
// Each Stage call owns the file it creates; the returned release func
// removes it and must be called on every exit path (typically deferred).
// TempStore is safe for concurrent use: file names are made unique by
// os.CreateTemp.
type TempStore struct {
	Dir string
}

// NewTempStore creates a store rooted at dir. An empty dir means os.TempDir().
func NewTempStore(dir string) *TempStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempStore{Dir: dir}
}

// Stage writes data to a new temp file whose name ends with the sanitized
// original name, so the extension survives.
//
// Returns the file path and a release func. On error nothing is left on disk
// and release is a no-op.
func (s *TempStore) Stage(name string, data []byte) (string, func(), error) {
	noop := func() {}

	f, err := os.CreateTemp(s.Dir, "upload-*-"+SecureFilename(name))
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	release := func() {
		os.Remove(path)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		release()
		return "", noop, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", noop, fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, release, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client-supplied file name to a safe ASCII base
// name.
//
// Accents are folded (NFKD, combining marks dropped), path separators become
// spaces, runs of whitespace become a single underscore, remaining unsafe
// characters are removed and leading dots or underscores are trimmed. A name
// that sanitizes to nothing becomes "file".
func SecureFilename(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	folded = strings.TrimLeft(folded, "._")

	if folded == "" {
		return "file"
	}
	return filepath.Base(folded)
}
