package release

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Store owns the project metadata file (package.json or any JSON document
// with a top-level "version" field). Writes replace only the bytes of the
// version value, so key order, indentation and the trailing newline survive.
type Store struct {
	fs      billy.Filesystem
	path    string
	mode    os.FileMode
	version string
	touched bool
}

// OpenStore reads the metadata file at path and records its current version.
func OpenStore(fs billy.Filesystem, path string) (*Store, error) {
	s := &Store{fs: fs, path: path, mode: 0644}
	if fi, err := fs.Stat(path); err == nil {
		s.mode = fi.Mode().Perm()
	}
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	loc, err := locateVersion(data)
	if err != nil {
		return nil, &FileSystemError{Op: "parse", Path: path, Err: err}
	}
	s.version = loc.value
	return s, nil
}

// Path is the metadata file path within the store's filesystem.
func (s *Store) Path() string { return s.path }

// Version returns the version most recently read or written.
func (s *Store) Version() string { return s.version }

// Touched reports whether Write has changed the file since it was opened.
func (s *Store) Touched() bool { return s.touched }

// Write sets the version field to version. Writing the value already on disk
// leaves the file untouched.
func (s *Store) Write(version string) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	loc, err := locateVersion(data)
	if err != nil {
		return &FileSystemError{Op: "parse", Path: s.path, Err: err}
	}
	if loc.value == version {
		s.version = version
		return nil
	}

	quoted, err := json.Marshal(version)
	if err != nil {
		return &FileSystemError{Op: "encode", Path: s.path, Err: err}
	}
	var out bytes.Buffer
	out.Grow(len(data) + len(quoted))
	out.Write(data[:loc.start])
	out.Write(quoted)
	out.Write(data[loc.end:])

	if err := util.WriteFile(s.fs, s.path, out.Bytes(), s.mode); err != nil {
		return &FileSystemError{Op: "write", Path: s.path, Err: err}
	}
	s.version = version
	s.touched = true
	return nil
}

// Revert writes original back into the metadata file.
func (s *Store) Revert(original string) error {
	if err := s.Write(original); err != nil {
		return fmt.Errorf("reverting version to %s: %w", original, err)
	}
	return nil
}

func (s *Store) read() ([]byte, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, &FileSystemError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &FileSystemError{Op: "read", Path: s.path, Err: err}
	}
	return data, nil
}

// versionLocation is the byte span of the quoted top-level version value.
type versionLocation struct {
	start, end int
	value      string
}

// locateVersion walks the top-level object of data and returns the span of
// its "version" string. The last occurrence wins, as in JSON.parse.
func locateVersion(data []byte) (versionLocation, error) {
	var loc versionLocation
	found := false

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return loc, fmt.Errorf("reading metadata: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return loc, errors.New("metadata is not a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return loc, fmt.Errorf("reading metadata key: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return loc, fmt.Errorf("reading metadata field %q: %w", key, err)
		}
		if key != "version" {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return loc, fmt.Errorf("version field is not a string: %s", raw)
		}
		end := int(dec.InputOffset())
		loc = versionLocation{start: end - len(raw), end: end, value: value}
		found = true
	}
	if _, err := dec.Token(); err != nil {
		return loc, fmt.Errorf("reading metadata: %w", err)
	}
	if !found {
		return loc, errors.New(`no top-level "version" field`)
	}
	return loc, nil
}
