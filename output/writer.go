// Package output serializes normalized records as JSON document.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"genjson/record"
)

// ErrDestinationWrite wraps any failure to produce destination file.
var ErrDestinationWrite = errors.New("unable to write destination")

const indent = "  "

// Encode writes records to w as JSON array indented with two spaces. Keys
// keep record column order, non-ASCII and HTML-significant characters are
// emitted as is. No trailing newline is written.
func Encode(w io.Writer, records []*record.Record) error {
	compact, err := marshal(records)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return err
	}
	_, err = out.WriteTo(w)
	return err
}

func marshal(records []*record.Record) ([]byte, error) {
	var buf bytes.Buffer

	// Encoder terminates every value with newline, Indent drops it later as
	// insignificant whitespace
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		err := r.Each(func(column string, value any) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := enc.Encode(column); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := enc.Encode(value); err != nil {
				return fmt.Errorf("record %d, column %q: %w", i+1, column, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Write stores records as JSON document at path. Document is first written
// into temporary file next to destination and renamed over it only when
// complete, so failed write never leaves partial or damaged destination
// behind.
func Write(path string, records []*record.Record) (err error) {
	// nothing touches file system if data cannot be serialized
	var doc bytes.Buffer
	if err := Encode(&doc, records); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	name, closed := tmp.Name(), false
	defer func() {
		if !closed {
			err = multierr.Append(err, tmp.Close())
		}
		if err == nil {
			return
		}
		if er := os.Remove(name); er != nil && !errors.Is(er, os.ErrNotExist) {
			err = multierr.Append(err, er)
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	// CreateTemp makes file accessible by owner only
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}

	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDestinationWrite, path, err)
	}
	return nil
}
