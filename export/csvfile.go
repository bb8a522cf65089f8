package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
)

// CSVFile writes rows to a temporary file that only becomes visible at path
// on Commit. Abort, or a failed Commit, leaves nothing at path.
type CSVFile struct {
	tmp  *os.File
	buf  *bufio.Writer
	w    *csv.Writer
	path string
	rows int
	done bool
}

// CreateCSV opens a pending CSV file for path.
func CreateCSV(path string) (*CSVFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.IO(errors.PhaseExport, path, err)
	}
	buf := bufio.NewWriter(tmp)
	w := csv.NewWriter(buf)
	w.UseCRLF = true
	return &CSVFile{tmp: tmp, buf: buf, w: w, path: path}, nil
}

// Write appends one record.
func (f *CSVFile) Write(record []string) error {
	if f.done {
		return fmt.Errorf("csv %s: write after close", f.path)
	}
	if err := f.w.Write(record); err != nil {
		return errors.IO(errors.PhaseExport, f.path, err)
	}
	f.rows++
	return nil
}

// WriteAll appends records.
func (f *CSVFile) WriteAll(records [][]string) error {
	for _, r := range records {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns the number of records written, header included.
func (f *CSVFile) Rows() int {
	return f.rows
}

// Commit flushes, syncs and renames the temporary file into place.
func (f *CSVFile) Commit() error {
	if f.done {
		return fmt.Errorf("csv %s: already closed", f.path)
	}
	f.done = true

	f.w.Flush()
	err := f.w.Error()
	err = multierr.Append(err, f.buf.Flush())
	err = multierr.Append(err, f.tmp.Sync())
	err = multierr.Append(err, f.tmp.Close())
	if err == nil {
		err = os.Rename(f.tmp.Name(), f.path)
	}
	if err != nil {
		err = multierr.Append(err, removeIfExists(f.tmp.Name()))
		return errors.IO(errors.PhaseExport, f.path, err)
	}
	return nil
}

// Abort discards the pending file. It is safe to call after Commit.
func (f *CSVFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return multierr.Combine(f.tmp.Close(), removeIfExists(f.tmp.Name()))
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteLog writes sink entries to path. Nothing is written when the sink is empty.
func WriteLog(path string, sink *diag.Sink) (bool, error) {
	if sink.Len() == 0 {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, errors.IO(errors.PhaseExport, path, err)
	}
	_, werr := sink.WriteTo(f)
	if err := multierr.Append(werr, f.Close()); err != nil {
		return false, errors.IO(errors.PhaseExport, path, err)
	}
	return true, nil
}
