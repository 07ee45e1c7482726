package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	// FailAfterBytes fails writes once this many bytes were written to the
	// file through this handle. -1 disables the limit.
	FailAfterBytes int64
	// PartialWrite writes the bytes that still fit under FailAfterBytes
	// before failing, like a device running out of space mid-write.
	PartialWrite bool
	FailOnSync   bool
	FailOnClose  bool
	// FailOnTruncate makes Truncate on matching names fail.
	FailOnTruncate bool
	Err            error
}

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS    FileSystem
	mu    sync.Mutex
	rules map[string]Fault // name substring -> fault
	// Default applies to files without a matching rule.
	Default Fault
	written int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:      fsys,
		rules:   make(map[string]Fault),
		Default: Fault{FailAfterBytes: -1},
	}
}

// Written returns the total bytes written through the wrapper so far.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

// AddRule adds a fault for every file whose name contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearRules removes all rules.
func (f *FaultyFS) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.rules)
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	fault := f.Default
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: f.match(name)}, nil
}

func (f *FaultyFS) Remove(name string) error {
	return f.FS.Remove(name)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) {
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	return f.FS.ReadFile(name)
}

func (f *FaultyFS) Truncate(name string, size int64) error {
	if fault := f.match(name); fault.FailOnTruncate {
		return fault.Err
	}
	return f.FS.Truncate(name, size)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (n int, err error) {
	limit := ff.fault.FailAfterBytes
	if limit >= 0 && ff.written+int64(len(p)) > limit {
		if ff.fault.PartialWrite && limit > ff.written {
			n, _ = ff.File.Write(p[:limit-ff.written])
			ff.account(n)
		}
		return n, ff.fault.Err
	}

	n, err = ff.File.Write(p)
	ff.account(n)
	return n, err
}

func (ff *faultyFile) account(n int) {
	if n <= 0 {
		return
	}
	ff.written += int64(n)
	ff.fs.mu.Lock()
	ff.fs.written += int64(n)
	ff.fs.mu.Unlock()
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.Err
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.Err
	}
	return ff.File.Close()
}
