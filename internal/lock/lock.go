package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// FileName is the lock file kept inside a profile directory.
const FileName = "console.lock"

// Owner describes the console that holds a profile.
type Owner struct {
	PID     int
	Program string
	Since   time.Time
}

// LockHeldError is returned when another console already has the profile open.
type LockHeldError struct {
	Profile string
	Owner   Owner
	Path    string
}

func (e *LockHeldError) Error() string {
	who := e.Owner.Program
	if who == "" {
		who = "another console"
	}
	if e.Owner.PID == 0 {
		return fmt.Sprintf("profile %q is already open in %s (%s)", e.Profile, who, e.Path)
	}
	msg := fmt.Sprintf("profile %q is already open in %s (PID %d", e.Profile, who, e.Owner.PID)
	if !e.Owner.Since.IsZero() {
		msg += ", since " + e.Owner.Since.Local().Format("2006-01-02 15:04")
	}
	return msg + ")"
}

// Lock is a held profile lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire opens dir/console.lock and takes a non-blocking exclusive flock on
// it, recording this process as the owner. The profile name reported in
// LockHeldError is the directory's base name.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open profile lock: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		owner, _ := ReadOwner(dir)
		return nil, &LockHeldError{Profile: filepath.Base(dir), Owner: owner, Path: path}
	}

	me := Owner{PID: os.Getpid(), Program: filepath.Base(os.Args[0]), Since: time.Now().UTC()}
	if err := writeOwner(f, me); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("record lock owner: %w", err)
	}
	return &Lock{file: f, path: path}, nil
}

func writeOwner(f *os.File, o Owner) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := f.WriteString(formatOwner(o))
	return err
}

// Release unlocks and removes the lock file. A nil or released lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadOwner returns the owner recorded in dir, if any.
func ReadOwner(dir string) (Owner, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Owner{}, err
	}
	return parseOwner(string(data)), nil
}

// Holder reports the PID recorded in dir, or 0 when none is readable.
func Holder(dir string) int {
	o, _ := ReadOwner(dir)
	return o.PID
}

func formatOwner(o Owner) string {
	return fmt.Sprintf("pid=%d\nprogram=%s\nsince=%s\n", o.PID, o.Program, o.Since.Format(time.RFC3339))
}

// parseOwner reads key=value lines; unknown keys and bad values are ignored.
func parseOwner(content string) Owner {
	var o Owner
	for line := range strings.SplitSeq(content, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			o.PID, _ = strconv.Atoi(value)
		case "program":
			o.Program = value
		case "since":
			o.Since, _ = time.Parse(time.RFC3339, value)
		}
	}
	return o
}
