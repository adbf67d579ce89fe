package preflight

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"concord/internal/config"
	"concord/internal/corpus"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFileReadable verifies that path is a readable regular file.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckCorpus verifies the corpus file is readable and parses.
func CheckCorpus(cfg *config.Config) Result {
	const name = "Corpus"
	path := cfg.Paths.CorpusFile
	if result := CheckFileReadable(name, path); !result.Passed {
		return result
	}
	c, err := corpus.Load(path, corpus.Options{IDColumn: cfg.Corpus.IDColumn, SplitColumn: cfg.Corpus.SplitColumn})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	splits := "none"
	if names := c.Splits(); len(names) > 0 {
		splits = strings.Join(names, ", ")
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d items; splits: %s)", path, c.Len(), splits)}
}

// CheckStoreLock verifies no other writer holds the annotation store lock.
func CheckStoreLock(storePath string) Result {
	const name = "Annotation store lock"
	lockPath := storePath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lockPath, err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: held by another process)", lockPath)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", lockPath)}
}

// CheckBind verifies the API bind address is a host:port pair.
func CheckBind(bind string) Result {
	const name = "API bind"
	if _, _, err := net.SplitHostPort(bind); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%q (error: %v)", bind, err)}
	}
	return Result{Name: name, Passed: true, Detail: bind}
}
