package dedup

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

// FileLedger keeps one fingerprint per line in a plain text file.
// The file is read once, on first use, and only ever appended to.
type FileLedger struct {
	path   string
	mu     sync.Mutex
	loaded bool
	known  map[commonModels.Fingerprint]struct{}
	logger *logger_i.Logger
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{
		path:   path,
		known:  make(map[commonModels.Fingerprint]struct{}),
		logger: logger_i.NewLogger("File Ledger"),
	}
}

func (l *FileLedger) Contains(ctx context.Context, fp commonModels.Fingerprint) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return false, err
	}
	_, ok := l.known[fp]
	return ok, nil
}

func (l *FileLedger) Record(ctx context.Context, fps []commonModels.Fingerprint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return err
	}

	var b strings.Builder
	var added []commonModels.Fingerprint
	for _, fp := range fps {
		if _, ok := l.known[fp]; ok {
			continue
		}
		b.WriteString(string(fp))
		b.WriteByte('\n')
		added = append(added, fp)
	}
	if len(added) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	if err := f.Sync(); err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}

	for _, fp := range added {
		l.known[fp] = struct{}{}
	}
	l.logger.Debug("Recorded fingerprints", "count", len(added))
	return nil
}

func (l *FileLedger) loadLocked() error {
	if l.loaded {
		return nil
	}
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		l.loaded = true
		return nil
	}
	if err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			l.known[commonModels.Fingerprint(line)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	l.loaded = true
	l.logger.Info("Loaded dedup ledger", "path", l.path, "fingerprints", len(l.known))
	return nil
}
