package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"github.com/instill-ai/medical-backend/pkg/logger"
)

// MB is one mebibyte.
const MB = 1 << 20

// ProgressReader logs how much of an upload has been staged, at most once a
// second.
type ProgressReader struct {
	r io.Reader

	filename   string
	n          float64
	lastPrintN float64
	lastPrint  time.Time
	logger     *zap.Logger
}

func NewProgressReader(ctx context.Context, r io.Reader, filename string) *ProgressReader {
	logger, _ := logger.GetZapLogger(ctx)
	return &ProgressReader{
		r:         r,
		logger:    logger,
		filename:  filename,
		lastPrint: time.Now(),
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.n += float64(n) / (1 << 10)

	if time.Since(pr.lastPrint) > time.Second ||
		(err != nil && pr.n != pr.lastPrintN) {

		pr.logger.Debug(fmt.Sprintf("Copied %3.1fKiB for %s", pr.n, pr.filename))
		pr.lastPrintN = pr.n
		pr.lastPrint = time.Now()
	}
	return n, err
}

// NewScratchDir creates a request-private directory under root named by a
// fresh UUID.
func NewScratchDir(root string) (string, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return "", err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, id.String())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// StageUpload copies src into dir/name and returns the staged path and the
// hex SHA-256 of the content.
func StageUpload(ctx context.Context, dir, name string, src io.Reader) (string, string, error) {
	path := filepath.Join(dir, filepath.Base(name))
	fp, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", "", err
	}
	defer fp.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(fp, h), NewProgressReader(ctx, src, name)); err != nil {
		return "", "", err
	}
	if err := fp.Sync(); err != nil {
		return "", "", err
	}
	return path, hex.EncodeToString(h.Sum(nil)), nil
}

// RemoveAll deletes path and logs, rather than returns, any failure.
func RemoveAll(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		logger, _ := logger.GetZapLogger(ctx)
		logger.Warn("failed to remove scratch directory", zap.String("path", path), zap.Error(err))
	}
}

// Remove deletes a single file and logs any failure.
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		logger, _ := logger.GetZapLogger(ctx)
		logger.Warn("failed to remove scratch file", zap.String("path", path), zap.Error(err))
	}
}
