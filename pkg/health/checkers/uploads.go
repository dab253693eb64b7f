package checkers

import (
	"context"
	"os"
	"path/filepath"
)

// UploadDirChecker verifies the image upload directory is writable. The
// artifact backend is not transactional, so catching a broken volume at
// readiness time is the only early warning we get.
type UploadDirChecker struct {
	dir string
}

func NewUploadDirChecker(dir string) *UploadDirChecker {
	return &UploadDirChecker{dir: dir}
}

func (c *UploadDirChecker) Name() string { return "uploads" }

func (c *UploadDirChecker) Check(ctx context.Context) error {
	probe := filepath.Join(c.dir, ".readycheck")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
