package handlers

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// FileCleanupService sweeps staged export files so the staging directory
// doesn't grow without bound. Stored artifacts in the bucket are unaffected.
type FileCleanupService struct {
	stagingDir string
	maxAge     time.Duration
	ticker     *time.Ticker
	done       chan bool
}

func NewFileCleanupService(stagingDir string, maxAge time.Duration) *FileCleanupService {
	return &FileCleanupService{
		stagingDir: stagingDir,
		maxAge:     maxAge,
		done:       make(chan bool),
	}
}

func (fcs *FileCleanupService) Start() {
	fcs.ticker = time.NewTicker(1 * time.Hour) // Run cleanup every hour
	go func() {
		for {
			select {
			case <-fcs.done:
				return
			case <-fcs.ticker.C:
				fcs.cleanupStagedExports()
			}
		}
	}()
	log.Println("Export cleanup service started")
}

func (fcs *FileCleanupService) Stop() {
	if fcs.ticker != nil {
		fcs.ticker.Stop()
	}
	fcs.done <- true
	log.Println("Export cleanup service stopped")
}

func (fcs *FileCleanupService) cleanupStagedExports() {
	if _, err := os.Stat(fcs.stagingDir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(fcs.stagingDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > fcs.maxAge {
			log.Printf("Cleaning up stale export: %s", path)
			return os.Remove(path)
		}

		return nil
	})

	if err != nil {
		log.Printf("Error during cleanup of %s: %v", fcs.stagingDir, err)
	}
}

// DeleteFile manually deletes a specific staged export
func (fcs *FileCleanupService) DeleteFile(filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil // File doesn't exist, nothing to delete
	}

	log.Printf("Manually deleting staged export: %s", filePath)
	return os.Remove(filePath)
}
