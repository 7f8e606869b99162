package filesink

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

const (
	dirMode  = 0755
	fileMode = 0644
)

// appendToFile writes data at the end of the target, creating directory and file as needed
func appendToFile(target Target, data []byte) error {
	if err := os.MkdirAll(target.Directory, dirMode); err != nil {
		return fmtErrorf("failed to create log directory %s: %w", target.Directory, err)
	}

	f, err := os.OpenFile(target.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmtErrorf("failed to open log file %s: %w", target.Path(), err)
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		return fmtErrorf("failed to write log file %s: %w", target.Path(), writeErr)
	}
	if closeErr != nil {
		return fmtErrorf("failed to close log file %s: %w", target.Path(), closeErr)
	}
	return nil
}

// archiveFile moves or compresses oldPath to its archive location and applies
// retention. It reports archived=false when there was no file to archive.
func (s *FileSink) archiveFile(cfg *Config, oldPath string, vars Variables) (archived bool, err error) {
	if _, err := os.Stat(oldPath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	vars.Extension = cfg.ArchiveExtension
	target, err := Resolve(cfg.ArchiveFilenamePattern, cfg.ArchiveDirectoryPattern, vars, cfg.SanitizeFilenames)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(target.Directory, dirMode); err != nil {
		return false, fmtErrorf("failed to create archive directory %s: %w", target.Directory, err)
	}

	archivePath := target.Path()
	s.history.add(archivePath)

	if cfg.ArchiveCompress {
		err = compressFile(oldPath, archivePath, int(cfg.CompressionLevel))
	} else if err = os.Rename(oldPath, archivePath); err != nil {
		err = fmtErrorf("failed to move %s to %s: %w", oldPath, archivePath, err)
	}
	if err != nil {
		return false, err
	}

	return true, s.pruneArchives(int(cfg.ArchiveCount))
}

// compressFile gzips src into dst+".tmp", then removes src and renames the
// temp file to dst. On failure src is left untouched.
func compressFile(src, dst string, level int) error {
	in, err := os.Open(src)
	if err != nil {
		return fmtErrorf("failed to open %s for compression: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmtErrorf("failed to stat %s: %w", src, err)
	}

	tmpPath := dst + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return fmtErrorf("failed to create %s: %w", tmpPath, err)
	}

	gz, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		out.Close()
		return fmtErrorf("failed to create gzip writer: %w", err)
	}
	gz.Name = filepath.Base(src)
	gz.ModTime = info.ModTime()

	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		return fmtErrorf("failed to compress %s: %w", src, err)
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return fmtErrorf("failed to finish compressing %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmtErrorf("failed to close %s: %w", tmpPath, err)
	}

	// Release the source handle before removing it
	in.Close()
	if err := os.Remove(src); err != nil {
		return fmtErrorf("failed to remove compressed source %s: %w", src, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmtErrorf("failed to rename %s to %s: %w", tmpPath, dst, err)
	}
	return nil
}

// pruneArchives deletes the oldest archives until at most keep remain
func (s *FileSink) pruneArchives(keep int) error {
	s.history.mu.Lock()
	defer s.history.mu.Unlock()

	var result error
	for len(s.history.paths) > keep {
		oldest := s.history.paths[0]
		s.history.paths = s.history.paths[1:]
		if err := os.Remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result = combineErrors(result, fmtErrorf("failed to remove old archive %s: %w", oldest, err))
		}
	}
	return result
}
