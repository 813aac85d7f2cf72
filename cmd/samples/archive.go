package samples

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// createArchive bundles files (path on disk -> name in archive) into output.
// The format comes from formatOverride, or from the output extension.
func createArchive(ctx context.Context, output, formatOverride string, files map[string]string) error {
	format, err := getArchiveFormat(output, formatOverride)
	if err != nil {
		return err
	}
	archiver, ok := format.(archives.Archiver)
	if !ok {
		return fmt.Errorf("format does not support archive creation")
	}

	infos, err := archives.FilesFromDisk(ctx, nil, files)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	outFile, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer outFile.Close()

	if err := archiver.Archive(ctx, outFile, infos); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

// listArchive returns the names of the regular files in an archive.
func listArchive(ctx context.Context, path string) ([]string, error) {
	archiveFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive: %w", err)
	}
	defer archiveFile.Close()

	format, reader, err := archives.Identify(ctx, path, archiveFile)
	if err != nil {
		return nil, fmt.Errorf("cannot identify archive format: %w", err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("format does not support listing")
	}

	// zip needs the original file for seeking
	var archiveReader io.Reader = reader
	if _, isZip := format.(archives.Zip); isZip {
		if _, err := archiveFile.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		archiveReader = archiveFile
	}

	var names []string
	err = extractor.Extract(ctx, archiveReader, func(ctx context.Context, f archives.FileInfo) error {
		if !f.IsDir() {
			names = append(names, f.NameInArchive)
		}
		return nil
	})
	return names, err
}

func getArchiveFormat(filename, formatOverride string) (archives.Format, error) {
	if formatOverride != "" {
		return parseFormatString(formatOverride)
	}
	return parseFormatFromExtension(filename)
}

func parseFormatString(format string) (archives.Format, error) {
	switch strings.ToLower(format) {
	case "tar":
		return archives.Tar{}, nil
	case "tar.gz", "tgz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Gz{},
		}, nil
	case "tar.bz2", "tbz2", "tbz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Bz2{},
		}, nil
	case "tar.xz", "txz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Xz{},
		}, nil
	case "tar.zst", "tar.zstd":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Zstd{},
		}, nil
	case "zip":
		return archives.Zip{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func parseFormatFromExtension(filename string) (archives.Format, error) {
	lower := strings.ToLower(filename)

	for _, compound := range []string{".tar.gz", ".tgz", ".tar.bz2", ".tbz2", ".tbz", ".tar.xz", ".txz", ".tar.zst", ".tar.zstd"} {
		if strings.HasSuffix(lower, compound) {
			return parseFormatString(strings.TrimPrefix(compound, "."))
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(lower), ".")
	switch ext {
	case "tar", "zip":
		return parseFormatString(ext)
	default:
		return nil, fmt.Errorf("cannot determine format from extension: %s", ext)
	}
}
