package index_store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/noelzubin/launch_search/search"
)

// VolumeKey names the artifact of a volume: the drive letter on Windows
// ("C:/" is "C"), "root" for "/", otherwise the mount path with separators
// replaced ("/media/usb" is "media_usb").
func VolumeKey(volume string) string {
	v := strings.Trim(filepath.ToSlash(volume), "/")
	if len(v) == 2 && v[1] == ':' {
		return v[:1]
	}
	if v == "" {
		return "root"
	}
	return strings.ReplaceAll(v, "/", "_")
}

// ArtifactPath returns where the artifact of volume lives under dir.
func ArtifactPath(dir, volume string) string {
	return filepath.Join(dir, VolumeKey(volume)+".index")
}

// SaveVolumeArtifact writes the records of a single volume to its own
// zstd compressed file under dir, in the same line format as Save.
func SaveVolumeArtifact(dir, volume string, records []search.Record) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	path := ArtifactPath(dir, volume)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := write(enc, records); err != nil {
		enc.Close()
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush artifact %s: %w", path, err)
	}
	log.Info("artifact_saved", "volume", volume, "path", path, "records", len(records))
	return f.Close()
}

// LoadVolumeArtifact reads back an artifact written by SaveVolumeArtifact.
func LoadVolumeArtifact(dir, volume string) ([]search.Record, error) {
	path := ArtifactPath(dir, volume)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact %s: %w", path, err)
	}
	records, stats := parse(data)
	stats.log(path)
	return records, nil
}
