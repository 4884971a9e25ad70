package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const compressedSuffix = ".zst"

// FileKV stores each key as a file inside a directory, optionally zstd
// compressed
type FileKV struct {
	dir      string
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

// NewFileKV creates a file backed store rooted at dir
func NewFileKV(dir string, compress bool) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store requires a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	kv := &FileKV{dir: dir, compress: compress}
	if kv.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			enc.Close()
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		kv.enc, kv.dec = enc, dec
	}
	return kv, nil
}

func (f *FileKV) path(key string) string {
	name := key + ".json"
	if f.compress {
		name += compressedSuffix
	}
	return filepath.Join(f.dir, name)
}

// Get reads the file for key
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if f.compress {
		data, err = f.dec.DecodeAll(data, nil)
		if err != nil {
			return "", false, fmt.Errorf("failed to decompress %s: %w", key, err)
		}
	}
	return string(data), true, nil
}

// Set writes value to a temporary file and renames it over the key's file
func (f *FileKV) Set(_ context.Context, key, value string) error {
	data := []byte(value)
	if f.compress {
		data = f.enc.EncodeAll(data, nil)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close releases the zstd coders
func (f *FileKV) Close() error {
	if f.enc != nil {
		f.enc.Close()
	}
	if f.dec != nil {
		f.dec.Close()
	}
	return nil
}
