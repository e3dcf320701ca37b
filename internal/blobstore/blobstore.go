package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/KathiraveluLab/BHV/internal/model"
)

// blobstore is a content-addressed file store. A blob's reference is the
// hex sha256 of its contents, so writes are idempotent and references
// never dangle after a successful Put.
type blobstore struct {
	dir string
}

func New(dataDirectory string) (*blobstore, error) {
	dir := path.Join(dataDirectory, "blobs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &blobstore{dir}, nil
}

func (s *blobstore) Put(r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "incoming-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hash), r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	ref := hex.EncodeToString(hash.Sum(nil))
	if err := os.Rename(tmp.Name(), path.Join(s.dir, ref)); err != nil {
		return "", fmt.Errorf("storing blob: %w", err)
	}
	return ref, nil
}

func (s *blobstore) Get(ref string) (io.ReadCloser, error) {
	if !validRef(ref) {
		return nil, model.ErrorNotFound
	}
	f, err := os.Open(path.Join(s.dir, ref))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrorNotFound
		}
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, nil
}

// validRef rejects anything that is not a hex sha256 digest, so a
// malformed reference can never escape the blob directory.
func validRef(ref string) bool {
	if len(ref) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(ref)
	return err == nil
}
