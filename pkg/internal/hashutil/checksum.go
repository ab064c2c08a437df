package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"github.com/arthur-debert/flatdir/pkg/types"
)

// ChunkSize is the read size used when streaming file content into the hash
const ChunkSize = 4096

// Algorithm names the digest produced by this package
const Algorithm = "sha256"

// CalculateFileChecksum calculates the SHA256 checksum of a file as
// lowercase hex, reading it in ChunkSize blocks
func CalculateFileChecksum(fs types.FS, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	return CalculateChecksum(file)
}

// CalculateChecksum hashes everything readable from r
func CalculateChecksum(r io.Reader) (string, error) {
	hash := sha256.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hash.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
