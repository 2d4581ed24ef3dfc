package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// register decoders beyond what imaging pulls in
	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage reports a selection whose content is not an image.
var ErrNotImage = errors.New("not an image")

// MaxFileSize bounds how much of a selected file is read into memory.
const MaxFileSize = 64 << 20

// File is a selected image file read into memory.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Size returns the payload length in bytes.
func (f *File) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// Sniff returns the image MIME type of data. The content wins over the file
// extension; the extension is only consulted when the content is ambiguous.
func Sniff(name string, data []byte) (string, bool) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	if strings.HasPrefix(ct, "image/") {
		return ct, true
	}
	if ct != "application/octet-stream" {
		return "", false
	}
	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if strings.HasPrefix(byExt, "image/") {
		return byExt, true
	}
	return "", false
}

// Open reads path and verifies it is an image. Non-images yield ErrNotImage.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, MaxFileSize)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes wraps an in-memory payload, rejecting non-images.
func FromBytes(name string, data []byte) (*File, error) {
	ct, ok := Sniff(name, data)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotImage)
	}
	return &File{Name: name, MIME: ct, Data: data}, nil
}

// Decode decodes the payload honouring EXIF orientation.
func (f *File) Decode() (image.Image, error) {
	if f == nil || len(f.Data) == 0 {
		return nil, fmt.Errorf("decode: %w", ErrNotImage)
	}
	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return img, nil
}
