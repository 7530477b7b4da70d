// Package images holds the profile and banner pictures shown on the
// dashboard. Uploads live in memory next to the expense table; when no
// upload happened yet a neutral SVG placeholder is served instead.
package images

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Image slots.
const (
	SlotProfile = "profile"
	SlotBanner  = "banner"
)

const sniffLen = 512

var (
	ErrUnknownSlot       = errors.New("unknown image slot")
	ErrUnsupportedFormat = errors.New("unsupported image format, expected PNG or JPEG")
	ErrImageTooLarge     = errors.New("image exceeds upload size limit")
	ErrEmptyImage        = errors.New("image is empty")
)

// Image is a stored upload.
type Image struct {
	Data        []byte
	ContentType string
}

// Store keeps one image per slot, protected by a mutex.
type Store struct {
	mu       sync.Mutex
	maxBytes int64
	slots    map[string]Image
}

// NewStore creates an empty store. maxBytes caps a single upload.
func NewStore(maxBytes int64) *Store {
	return &Store{
		maxBytes: maxBytes,
		slots:    make(map[string]Image),
	}
}

// Put reads an upload from r and stores it under slot. Only PNG and JPEG
// payloads are accepted; the format is sniffed from the content, never
// taken from the client's declared type.
func (s *Store) Put(slot string, r io.Reader) error {
	if slot != SlotProfile && slot != SlotBanner {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return ErrEmptyImage
	}
	if int64(len(data)) > s.maxBytes {
		return fmt.Errorf("%w (limit %d bytes)", ErrImageTooLarge, s.maxBytes)
	}

	contentType := http.DetectContentType(data[:min(len(data), sniffLen)])
	if contentType != "image/png" && contentType != "image/jpeg" {
		return fmt.Errorf("%w: got %s", ErrUnsupportedFormat, contentType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = Image{Data: data, ContentType: contentType}
	return nil
}

// Get returns the stored image for slot, or the placeholder when no
// upload happened yet.
func (s *Store) Get(slot string) (Image, error) {
	if slot != SlotProfile && slot != SlotBanner {
		return Image{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	s.mu.Lock()
	img, ok := s.slots[slot]
	s.mu.Unlock()
	if ok {
		return img, nil
	}
	return placeholder(slot), nil
}

// Has reports whether slot holds an uploaded image.
func (s *Store) Has(slot string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[slot]
	return ok
}

func placeholder(slot string) Image {
	var svg string
	switch slot {
	case SlotBanner:
		svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1200 240">` +
			`<rect width="1200" height="240" fill="#2b3a55"/>` +
			`<text x="600" y="132" fill="#d7dce5" font-family="sans-serif" font-size="36" text-anchor="middle">Expense Tracker</text>` +
			`</svg>`
	default:
		svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 160 160">` +
			`<rect width="160" height="160" fill="#3d5a80"/>` +
			`<circle cx="80" cy="62" r="28" fill="#d7dce5"/>` +
			`<path d="M 30 150 Q 80 92 130 150 Z" fill="#d7dce5"/>` +
			`</svg>`
	}
	return Image{Data: []byte(svg), ContentType: "image/svg+xml"}
}
