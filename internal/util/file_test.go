package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateMimeTypeAcceptsMatchingPrefix(t *testing.T) {
	// 最小PNG头
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 100)...)

	mime, err := ValidateMimeType(bytes.NewReader(png), []string{MimeImage})
	if err != nil {
		t.Fatalf("png rejected: %v (%s)", err, mime)
	}
	if !strings.HasPrefix(mime, "image/") {
		t.Errorf("mime = %s", mime)
	}
}

func TestValidateMimeTypeRejectsMismatch(t *testing.T) {
	text := []byte("plain text, definitely not a video")

	if _, err := ValidateMimeType(bytes.NewReader(text), []string{MimeVideo}); err == nil {
		t.Error("text content must not validate as video")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(9)
	if len(s) != 9 {
		t.Errorf("len = %d, want 9", len(s))
	}
	if s == GenerateRandomString(9) {
		t.Error("two random strings should differ")
	}
}
