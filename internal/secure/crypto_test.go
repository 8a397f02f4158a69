package secure_test

import (
	"bytes"
	"testing"

	"github.com/airenas/lecture-summarizer/internal/secure"
)

const testKey = "testkey12345678901234567890123456"

func TestSealer_SealOpen(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"simple", []byte("some data")},
		{"empty", []byte("")},
		{"nil", nil},
		{"cyrillic", []byte("Конспект лекции по физике")},
		{"binary", []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := secure.NewSealer(testKey)
			if err != nil {
				t.Fatalf("NewSealer() error = %v", err)
			}
			sealed, err := s.Seal("job:1", tt.data)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if len(tt.data) > 0 && bytes.Contains(sealed, tt.data) {
				t.Errorf("Seal() leaks plain text")
			}
			got, err := s.Open("job:1", sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("Open() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestSealer_Open_Fail(t *testing.T) {
	s, _ := secure.NewSealer(testKey)
	sealed, _ := s.Seal("job:1", []byte("data"))
	if _, err := s.Open("job:2", sealed); err == nil {
		t.Errorf("Open() with other id: expected error")
	}
	if _, err := s.Open("job:1", []byte{1, 2}); err == nil {
		t.Errorf("Open() short: expected error")
	}
	other, _ := secure.NewSealer(testKey + "x")
	if _, err := other.Open("job:1", sealed); err == nil {
		t.Errorf("Open() other key: expected error")
	}
}

func TestNewSealer_ShortKey(t *testing.T) {
	if _, err := secure.NewSealer("short"); err == nil {
		t.Errorf("NewSealer() expected error")
	}
}
