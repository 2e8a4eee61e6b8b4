package extract

import (
	"bytes"
	"io"
	"testing"
)

func TestCleanReader(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"bom stripped", append(append([]byte{}, bom...), "Date,Pond"...), "Date,Pond"},
		{"no bom", []byte("Date,Pond"), "Date,Pond"},
		{"empty", []byte{}, ""},
		{"only bom", bom, ""},
		{"partial bom kept", []byte{0xEF, 0xBB, 'a'}, "??a"},
		{"multibyte kept", []byte("28.5°C"), "28.5°C"},
		{"invalid byte replaced", []byte{'p', 'h', 0x80, '7'}, "ph?7"},
		{"bom and invalid byte", append(append([]byte{}, bom...), 'n', 0xFF, 'a'), "n?a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(cleanReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCleanReader_ShortBuffer(t *testing.T) {
	r := cleanReader(bytes.NewReader([]byte("abc")))
	if _, err := r.Read(make([]byte, 2)); err != io.ErrShortBuffer {
		t.Errorf("Read() error = %v, want io.ErrShortBuffer", err)
	}
}
