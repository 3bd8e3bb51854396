package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestImportReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain", []byte("nome,cidade\nAna,Recife\n"), "nome,cidade\nAna,Recife\n"},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, "nome\n"...), "nome\n"},
		{"only bom", []byte{0xEF, 0xBB, 0xBF}, ""},
		{"partial bom kept as latin-1", []byte{0xEF, 0xBB, 'a'}, "ï»a"},
		{"empty", nil, ""},
		{"utf-8 untouched", []byte("João,São Paulo"), "João,São Paulo"},
		{"latin-1", []byte("Jo\xe3o,S\xe3o Paulo,Concei\xe7\xe3o"), "João,São Paulo,Conceição"},
		{"mixed", []byte("Jos\xe9 e José"), "José e José"},
		{"replacement char kept", []byte("a�b"), "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newImportReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadAll() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImportReader_SmallReads(t *testing.T) {
	in := "Jo\xe3o;Ana\nS\xe3o Paulo"
	want := "João;Ana\nSão Paulo"

	if err := iotest.TestReader(newImportReader(strings.NewReader(in)), []byte(want)); err != nil {
		t.Error(err)
	}
	got, err := io.ReadAll(newImportReader(iotest.OneByteReader(strings.NewReader(in))))
	if err != nil || string(got) != want {
		t.Errorf("one-byte source = %q, %v, want %q", got, err, want)
	}
}

func TestImportReader_PassesErrors(t *testing.T) {
	_, err := io.ReadAll(newImportReader(iotest.ErrReader(io.ErrClosedPipe)))
	if err != io.ErrClosedPipe {
		t.Errorf("error = %v, want %v", err, io.ErrClosedPipe)
	}
}
