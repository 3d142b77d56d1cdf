package textcodec

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_PlainUTF8(t *testing.T) {
	got, err := Decode([]byte("héllo wörld"), "text/html; charset=utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if got != "héllo wörld" {
		t.Fatalf("got %q", got)
	}
}

func TestDecode_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("bonjour")...)
	got, err := Decode(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "bonjour" {
		t.Fatalf("BOM not stripped: %q", got)
	}
}

func TestDecode_UTF8BOMInvalidBody(t *testing.T) {
	// WHAT: a confirmed BOM with broken body fails, no fallback.
	// WHY: the BOM asserted the encoding; falling back would hide corruption.
	data := append([]byte{0xEF, 0xBB, 0xBF}, 0xC3, 0x28)
	if _, err := Decode(data, ""); err == nil {
		t.Fatal("expected decode failure after UTF-8 BOM")
	}
}

func TestDecode_UTF16LEBOM(t *testing.T) {
	data := []byte{0xFF, 0xFE, 'h', 0, 'i', 0}
	got, err := Decode(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestDecode_UTF16BEBOM(t *testing.T) {
	data := []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}
	got, err := Decode(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestDecode_DeclaredLatin1(t *testing.T) {
	// "café" in ISO-8859-1: é is a single 0xE9 byte, invalid as UTF-8.
	data := []byte{'c', 'a', 'f', 0xE9}
	got, err := Decode(data, `text/plain; charset="ISO-8859-1"`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Fatalf("got %q", got)
	}
}

func TestDecode_DeclaredUTF8DirtyFails(t *testing.T) {
	var derr *DecodeError
	_, err := Decode([]byte{'o', 'k', 0xC3, 0x28}, "text/plain; charset=utf-8")
	if err == nil {
		t.Fatal("expected hard failure for dirty declared decode")
	}
	if !errors.As(err, &derr) {
		t.Fatalf("error type: %T", err)
	}
	if derr.Label != "utf-8" {
		t.Fatalf("label: %q", derr.Label)
	}
}

func TestDecode_StatisticalWindows1252(t *testing.T) {
	// French prose in windows-1252, no declaration. The detector may name
	// windows-1252 or ISO-8859-1; both decode é identically.
	text := "Le caf\xe9 \xe9tait excellent, et la soir\xe9e s'est prolong\xe9e " +
		"jusqu'\xe0 minuit pass\xe9. Les invit\xe9s ont beaucoup appr\xe9ci\xe9."
	got, err := Decode([]byte(text), "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "café") {
		t.Fatalf("decoded text lost accents: %q", got)
	}
	if strings.ContainsRune(got, '�') {
		t.Fatal("replacement character in output")
	}
}

func TestCharsetLabel(t *testing.T) {
	cases := map[string]string{
		"text/html; charset=utf-8":          "utf-8",
		`text/html; charset="Windows-1251"`: "windows-1251",
		"text/html;CHARSET=ISO-8859-2":      "iso-8859-2",
		"text/html":                         "",
		"":                                  "",
		"charset=utf-8":                     "", // first segment is the MIME, not a parameter
	}
	for in, want := range cases {
		if got := CharsetLabel(in); got != want {
			t.Errorf("CharsetLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
