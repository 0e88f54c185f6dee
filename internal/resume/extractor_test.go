package resume

import (
	"errors"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	content := "Jane Doe\njane@example.com\nSkills: Go, SQL\n"

	text, err := ExtractText("resume.txt", []byte(content))
	if err != nil {
		t.Fatalf("ExtractText() failed: %v", err)
	}
	if text != content {
		t.Errorf("ExtractText() = %q, want verbatim %q", text, content)
	}
}

func TestExtractText_TxtExtensionCaseInsensitive(t *testing.T) {
	text, err := ExtractText("RESUME.TXT", []byte("hello"))
	if err != nil {
		t.Fatalf("ExtractText() failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("ExtractText() = %q, want %q", text, "hello")
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "Image", filename: "photo.png"},
		{name: "Spreadsheet", filename: "data.xlsx"},
		{name: "No extension", filename: "README"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.filename, []byte("irrelevant"))
			if !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("ExtractText(%q) error = %v, want ErrUnsupportedType", tt.filename, err)
			}
		})
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	// Not a PDF at all: extraction must fail, not return garbage.
	_, err := ExtractText("broken.pdf", []byte("this is not a pdf"))
	if err == nil {
		t.Fatal("ExtractText() on corrupt PDF succeeded, want error")
	}
	if errors.Is(err, ErrUnsupportedType) {
		t.Error("corrupt PDF reported as unsupported type instead of extraction failure")
	}
}

func TestExtractText_CorruptDocx(t *testing.T) {
	_, err := ExtractText("broken.docx", []byte{0x00, 0x01, 0x02})
	if err == nil {
		t.Fatal("ExtractText() on corrupt DOCX succeeded, want error")
	}
}
