package frameutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "frame_00000000.jpg"},
		{7, "frame_00000007.jpg"},
		{359, "frame_00000359.jpg"},
		{99999999, "frame_99999999.jpg"},
	}
	for _, tt := range tests {
		if got := FileName(tt.index); got != tt.want {
			t.Errorf("FileName(%d): expected %q, got %q", tt.index, tt.want, got)
		}
	}
}

func TestFilePath(t *testing.T) {
	got := FilePath("/tmp/frames", 3)
	want := filepath.Join("/tmp/frames", "frame_00000003.jpg")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTemplatePath(t *testing.T) {
	got := TemplatePath("/tmp/frames")
	want := filepath.Join("/tmp/frames", "frame_%08d.jpg")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMarkerPath(t *testing.T) {
	got := MarkerPath("/tmp/frames")
	want := filepath.Join("/tmp/frames", ".extracting")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCountRegularFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("Empty directory", func(t *testing.T) {
		count, err := CountRegularFiles(dir)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected 0, got %d", count)
		}
	})

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(FilePath(dir, i), []byte("jpeg"), 0644); err != nil {
			t.Fatalf("Failed to write frame: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	t.Run("Counts files not directories", func(t *testing.T) {
		count, err := CountRegularFiles(dir)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 5 {
			t.Errorf("Expected 5, got %d", count)
		}
	})

	t.Run("Missing directory", func(t *testing.T) {
		if _, err := CountRegularFiles("/nonexistent/frames"); err == nil {
			t.Error("Expected error for missing directory")
		}
	})
}
