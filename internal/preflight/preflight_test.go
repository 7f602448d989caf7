package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"voicebooth/internal/audio"
	"voicebooth/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 0); !r.Passed || r.Warning {
		t.Fatalf("expected clean pass with zero minimum, got %+v", r)
	}
	if r := CheckFreeSpace("space", dir, 1<<40); !r.Passed || !r.Warning {
		t.Fatalf("expected passing warning for huge minimum, got %+v", r)
	}
	if r := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); r.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckCorpus(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.txt")
	testsupport.WriteCorpus(t, good, "a|One|one", "b|Two|two")
	if r := CheckCorpus("corpus", good); !r.Passed || r.Warning {
		t.Fatalf("expected pass, got %+v", r)
	}

	mixed := filepath.Join(dir, "mixed.txt")
	testsupport.WriteCorpus(t, mixed, "a|One|one", "broken")
	if r := CheckCorpus("corpus", mixed); !r.Passed || !r.Warning {
		t.Fatalf("expected warning, got %+v", r)
	}

	empty := filepath.Join(dir, "empty.txt")
	testsupport.WriteCorpus(t, empty, "no pipes here")
	if r := CheckCorpus("corpus", empty); r.Passed {
		t.Fatalf("expected failure without sentences, got %+v", r)
	}

	if r := CheckCorpus("corpus", filepath.Join(dir, "missing.txt")); r.Passed {
		t.Fatal("expected failure for missing corpus")
	}
}

func TestCheckReferenceAudio(t *testing.T) {
	dir := t.TempDir()
	mono := audio.Format{Channels: 1, SampleRate: 22050, BitsPerSample: 16}
	ref := filepath.Join(dir, "reference.wav")
	testsupport.WriteWAV(t, ref, audio.Join(testsupport.Levels(40)), mono)
	if r := CheckReferenceAudio("ref", ref); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}

	bad := filepath.Join(dir, "stereo.wav")
	testsupport.WriteFile(t, bad, testsupport.StereoWAV(22050, 2))
	if r := CheckReferenceAudio("ref", bad); r.Passed {
		t.Fatal("expected failure for stereo reference")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCorpus("a|One|one"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	results := RunAll(cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}

	cfg.Paths.ReferenceAudio = filepath.Join(t.TempDir(), "missing.wav")
	if failed := Failures(RunAll(cfg)); len(failed) != 1 || failed[0].Name != "Reference audio" {
		t.Fatalf("expected reference failure, got %+v", failed)
	}
}
