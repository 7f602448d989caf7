package corpus_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"voicebooth/internal/audio"
	"voicebooth/internal/clips"
	"voicebooth/internal/corpus"
	"voicebooth/internal/testsupport"
)

func sentences(texts ...string) []corpus.Sentence {
	out := make([]corpus.Sentence, len(texts))
	for i, text := range texts {
		out[i] = corpus.Sentence{Index: i, ID: text, Text: text}
	}
	return out
}

func newClipStore(t *testing.T, dir string) *clips.Store {
	t.Helper()
	store, err := clips.NewStore(clips.Options{
		Dir:             dir,
		Format:          audio.Format{Channels: 1, SampleRate: 44100, BitsPerSample: 16},
		ResampleEnabled: true,
		ResampleRate:    22050,
	}, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestAssembleListsRecordedSentences(t *testing.T) {
	dir := t.TempDir()
	store := newClipStore(t, dir)
	for _, idx := range []int{2, 0, 9} {
		if _, err := store.Save(idx, testsupport.Levels(70, 70)); err != nil {
			t.Fatal(err)
		}
	}

	asm := corpus.NewAssembler(store, filepath.Join(dir, "metadata.csv"), nil)
	m, err := asm.Run(sentences("zero", "one", "two"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "0_22050|zero|zero\n2_22050|two|two\n"
	if got := string(m.Bytes()); got != want {
		t.Fatalf("unexpected manifest:\n%s\nwant:\n%s", got, want)
	}
	if len(m.Orphans) != 1 || m.Orphans[0] != 9 {
		t.Fatalf("expected orphan 9, got %v", m.Orphans)
	}

	onDisk, err := os.ReadFile(asm.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != want {
		t.Fatalf("manifest file differs: %q", onDisk)
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := newClipStore(t, dir)
	if _, err := store.Save(1, testsupport.Levels(70, 70)); err != nil {
		t.Fatal(err)
	}
	asm := corpus.NewAssembler(store, filepath.Join(dir, "metadata.csv"), nil)
	list := sentences("a", "b")

	if _, err := asm.Run(list); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(asm.Path())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := asm.Run(list); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(asm.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("manifest changed between runs: %q vs %q", first, second)
	}
}

func TestAssembleEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	asm := corpus.NewAssembler(newClipStore(t, dir), filepath.Join(dir, "metadata.csv"), nil)
	m, err := asm.Run(sentences("a"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(m.Bytes()) != 0 {
		t.Fatalf("expected empty manifest, got %q", m.Bytes())
	}
}
