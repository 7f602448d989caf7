package corpus

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"voicebooth/internal/logging"
	"voicebooth/internal/textutil"
)

const fieldsPerLine = 3

// Sentence is one prompt from the corpus.
type Sentence struct {
	Index int
	ID    string
	Text  string
}

// Load reads the corpus at path.
func Load(path string, logger *slog.Logger) ([]Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer file.Close()

	sentences, err := Parse(file, logger)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return sentences, nil
}

// Parse reads corpus lines from r. Malformed lines are logged at warn level
// and skipped; blank lines are skipped silently.
func Parse(r io.Reader, logger *slog.Logger) ([]Sentence, error) {
	logger = logging.NewComponentLogger(logger, "corpus")

	var (
		sentences []Sentence
		skipped   int
		lineNo    int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		pieces := strings.Split(line, "|")
		if len(pieces) != fieldsPerLine {
			skipped++
			logging.WarnWithContext(logger, "corpus line has wrong number of fields", "corpus_line_malformed",
				logging.Int("line", lineNo),
				logging.Int("fields", len(pieces)),
				logging.String(logging.FieldErrorHint, "expected id|text|normalized_text"),
				logging.String(logging.FieldImpact, "line skipped"),
			)
			continue
		}
		sentences = append(sentences, Sentence{
			Index: len(sentences),
			ID:    strings.TrimSpace(pieces[0]),
			Text:  textutil.NormalizeSentence(pieces[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	logger.Info("corpus loaded",
		logging.Int("sentences", len(sentences)),
		logging.Int("skipped_lines", skipped),
	)
	return sentences, nil
}
