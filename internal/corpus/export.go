// Package corpus writes harvested postings out as a plain text training corpus.
package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
)

// Write writes each text as one block, blocks separated by a blank line.
func Write(w io.Writer, texts []string) (int, error) {
	bw := bufio.NewWriter(w)
	written := 0
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if written > 0 {
			if _, err := bw.WriteString("\n\n"); err != nil {
				return written, err
			}
		}
		if _, err := bw.WriteString(text); err != nil {
			return written, err
		}
		written++
	}
	if written > 0 {
		if _, err := bw.WriteString("\n"); err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// WriteFile writes texts to path, gzip-compressed when path ends in ".gz".
func WriteFile(path string, texts []string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, translate(err, "failed to create corpus file", path)
	}
	defer f.Close()

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}

	n, err := Write(w, texts)
	if err != nil {
		return n, translate(err, "failed to write corpus", path)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return n, translate(err, "failed to finish gzip stream", path)
		}
	}
	if err := f.Close(); err != nil {
		return n, translate(err, "failed to close corpus file", path)
	}
	return n, nil
}

func translate(err error, msg, path string) error {
	return failure.Translate(
		err,
		errors.ErrInternal,
		failure.Field(failure.Message(msg)),
		failure.Context{
			"path": path,
		},
	)
}
