// Package fs provides file-based storage for the crawl corpus and the
// persisted crawl state.
package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/campusqa"
)

// MappingFile is the name of the URL mapping, kept beside the corpus
// directory rather than inside it.
const MappingFile = "url_map.tsv"

// Ensure Corpus implements the document interfaces at compile time.
var (
	_ campusqa.DocumentWriter = (*Corpus)(nil)
	_ campusqa.DocumentReader = (*Corpus)(nil)
)

// Corpus stores documents as <id>.txt files in a flat directory. The
// append-only url_map.tsv of "filename<TAB>sourceURL<TAB>method" lines lives
// in the directory's parent, so the corpus directory holds nothing but
// mapped documents. Lines without a method column are still read.
//
// A document's text file is written before its mapping line, so a crash
// can leave an unmapped file but never a mapping without a file. Rewriting
// the file on a later run completes the pair.
type Corpus struct {
	dir     string
	mapping string

	mu     sync.Mutex
	mapped map[string]struct{}
}

// NewCorpus returns a Corpus rooted at dir. The directory is created on the
// first write.
func NewCorpus(dir string) *Corpus {
	return &Corpus{
		dir:     dir,
		mapping: filepath.Join(ParentDir(dir), MappingFile),
	}
}

// ParentDir returns the directory containing dir. The URL mapping and, by
// default, the crawl state logs are kept there.
func ParentDir(dir string) string {
	return filepath.Dir(filepath.Clean(dir))
}

// WriteDocument writes the document text and appends its mapping line
// unless the file is already mapped.
func (c *Corpus) WriteDocument(ctx context.Context, doc *campusqa.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return campusqa.Errorf(campusqa.EIO, "create corpus directory: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(c.dir, doc.Filename()), []byte(doc.Text)); err != nil {
		return campusqa.Errorf(campusqa.EIO, "write %s: %w", doc.Filename(), err)
	}

	if c.mapped == nil {
		mappings, err := c.readMappings()
		if err != nil {
			return err
		}
		c.mapped = make(map[string]struct{}, len(mappings))
		for _, m := range mappings {
			c.mapped[m.Filename] = struct{}{}
		}
	}
	if _, ok := c.mapped[doc.Filename()]; ok {
		return nil
	}

	line := fmt.Sprintf("%s\t%s\t%s\n", doc.Filename(), doc.SourceURL, doc.Method)
	if err := appendLine(c.mapping, line); err != nil {
		return campusqa.Errorf(campusqa.EIO, "append mapping: %w", err)
	}
	c.mapped[doc.Filename()] = struct{}{}
	return nil
}

// Mappings returns the URL mapping in file order with repeated filenames
// removed.
func (c *Corpus) Mappings(ctx context.Context) ([]campusqa.URLMapping, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readMappings()
}

// ReadDocuments loads every mapped document in mapping order. A mapped file
// that is missing is reported as ENOTFOUND.
func (c *Corpus) ReadDocuments(ctx context.Context) ([]*campusqa.Document, error) {
	mappings, err := c.Mappings(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*campusqa.Document, 0, len(mappings))
	for _, m := range mappings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(filepath.Join(c.dir, m.Filename))
		if errors.Is(err, os.ErrNotExist) {
			return nil, campusqa.Errorf(campusqa.ENOTFOUND, "mapped document %s is missing", m.Filename)
		} else if err != nil {
			return nil, campusqa.Errorf(campusqa.EIO, "read %s: %w", m.Filename, err)
		}
		docs = append(docs, &campusqa.Document{
			ID:        strings.TrimSuffix(m.Filename, ".txt"),
			SourceURL: m.SourceURL,
			Text:      string(b),
			Method:    m.Method,
		})
	}
	return docs, nil
}

func (c *Corpus) readMappings() ([]campusqa.URLMapping, error) {
	f, err := os.Open(c.mapping)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "open mapping: %w", err)
	}
	defer f.Close()

	var mappings []campusqa.URLMapping
	seen := make(map[string]struct{})
	err = scanLines(f, func(line string) {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return
		}
		name, url := fields[0], fields[1]
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}

		method := campusqa.Classify(url, campusqa.MethodUnknown)
		if len(fields) > 2 {
			if m, err := campusqa.ParseExtractionMethod(fields[2]); err == nil {
				method = m
			}
		}
		mappings = append(mappings, campusqa.URLMapping{Filename: name, SourceURL: url, Method: method})
	})
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "read mapping: %w", err)
	}
	return mappings, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func scanLines(f *os.File, fn func(line string)) error {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			fn(line)
		}
	}
	return sc.Err()
}
