package wordlist

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// FileSource reads each list from a newline-delimited text file.
type FileSource struct {
	Stopwords string `toml:"stopwords"`
	Positive  string `toml:"positive"`
	Negative  string `toml:"negative"`
	Abusive   string `toml:"abusive"`
	Safe      string `toml:"safe"`
}

func (fs FileSource) Load(ctx context.Context) (*Lists, error) {
	paths := map[string]string{
		Stopwords: fs.Stopwords,
		Positive:  fs.Positive,
		Negative:  fs.Negative,
		Abusive:   fs.Abusive,
		Safe:      fs.Safe,
	}

	raw := make(map[string][]string, len(paths))
	for name, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// A missing safe list only disables the false-positive guard.
		if path == "" && name == Safe {
			log.Warnf("[wordlist] no %s list configured", name)
			continue
		}

		terms, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s list: %w", name, err)
		}
		raw[name] = terms
		log.Debugf("[wordlist] loaded %d %s terms from %s", len(terms), name, path)
	}

	lists := New(raw)
	if err := lists.Validate(); err != nil {
		return nil, err
	}

	return lists, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
