package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

// VaultFile is one tracked note, addressed by its vault-relative slash path.
type VaultFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FileMeta is the cached per-file metadata extracted from a note: its parsed
// front matter plus the word/line counts of the body.
type FileMeta struct {
	FrontMatter map[string]any
	WordCount   int
	LineCount   int

	modTime time.Time
}

type ScannerInterface interface {
	List() ([]VaultFile, error)
	Meta(f VaultFile) (*FileMeta, error)
	Root() string
	Abs(rel string) string
}

// Scanner walks the posts folder of the vault and caches extracted metadata
// keyed by path and mod time, so repeated scans only re-read changed files.
type Scanner struct {
	conf   *structures.Config
	logger providers.Logger

	mu    sync.Mutex
	cache map[string]*FileMeta
}

func NewScanner(conf *structures.Config, logger providers.Logger) ScannerInterface {
	return &Scanner{
		conf:   conf,
		logger: logger,
		cache:  make(map[string]*FileMeta),
	}
}

func (s *Scanner) Root() string {
	return s.conf.Vault.Path
}

func (s *Scanner) Abs(rel string) string {
	return filepath.Join(s.conf.Vault.Path, filepath.FromSlash(rel))
}

func (s *Scanner) List() ([]VaultFile, error) {
	root := filepath.Join(s.conf.Vault.Path, filepath.FromSlash(s.conf.Vault.PostsFolder))
	ext := s.conf.Vault.NoteExt

	var files []VaultFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden folders (.dispatch, .obsidian, .git) are not posts.
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.conf.Vault.Path, path)
		if err != nil {
			return err
		}
		files = append(files, VaultFile{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return files, nil
}

func (s *Scanner) Meta(f VaultFile) (*FileMeta, error) {
	s.mu.Lock()
	if cached, ok := s.cache[f.Path]; ok && cached.modTime.Equal(f.ModTime) {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	content, err := os.ReadFile(s.Abs(f.Path))
	if err != nil {
		return nil, err
	}

	fm, body, had, err := SplitFrontMatter(content)
	fields := map[string]any{}
	if err != nil {
		s.logger.Debugf(providers.TypeVault, "Unreadable front matter in %s: %s", f.Path, err)
		body = content
	} else if had {
		fields, err = ParseFrontMatter(fm)
		if err != nil {
			s.logger.Debugf(providers.TypeVault, "Invalid front matter in %s: %s", f.Path, err)
			fields = map[string]any{}
		}
	}

	meta := &FileMeta{
		FrontMatter: fields,
		WordCount:   CountWords(body),
		LineCount:   CountLines(body),
		modTime:     f.ModTime,
	}

	s.mu.Lock()
	s.cache[f.Path] = meta
	s.mu.Unlock()
	return meta, nil
}
