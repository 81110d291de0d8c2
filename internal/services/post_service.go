package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"

	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrPostExists    = errors.New("a post with this name already exists")
	ErrPostNotFound  = errors.New("post not found")
	ErrNoDrafts      = errors.New("no drafts available")
)

type PostServiceInterface interface {
	Create(title string) (string, error)
	ToggleVisibility(relPath string) (bool, error)
	SetPassword(relPath, password string) error
	RandomDraft() (string, error)
}

// PostService performs the file-level operations behind the user commands:
// creating templated posts and editing single front-matter fields in place.
type PostService struct {
	conf    *structures.Config
	logger  providers.Logger
	scanner vault.ScannerInterface

	now func() time.Time
}

func NewPostService(conf *structures.Config, logger providers.Logger, scanner vault.ScannerInterface) PostServiceInterface {
	return &PostService{
		conf:    conf,
		logger:  logger,
		scanner: scanner,
		now:     time.Now,
	}
}

// Create writes a new post with templated front matter and returns its
// vault-relative path. An existing file at the target path is a user-visible
// rejection; nothing is overwritten.
func (ps *PostService) Create(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}

	slug := Slugify(title)
	rel := path.Join(ps.conf.Vault.PostsFolder, slug+ps.conf.Vault.NoteExt)
	abs := ps.scanner.Abs(rel)

	if _, err := os.Stat(abs); err == nil {
		return "", ErrPostExists
	} else if !os.IsNotExist(err) {
		return "", err
	}

	fields := map[string]any{
		ps.conf.Vault.TitleKey: title,
		ps.conf.Vault.DateKey:  ps.now().Format(dayFormat),
		"slug":                 slug,
	}
	fm, err := vault.SerializeFrontMatter(fields)
	if err != nil {
		return "", err
	}
	content := vault.JoinFrontMatter(fm, []byte(fmt.Sprintf("\n# %s\n", title)), true)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return "", err
	}

	ps.logger.Infof(providers.TypeVault, "Created post %s", rel)
	return rel, nil
}

// ToggleVisibility flips the unlisted flag and reports the new state.
func (ps *PostService) ToggleVisibility(relPath string) (bool, error) {
	unlisted := false
	err := ps.editFrontMatter(relPath, func(fields map[string]any) {
		unlisted = !cast.ToBool(fields[ps.conf.Vault.UnlistedKey])
		if unlisted {
			fields[ps.conf.Vault.UnlistedKey] = true
		} else {
			delete(fields, ps.conf.Vault.UnlistedKey)
		}
	})
	return unlisted, err
}

// SetPassword sets the password field; an empty password removes it.
func (ps *PostService) SetPassword(relPath, password string) error {
	return ps.editFrontMatter(relPath, func(fields map[string]any) {
		if password == "" {
			delete(fields, ps.conf.Vault.PasswordKey)
		} else {
			fields[ps.conf.Vault.PasswordKey] = password
		}
	})
}

// editFrontMatter rewrites one note's front matter, leaving the body bytes
// untouched. A note without front matter gains a block.
func (ps *PostService) editFrontMatter(relPath string, edit func(fields map[string]any)) error {
	abs := ps.scanner.Abs(relPath)
	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPostNotFound
		}
		return err
	}

	fm, body, had, err := vault.SplitFrontMatter(content)
	if err != nil {
		return fmt.Errorf("cannot edit %s: %w", relPath, err)
	}
	fields := map[string]any{}
	if had {
		if fields, err = vault.ParseFrontMatter(fm); err != nil {
			return fmt.Errorf("cannot edit %s: %w", relPath, err)
		}
	}

	edit(fields)

	out, err := vault.SerializeFrontMatter(fields)
	if err != nil {
		return err
	}
	return os.WriteFile(abs, vault.JoinFrontMatter(out, body, true), 0o644)
}

// RandomDraft picks a random tracked file with no published URL.
func (ps *PostService) RandomDraft() (string, error) {
	files, err := ps.scanner.List()
	if err != nil {
		return "", err
	}

	drafts := make([]string, 0, len(files))
	for _, f := range files {
		meta, err := ps.scanner.Meta(f)
		if err != nil {
			continue
		}
		if cast.ToString(meta.FrontMatter[ps.conf.Vault.PublishedURLKey]) == "" {
			drafts = append(drafts, f.Path)
		}
	}
	if len(drafts) == 0 {
		return "", ErrNoDrafts
	}
	return drafts[rand.IntN(len(drafts))], nil
}

// Slugify lowercases, strips diacritics-free non-alphanumerics and joins
// words with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
