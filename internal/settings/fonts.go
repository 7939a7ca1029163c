package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// ErrParse marks a font file that exists but could not be understood.
var ErrParse = errors.New("malformed font file")

// FontParser turns a font file path into a Font.
type FontParser interface {
	ParseFont(path string) (Font, error)
}

// SFNTParser reads the family name from TrueType and OpenType files,
// including the first face of a collection.
type SFNTParser struct{}

// ParseFont implements FontParser.
func (SFNTParser) ParseFont(path string) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, fmt.Errorf("failed to read font file: %w", err)
	}

	f, err := parseFace(data)
	if err != nil {
		return Font{}, fmt.Errorf("%w: %s: %v", ErrParse, filepath.Base(path), err)
	}

	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || strings.TrimSpace(name) == "" {
		name, err = f.Name(&buf, sfnt.NameIDFull)
	}
	if err != nil || strings.TrimSpace(name) == "" {
		// A face without a usable name table is still a valid font.
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return Font{Name: name, Path: path}, nil
}

func parseFace(data []byte) (*sfnt.Font, error) {
	f, err := sfnt.Parse(data)
	if err == nil {
		return f, nil
	}
	c, cerr := sfnt.ParseCollection(data)
	if cerr != nil || c.NumFonts() == 0 {
		return nil, err
	}
	return c.Font(0)
}

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// ListFonts walks dir and returns every font file SFNTParser can read,
// sorted by name. Files that fail to parse are skipped.
func ListFonts(dir string) ([]Font, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}

	var parser SFNTParser
	var fonts []Font
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping unreadable font path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !fontExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		font, err := parser.ParseFont(path)
		if err != nil {
			slog.Debug("skipping font", "path", path, "error", err)
			return nil
		}
		fonts = append(fonts, font)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}

	sort.Slice(fonts, func(i, j int) bool {
		if fonts[i].Name != fonts[j].Name {
			return fonts[i].Name < fonts[j].Name
		}
		return fonts[i].Path < fonts[j].Path
	})
	return fonts, nil
}
