package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"menucatalog/internal/catalog"
)

var csvHeader = []string{"id", "itemname", "description", "category", "price", "image"}

// FileSource reads a catalog file. The format follows the extension:
// .json, .yaml/.yml or .csv.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Load(ctx context.Context) ([]catalog.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		items []catalog.MenuItem
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".json":
		items, err = s.loadJSON()
	case ".yaml", ".yml":
		items, err = s.loadYAML()
	case ".csv":
		items, err = ParseCSV(s.Path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FileSource) loadJSON() ([]catalog.MenuItem, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return decodeJSON(data)
}

func (s *FileSource) loadYAML() ([]catalog.MenuItem, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var doc struct {
		MenuItems []catalog.MenuItem `yaml:"menuItems"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.MenuItems != nil {
		return doc.MenuItems, nil
	}

	var items []catalog.MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return items, nil
}

// ParseCSV reads menu items from a CSV file with the header
// id,itemname,description,category,price,image.
func ParseCSV(path string) ([]catalog.MenuItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d columns, got %d", len(csvHeader), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != csvHeader[i] {
			return nil, fmt.Errorf("invalid header: expected %s at position %d, got %s", csvHeader[i], i, h)
		}
	}

	var items []catalog.MenuItem
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("parsing price at line %d: %w", line, err)
		}

		items = append(items, catalog.MenuItem{
			ID:          record[0],
			ItemName:    record[1],
			Description: record[2],
			Category:    record[3],
			Price:       price,
			Image:       record[5],
		})
	}

	return items, nil
}
