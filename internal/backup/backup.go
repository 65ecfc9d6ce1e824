// Package backup encodes and decodes full terminal backups.
//
// A backup carries the catalog, the sales log and the settings in one JSON
// document. Backups may be gzip-compressed; Decode detects compression from
// the leading magic bytes.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/domain/settings"
)

// Version is the document format written by Encode.
const Version = 1

// maxDecoded bounds the size of a decompressed backup.
const maxDecoded = 64 << 20

var gzipMagic = []byte{0x1f, 0x8b}

// ErrInvalidFileFormat is returned for input that is not a backup document.
var ErrInvalidFileFormat = errors.New("invalid backup file format")

// Document is the exported state of a terminal.
type Document struct {
	Version    int                `json:"version"`
	Products   []product.Product  `json:"products"`
	Sales      []ledger.Sale      `json:"sales"`
	Settings   *settings.Settings `json:"settings"`
	ExportDate time.Time          `json:"exportDate"`
}

// Encode writes doc as indented JSON.
func Encode(doc Document) ([]byte, error) {
	doc.Version = Version
	if doc.Products == nil {
		doc.Products = []product.Product{}
	}
	if doc.Sales == nil {
		doc.Sales = []ledger.Sale{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode backup")
	}
	return data, nil
}

// EncodeGzip writes doc as gzip-compressed JSON.
func EncodeGzip(doc Document) ([]byte, error) {
	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrap(err, "compress backup")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "compress backup")
	}
	return buf.Bytes(), nil
}

// Decode parses a plain or gzip-compressed backup. Documents without a
// version field are accepted as written before versioning; a missing
// products or sales section is read as empty, but at least one must be
// present. Anything else malformed yields ErrInvalidFileFormat.
func Decode(data []byte) (Document, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := pgzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return Document{}, invalid(err)
		}
		defer func() { _ = zr.Close() }()

		data, err = io.ReadAll(io.LimitReader(zr, maxDecoded))
		if err != nil {
			return Document{}, invalid(err)
		}
	}

	var raw struct {
		Version    int                `json:"version"`
		Products   *[]product.Product `json:"products"`
		Sales      *[]ledger.Sale     `json:"sales"`
		Settings   *settings.Settings `json:"settings"`
		ExportDate time.Time          `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, invalid(err)
	}
	if raw.Version != 0 && raw.Version != Version {
		return Document{}, invalid(errors.Errorf("version %d", raw.Version))
	}
	if raw.Products == nil && raw.Sales == nil {
		return Document{}, invalid(errors.New("no products or sales"))
	}

	doc := Document{
		Version:    Version,
		Products:   []product.Product{},
		Sales:      []ledger.Sale{},
		Settings:   raw.Settings,
		ExportDate: raw.ExportDate,
	}
	if raw.Products != nil {
		doc.Products = *raw.Products
	}
	if raw.Sales != nil {
		doc.Sales = *raw.Sales
	}
	return doc, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidFileFormat, err)
}

// FileName returns the download name of a backup taken at t.
func FileName(t time.Time, compressed bool) string {
	name := fmt.Sprintf("pos-backup-%d.json", t.UnixMilli())
	if compressed {
		name += ".gz"
	}
	return name
}

var spaces = regexp.MustCompile(`\s+`)

// ReportFileName returns the download name of a daily report for a store.
func ReportFileName(storeName string, t time.Time) string {
	store := spaces.ReplaceAllString(strings.TrimSpace(storeName), "-")
	return fmt.Sprintf("%s-report-%d.txt", store, t.UnixMilli())
}
