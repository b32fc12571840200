/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package files turns uploaded statement documents into text or structured
// records the import pipeline can work with.
package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/statement"
)

// Kind is how a document's content reaches the parser.
type Kind string

const (
	KindText        Kind = "text"
	KindSpreadsheet Kind = "spreadsheet"
	KindStructured  Kind = "structured"
	KindBinary      Kind = "binary"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ErrNoExtractor is returned for binary documents when no text extractor is configured.
var ErrNoExtractor = errors.New("no text extractor configured for binary documents")

// TextExtractor pulls plain statement text out of a binary document such as a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// Document is an uploaded file reduced to either delimited text or a list of
// already mapped records.
type Document struct {
	Name     string
	Kind     Kind
	MimeType string
	Text     string
	Records  []model.MappedRecord
}

// Read detects the type of the upload and converts it. Spreadsheets are
// rendered from their first sheet. Binary documents go through extractor.
func Read(ctx context.Context, name string, reader io.Reader, extractor TextExtractor) (Document, error) {
	tempFile, err := createAndPopulateTempFile(name, reader)
	if err != nil {
		return Document{}, err
	}
	defer cleanupTempFile(tempFile)

	mimeType, err := detectFileTypeFromTempFile(tempFile, name)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Name: name, MimeType: mimeType, Kind: KindOf(mimeType)}
	switch doc.Kind {
	case KindText:
		data, err := io.ReadAll(tempFile)
		if err != nil {
			return Document{}, fmt.Errorf("error reading %s: %w", name, err)
		}
		doc.Text = string(data)
	case KindSpreadsheet:
		doc.Text, err = spreadsheetText(tempFile)
		if err != nil {
			return Document{}, fmt.Errorf("error reading spreadsheet %s: %w", name, err)
		}
	case KindStructured:
		if err := json.NewDecoder(tempFile).Decode(&doc.Records); err != nil {
			return Document{}, fmt.Errorf("error decoding records in %s: %w", name, err)
		}
	default:
		if extractor == nil {
			return Document{}, ErrNoExtractor
		}
		data, err := io.ReadAll(tempFile)
		if err != nil {
			return Document{}, fmt.Errorf("error reading %s: %w", name, err)
		}
		doc.Text, err = extractor.ExtractText(ctx, name, mimeType, data)
		if err != nil {
			return Document{}, fmt.Errorf("error extracting text from %s: %w", name, err)
		}
	}
	return doc, nil
}

// KindOf maps a detected MIME type to the way its content is read.
func KindOf(mimeType string) Kind {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	switch mediaType {
	case "text/csv", "text/plain", "text/tab-separated-values":
		return KindText
	case mimeXLSX, "application/zip":
		return KindSpreadsheet
	case "application/json":
		return KindStructured
	}
	return KindBinary
}

// spreadsheetText renders every row of the first sheet as a quoted CSV line.
func spreadsheetText(reader io.Reader) (string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("error closing spreadsheet: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		b.WriteString(statement.SerializeRow(row))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func createAndPopulateTempFile(filename string, reader io.Reader) (*os.File, error) {
	tempFile, err := createTempFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error creating temporary file: %w", err)
	}

	if _, err := io.Copy(tempFile, reader); err != nil {
		cleanupTempFile(tempFile)
		return nil, fmt.Errorf("error copying upload data: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		cleanupTempFile(tempFile)
		return nil, fmt.Errorf("error seeking temporary file: %w", err)
	}

	return tempFile, nil
}

// detectFileTypeFromTempFile sniffs the first 512 bytes and rewinds the file.
func detectFileTypeFromTempFile(tempFile *os.File, filename string) (string, error) {
	header := make([]byte, 512)
	n, err := tempFile.Read(header)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading file header: %w", err)
	}

	fileType, err := DetectFileType(header[:n], filename)
	if err != nil {
		return "", fmt.Errorf("error detecting file type: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error seeking temporary file: %w", err)
	}

	return fileType, nil
}

func createTempFile(originalFilename string) (*os.File, error) {
	tempDir := filepath.Join(os.TempDir(), "commission_uploads")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating temporary directory: %w", err)
	}

	prefix := fmt.Sprintf("%s_", filepath.Base(originalFilename))
	return os.CreateTemp(tempDir, prefix)
}

func cleanupTempFile(file *os.File) {
	if file == nil {
		return
	}
	filename := file.Name()
	file.Close()
	if err := os.Remove(filename); err != nil {
		logrus.Warnf("error removing temporary file %s: %v", filename, err)
	}
}

// DetectFileType detects the type from the extension first, then from content.
func DetectFileType(data []byte, filename string) (string, error) {
	if mimeType := DetectByExtension(filename); mimeType != "" {
		return mimeType, nil
	}
	return DetectByContent(data)
}

// DetectByExtension knows the statement formats even where the system MIME
// table does not.
func DetectByExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	case ".xlsx", ".xlsm":
		return mimeXLSX
	case ".json":
		return "application/json"
	case ".pdf":
		return mimePDF
	}
	return mime.TypeByExtension(ext)
}

// DetectByContent sniffs content when the extension says nothing.
func DetectByContent(data []byte) (string, error) {
	mimeType := http.DetectContentType(data)

	switch mimeType {
	case "application/octet-stream", "text/plain; charset=utf-8":
		return AnalyzeTextContent(data)
	default:
		return mimeType, nil
	}
}

// AnalyzeTextContent tells CSV from JSON from plain text.
func AnalyzeTextContent(data []byte) (string, error) {
	if LooksLikeCSV(data) {
		return "text/csv", nil
	}
	if json.Valid(data) {
		return "application/json", nil
	}
	return "text/plain", nil
}

// LooksLikeCSV requires at least two lines and the same comma count on each.
func LooksLikeCSV(data []byte) bool {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) < 2 {
		return false
	}

	fields := bytes.Count(lines[0], []byte(",")) + 1
	for _, line := range lines[1:] {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if bytes.Count(line, []byte(","))+1 != fields {
			return false
		}
	}

	return fields > 1
}
