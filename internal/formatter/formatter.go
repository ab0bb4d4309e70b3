// package formatter exports a chat row to various formats (HTML, JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/k7t3/horzcv/internal/shared"
)

// Format is an export format.
type Format string

const (
	HTML     Format = "html"
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats returns every supported format.
func Formats() []Format { return []Format{HTML, JSON, CSV, Markdown, Text} }

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return HTML, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

//go:embed page.html.tmpl
var pageSource string

var page = template.Must(template.New("page").Parse(pageSource))

// WriteHTML renders row as a standalone page to w.
func WriteHTML(w io.Writer, row *Row) error {
	if err := page.Execute(w, row); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// ExportToHTML renders row as a standalone page.
func ExportToHTML(row *Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, row); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToJSON converts a Row to indented JSON
func ExportToJSON(row *Row) ([]byte, error) {
	data, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts a Row to CSV format with columns: Position, Service, ID, Name, URL
func ExportToCSV(row *Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Service", "ID", "Name", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, item := range row.Items {
		record := []string{strconv.Itoa(i + 1), item.Service, item.ID, item.DisplayName, item.URL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Row to Markdown.
//
// images maps item positions to local image filenames shown next to the item.
func ExportToMarkdown(row *Row, images map[int]string) ([]byte, error) {
	var buf bytes.Buffer

	title := row.Title
	if title == "" {
		title = "Chat row"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Token**: `%s`\n", row.Token)
	fmt.Fprintf(&buf, "**Chats**: %d\n\n", len(row.Items))

	buf.WriteString("## Streams\n\n")
	for i, item := range row.Items {
		img := ""
		if name, ok := images[i]; ok {
			img = fmt.Sprintf("![%s](%s) ", item.Label(), name)
		}
		fmt.Fprintf(&buf, "%d. %s[%s](%s) (%s)\n", i+1, img, item.Label(), item.URL, item.Service)
	}
	return buf.Bytes(), nil
}

// ExportToText converts a Row to plain text format
func ExportToText(row *Row) ([]byte, error) {
	var buf bytes.Buffer

	if row.Title != "" {
		fmt.Fprintf(&buf, "Title: %s\n", row.Title)
	}
	fmt.Fprintf(&buf, "Token: %s\n", row.Token)
	fmt.Fprintf(&buf, "Chats: %d\n\n", len(row.Items))

	for i, item := range row.Items {
		fmt.Fprintf(&buf, "%d. [%s] %s - %s\n", i+1, item.Service, item.Label(), item.URL)
	}
	return buf.Bytes(), nil
}

// Export renders row in format f.
func Export(row *Row, f Format) ([]byte, error) {
	switch f {
	case HTML:
		return ExportToHTML(row)
	case JSON:
		return ExportToJSON(row)
	case CSV:
		return ExportToCSV(row)
	case Markdown:
		return ExportToMarkdown(row, nil)
	case Text:
		return ExportToText(row)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
//
// A nil client uses one with a 30 second timeout.
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty image URL", shared.ErrMissingArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// WriteFileExport writes row in format f to path.
//
// An empty path defaults to horzcv.{ext} in the working directory.
func WriteFileExport(row *Row, f Format, path string) (string, error) {
	if path == "" {
		path = "horzcv." + extension(f)
	}

	data, err := Export(row, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Images    []string
	Warnings  []error
}

// WriteMarkdownExport exports a row to a dedicated directory as README.md.
//
// Items with a thumbnail URL get the image downloaded next to the README as {position}.jpg.
// Download failures are collected as warnings and leave the item without an image.
func WriteMarkdownExport(row *Row, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "horzcv"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	images := make(map[int]string)

	for i, item := range row.Items {
		if item.ThumbnailURL == "" {
			continue
		}
		data, err := DownloadImage(client, item.ThumbnailURL)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", item.Label(), err))
			continue
		}
		name := fmt.Sprintf("%d.jpg", i+1)
		imgPath := filepath.Join(outputDir, name)
		if err := os.WriteFile(imgPath, data, 0644); err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("%s: failed to save image: %w", item.Label(), err))
			continue
		}
		images[i] = name
		result.Images = append(result.Images, imgPath)
		result.Files = append(result.Files, imgPath)
	}

	md, err := ExportToMarkdown(row, images)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)
	return result, nil
}

func extension(f Format) string {
	switch f {
	case Markdown:
		return "md"
	case Text:
		return "txt"
	default:
		return string(f)
	}
}
