package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// ReadDescription reads a product description from a text file, sniffing
// the charset so Latin-1/Windows-1252 exports from older tooling decode
// correctly into UTF-8.
func ReadDescription(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open description: %w", err)
	}
	defer f.Close()

	r, err := charset.NewReader(bufio.NewReader(f), "text/plain")
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
