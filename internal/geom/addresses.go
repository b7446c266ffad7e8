package geom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadAddressesYAML decodes the addresses.yaml document: a mapping with an addresses sequence.
func ReadAddressesYAML(r io.Reader) ([]Address, error) {
	var book struct {
		Addresses *[]Address `yaml:"addresses"`
	}
	if err := yaml.NewDecoder(r).Decode(&book); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("yaml: empty document")
		}
		return nil, err
	}
	if book.Addresses == nil {
		return nil, errors.New("yaml: addresses field missing")
	}
	return *book.Addresses, nil
}

// LoadAddresses reads an address file, picking the decoder from the extension.
func LoadAddresses(path string) ([]Address, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var addrs []Address
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		addrs, err = ReadAddressesYAML(f)
	case ".csv":
		addrs, err = ReadAddressesCSV(f)
	default:
		return nil, fmt.Errorf("unsupported address file: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return addrs, nil
}
