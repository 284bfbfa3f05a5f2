package dataset

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes records to path, creating or truncating the file.
func WriteCSV(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// ReadCSV reads records back from a file written by WriteCSV.
func ReadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	records := []Record{}
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return records, nil
}
