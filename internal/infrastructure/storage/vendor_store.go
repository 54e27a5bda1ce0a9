// Package storage persists the monitored-vendor list and the last-run
// timestamp as a flat JSON document.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/ports"
)

const lastRunLayout = "2006-01-02 15:04:05"

// Vendors monitored out of the box when no store exists yet.
var defaultVendors = []string{
	"fortigate", "fortinet", "splunk", "oodrive", "ivanti",
	"zero-day", "chrome", "chromium", "github", "gitlab",
	"claude", "chatgpt", "grok", "microsoft", "linux", "aws", "gcp", "qualys",
}

// FileStore implements VendorStore over a single JSON file. Vendor names are
// unique case-insensitively and kept in insertion order.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ ports.VendorStore = (*FileStore)(nil)

// NewFileStore wires the document path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

type vendorEntryJSON struct {
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

type vendorDocument struct {
	Vendors     []vendorEntryJSON `json:"vendors"`
	LastUpdated string            `json:"last_updated,omitempty"`
}

// Load returns the ordered vendor snapshot, seeding the default list when
// the store does not exist yet.
func (s *FileStore) Load() ([]domain.VendorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if s.logger != nil {
			s.logger.Info("vendor store missing, seeding defaults", "path", s.path)
		}
		doc = seedDocument()
		if err := s.write(doc); err != nil {
			return nil, err
		}
	}

	entries := make([]domain.VendorEntry, 0, len(doc.Vendors))
	for _, v := range doc.Vendors {
		entries = append(entries, domain.VendorEntry{Name: v.Name, AddedAt: v.AddedAt})
	}
	return entries, nil
}

// Add appends a vendor unless a case-insensitive duplicate exists.
func (s *FileStore) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty vendor name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		doc = seedDocument()
	}

	for _, v := range doc.Vendors {
		if strings.EqualFold(v.Name, name) {
			return fmt.Errorf("vendor %q already exists", name)
		}
	}

	doc.Vendors = append(doc.Vendors, vendorEntryJSON{
		Name:    strings.ToLower(name),
		AddedAt: time.Now(),
	})
	return s.write(doc)
}

// Remove deletes a vendor by case-insensitive name.
func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	kept := doc.Vendors[:0]
	removed := false
	for _, v := range doc.Vendors {
		if strings.EqualFold(v.Name, name) {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		return fmt.Errorf("vendor %q not found", name)
	}
	doc.Vendors = kept
	return s.write(doc)
}

// LastRun returns the last successful run time; a zero time means never.
func (s *FileStore) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if doc.LastUpdated == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(lastRunLayout, doc.LastUpdated, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt last_updated %q: %w", doc.LastUpdated, err)
	}
	return t, nil
}

// TouchLastRun records a completed pipeline pass.
func (s *FileStore) TouchLastRun(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		doc = seedDocument()
	}
	doc.LastUpdated = t.Format(lastRunLayout)
	return s.write(doc)
}

func (s *FileStore) read() (vendorDocument, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return vendorDocument{}, err
	}
	var doc vendorDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return vendorDocument{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc vendorDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vendor document: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func seedDocument() vendorDocument {
	now := time.Now()
	doc := vendorDocument{}
	for _, name := range defaultVendors {
		doc.Vendors = append(doc.Vendors, vendorEntryJSON{Name: name, AddedAt: now})
	}
	return doc
}
