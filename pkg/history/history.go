package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"skip-bridge/pkg/types"
)

const DefaultStorageFileName = ".skip-bridge-history.json"

// Record is one bridge attempt as persisted to the history file.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Amount      string `json:"amount"`
	SourceToken string `json:"source_token"`
	DestToken   string `json:"dest_token"`
	SourceChain string `json:"source_chain"`
	DestChain   string `json:"dest_chain"`

	Submitted  []types.SubmittedTx `json:"submitted"`
	FinalState types.TxState       `json:"final_state,omitempty"`
}

type storageFile struct {
	Records map[string]*Record `json:"records"`
}

// Store persists bridge attempts to a JSON file so past transfers can be
// listed and re-checked after the process exits.
type Store struct {
	filePath string
	mu       sync.RWMutex
	records  map[string]*Record
}

// NewStore opens (or lazily creates) the history file. An empty filePath
// defaults to the user's home directory.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	store := &Store{
		filePath: filePath,
		records:  make(map[string]*Record),
	}
	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
	}
	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file storageFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = file.Records
	if s.records == nil {
		s.records = make(map[string]*Record)
	}
	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(storageFile{Records: s.records}, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// temp file plus rename keeps the history file whole on crash
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Add persists a new record. The record id must be unique.
func (s *Store) Add(record *Record) error {
	s.mu.Lock()
	if _, exists := s.records[record.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("history record '%s' already exists", record.ID)
	}
	s.records[record.ID] = record
	s.mu.Unlock()

	return s.save()
}

// SetFinalState records the transfer's final state once tracking concluded.
func (s *Store) SetFinalState(id string, state types.TxState) error {
	s.mu.Lock()
	record, exists := s.records[id]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("history record '%s' not found", id)
	}
	record.FinalState = state
	s.mu.Unlock()

	return s.save()
}

// Get retrieves a record by id.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[id]
	if !exists {
		return nil, fmt.Errorf("history record '%s' not found", id)
	}
	return record, nil
}

// List returns all records, most recent first.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FilePath returns the backing file path.
func (s *Store) FilePath() string {
	return s.filePath
}
