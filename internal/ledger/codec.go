package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrLedgerCorrupt indicates a persisted ledger that cannot be trusted:
// unparseable, missing required fields, or carrying duplicate ids.
var ErrLedgerCorrupt = errors.New("ledger: file corrupt")

// Load deserializes a persisted ledger.
//
// The document is validated against the ledger schema before unmarshalling:
// a change missing its status (or any other required field) fails with
// ErrLedgerCorrupt rather than defaulting silently. Unknown fields are
// ignored for forward compatibility.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, path, err)
	}
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, path, err)
	}

	var l Ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, path, err)
	}
	if err := checkInvariants(&l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, path, err)
	}

	return &l, nil
}

// Save writes the ledger to path atomically: the document is staged in a
// temporary file in the destination directory and moved into place with a
// rename, so a crash mid-save never leaves a truncated ledger.
func Save(l *Ledger, path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("ledger: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ledger: create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("ledger: create staging file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: write staging file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: sync staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: close staging file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: publish %s: %w", path, err)
	}
	return nil
}

// validate checks the decoded document against the ledger schema.
// The YAML value is round-tripped through JSON so the validator sees the
// value kinds it is specified over.
func validate(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var jsonDoc any
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return err
	}
	return ledgerSchema.Validate(jsonDoc)
}

// checkInvariants enforces the semantic rules the schema cannot express:
// unique ids and no change with both texts empty.
func checkInvariants(l *Ledger) error {
	seen := make(map[string]bool)
	for _, ch := range l.Chapters {
		for _, c := range ch.Changes {
			if seen[c.ID] {
				return fmt.Errorf("duplicate change id %q", c.ID)
			}
			seen[c.ID] = true
			if c.Original == "" && c.Candidate == "" {
				return fmt.Errorf("change %q has neither original nor candidate text", c.ID)
			}
		}
	}
	return nil
}
