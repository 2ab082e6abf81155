package results

// store.go persists results documents.

import (
	"errors"
	"fmt"
	"os"

	"github.com/balboard/balboard/jsonfile"
	"github.com/balboard/balboard/model"
)

// ErrNotFound is returned when a results document does not exist.
var ErrNotFound = errors.New("results file not found")

// Load reads the results document at path. Variants stored without
// parameters or results are returned with empty ones, so the first save of
// a document written elsewhere spells them out as [] and {}.
func Load(path string) (model.TestResults, error) {
	var doc model.TestResults
	if err := jsonfile.Read(path, &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.TestResults{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return model.TestResults{}, err
	}
	doc.Normalize()
	return doc, nil
}

// Save writes doc to path with 2-space indentation.
func Save(path string, doc model.TestResults) error {
	doc.Normalize()
	return jsonfile.Write(path, doc)
}

// Update loads the document at path, applies fn and saves the result while
// holding the document's lock. A missing document is an error.
func Update(path string, fn func(model.TestResults) (model.TestResults, error)) error {
	// Checked before locking so a missing document leaves nothing behind
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return jsonfile.WithLock(path, func() error {
		doc, err := Load(path)
		if err != nil {
			return err
		}
		updated, err := fn(doc)
		if err != nil {
			return err
		}
		return Save(path, updated)
	})
}

// Upsert is like Update but starts from init when no document exists yet.
func Upsert(path string, init func() model.TestResults, fn func(model.TestResults) (model.TestResults, error)) error {
	return jsonfile.WithLock(path, func() error {
		doc, err := Load(path)
		if errors.Is(err, ErrNotFound) {
			doc = init()
			doc.Normalize()
		} else if err != nil {
			return err
		}
		updated, err := fn(doc)
		if err != nil {
			return err
		}
		return Save(path, updated)
	})
}
