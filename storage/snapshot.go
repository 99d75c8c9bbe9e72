package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const snapshotTimeLayout = "20060102T150405"

// Snapshot is the document written for a snapshot of the browser state.
type Snapshot struct {
	Kind    string    `json:"kind"`
	TakenAt time.Time `json:"takenAt"`
	Data    any       `json:"data"`
}

// SnapshotPath returns the default path of a snapshot of kind taken at t,
// e.g. "wifi-20211025T101500.json".
func SnapshotPath(dir, kind string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.json", kind, t.UTC().Format(snapshotTimeLayout)))
}

// WriteSnapshot encodes s as indented JSON and persists it to path. It
// returns the number of bytes written.
func WriteSnapshot(ctx context.Context, p Persister, path string, s Snapshot) (int, error) {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(s, "", "  ")
	if err != nil {
		return 0, errors.Wrapf(err, "encoding %s snapshot", s.Kind)
	}
	b = append(b, '\n')

	if err := p.Persist(ctx, path, bytes.NewReader(b)); err != nil {
		return 0, err
	}

	return len(b), nil
}
