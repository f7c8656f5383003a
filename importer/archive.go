package importer

import (
	"context"
	"fmt"

	"github.com/quoll3d/quoll/model"
	"github.com/quoll3d/quoll/utility/qar"
)

// ArchiveSource streams a cooked model payload out of a qar archive.
// A nil Decode falls back to the cooked model decoder.
type ArchiveSource struct {
	Archive *qar.Archive
	Name    string
	Label   string
	Decode  DecodeFunc
}

// ID implements Source
func (a ArchiveSource) ID() string {
	return fmt.Sprintf("%s_archive", a.Name)
}

// Load implements Source
func (a ArchiveSource) Load(ctx context.Context) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := a.Archive.ReadAll(a.Name)
	if err != nil {
		return nil, fmt.Errorf("reading archive entry %s: %w", a.Name, err)
	}

	label := a.Label
	if label == "" {
		label = a.Name
	}

	decode := a.Decode
	if decode == nil {
		decode = func(data []byte, _ string) (*model.Model, error) {
			return model.Decode(data)
		}
	}
	m, err := decode(data, label)
	if err != nil {
		return nil, fmt.Errorf("decoding archive entry %s: %w", a.Name, err)
	}

	if m.Label == "" {
		m.Label = label
	}
	if m.ContentID == 0 {
		m.ContentID = model.ContentIDFor(m.Label)
	}
	if m.Reference == "" {
		m.Reference = fmt.Sprintf("qar://%s", a.Name)
	}
	return m, nil
}
