package models

import (
	"io"

	"gopkg.in/yaml.v3"
)

// WriteSnapshot writes r as YAML. Snapshots are for inspection; nothing loads them back.
func (r Repository) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
