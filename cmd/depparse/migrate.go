package main

import (
	"fmt"
)

// migrateCommand copies every doc from the source repository into the
// target repository, e.g. from a docs directory into a SQLite file.
func migrateCommand(opts MigrateOptions, ui UI) error {
	srcPool := &Pool{}
	defer srcPool.Close()

	src, err := NewDocRepository(srcPool, opts.From, false)
	if err != nil {
		return err
	}

	dstPool := &Pool{}
	defer dstPool.Close()

	dst, err := NewDocRepository(dstPool, opts.To, true)
	if err != nil {
		return err
	}

	docs, err := src.List()
	if err != nil {
		return err
	}

	for _, meta := range docs {
		doc, err := src.Read(meta.Id)
		if err != nil {
			return err
		}

		if err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to migrate doc %q: %w", doc.Title, err)
		}

		fmt.Fprintf(ui.Err, "Migrated %q (%d sentences)\n", doc.Title, len(doc.Sentences))
	}

	return nil
}
