package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/engine"
	"github.com/alfredjeanlab/qrscout/internal/model"
	"github.com/alfredjeanlab/qrscout/internal/schema"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored schema with a JSON or YAML document",
	Long: `Replace the stored schema with a JSON or YAML document.

Use "-" to read JSON from stdin. The current schema is kept if the document
is malformed.`,
	GroupID: "schema",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaPath != "" {
			return fmt.Errorf("--schema cannot be combined with import")
		}
		ctx := cmd.Context()
		eng, err := newSession(ctx, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		imported, err := importFile(ctx, eng, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(imported)
			return nil
		}
		title := imported.Title
		if title == "" {
			title = schema.DefaultName
		}
		fmt.Printf("Imported %s: %d sections, %d fields\n", title, len(imported.Sections), imported.FieldCount())
		return nil
	},
}

// importFile imports the document at path, or stdin for "-".
func importFile(ctx context.Context, eng *engine.Engine, path string) (*model.Config, error) {
	var (
		imported *model.Config
		err      error
	)
	if path == "-" {
		imported, err = eng.ImportReader(ctx, os.Stdin)
	} else {
		var data []byte
		data, err = schema.ReadFile(path)
		if err == nil {
			imported, err = eng.ImportSnapshot(ctx, data)
		}
	}
	switch {
	case errors.Is(err, engine.ErrEmptyImport):
		return nil, fmt.Errorf("%s is empty, nothing imported", path)
	case errors.Is(err, model.ErrMalformedSchema):
		return nil, fmt.Errorf("%s: %w (current schema kept)", path, err)
	case err != nil:
		return nil, err
	}
	return imported, nil
}
