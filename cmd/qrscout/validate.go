package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/model"
	"github.com/alfredjeanlab/qrscout/internal/schema"
	"github.com/alfredjeanlab/qrscout/internal/ui"
)

// validationResult is the JSON form of a validate run.
type validationResult struct {
	File     string             `json:"file"`
	Valid    bool               `json:"valid"`
	Title    string             `json:"title,omitempty"`
	Sections int                `json:"sections,omitempty"`
	Fields   int                `json:"fields,omitempty"`
	Errors   []model.FieldError `json:"errors,omitempty"`
	Error    string             `json:"error,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:     "validate <file>...",
	Short:   "Check schema documents without importing them",
	GroupID: "schema",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]validationResult, 0, len(args))
		failed := 0
		for _, path := range args {
			r := validateFile(path)
			if !r.Valid {
				failed++
			}
			results = append(results, r)
		}

		if jsonOutput {
			printJSON(results)
		} else {
			for _, r := range results {
				printValidation(r)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d schema(s) invalid", failed, len(args))
		}
		return nil
	},
}

func validateFile(path string) validationResult {
	r := validationResult{File: path}
	data, err := schema.ReadFile(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	c, err := schema.Parse(data)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			r.Errors = ve.Errors
		} else {
			r.Error = err.Error()
		}
		return r
	}
	r.Valid = true
	r.Title = c.Title
	r.Sections = len(c.Sections)
	r.Fields = c.FieldCount()
	return r
}

func printValidation(r validationResult) {
	if r.Valid {
		fmt.Printf("%s %s: %d sections, %d fields\n", ui.RenderOK("ok"), r.File, r.Sections, r.Fields)
		return
	}
	fmt.Printf("%s %s\n", ui.RenderWarn("invalid"), r.File)
	if r.Error != "" {
		fmt.Printf("  %s\n", r.Error)
	}
	for _, fe := range r.Errors {
		fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
	}
}
