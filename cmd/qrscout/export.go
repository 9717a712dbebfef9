package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/config"
	qsync "github.com/alfredjeanlab/qrscout/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the schema without values to a shareable file",
	Long: `Write the schema without values to <Title>_config.json.

With --publish the snapshot is also copied to the S3 bucket and git repo
named by the QRSCOUT_PUBLISH_* settings. With a publish interval configured,
--publish keeps running and re-publishes whenever the stored schema changes.`,
	GroupID: "schema",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir, _ := cmd.Flags().GetString("dir")
		stdout, _ := cmd.Flags().GetBool("stdout")
		publish, _ := cmd.Flags().GetBool("publish")

		eng, err := newSession(ctx, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		name, data, err := eng.ExportJSON(ctx)
		if err != nil {
			return err
		}

		switch {
		case stdout:
			os.Stdout.Write(data)
		case !publish || dir != "":
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}

		if !publish {
			return nil
		}
		dests, err := destinations(ctx, cfg)
		if err != nil {
			return err
		}
		if len(dests) == 0 {
			return fmt.Errorf("no publish destination configured (set QRSCOUT_PUBLISH_S3_BUCKET or QRSCOUT_PUBLISH_GIT_REPO)")
		}

		if cfg.Publish.Interval == 0 {
			if err := qsync.Distribute(ctx, dests, name, data, logger); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Published %s to %d destination(s)\n", name, len(dests))
			return nil
		}

		source := func(ctx context.Context) (string, []byte, error) {
			if schemaPath == "" {
				if err := eng.Start(ctx); err != nil {
					return "", nil, err
				}
			}
			return eng.ExportJSON(ctx)
		}
		sched := qsync.NewScheduler(source, dests, cfg.Publish.Interval, logger)
		logger.Info("publishing on an interval", "interval", cfg.Publish.Interval, "destinations", len(dests))
		sched.Start(ctx)
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}

// destinations builds the publish targets configured in c.
func destinations(ctx context.Context, c *config.Config) ([]qsync.Destination, error) {
	var dests []qsync.Destination
	if c.Publish.S3.Bucket != "" {
		d, err := qsync.NewS3Destination(ctx, c.Publish.S3.Bucket, c.Publish.S3.Prefix, c.Publish.S3.Region, c.Publish.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	if c.Publish.Git.Repo != "" {
		dests = append(dests, qsync.NewGitDestination(c.Publish.Git.Repo, c.Publish.Git.Dir, c.Publish.Git.Branch))
	}
	return dests, nil
}

func init() {
	exportCmd.Flags().String("dir", "", "directory to write the snapshot file to")
	exportCmd.Flags().Bool("stdout", false, "write the snapshot to stdout instead of a file")
	exportCmd.Flags().Bool("publish", false, "copy the snapshot to the configured destinations")
}
