package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/events"
	"github.com/alfredjeanlab/qrscout/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print records as scouts submit them",
	Long: `Print records as scouts submit them.

Subscribes to QRSCOUT_NATS_URL and prints one line per submitted record,
ready to paste into a spreadsheet. With --all every session event is shown.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		natsURL, _ := cmd.Flags().GetString("nats-url")
		if natsURL == "" {
			natsURL = cfg.NATSURL
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS server configured (set QRSCOUT_NATS_URL or --nats-url)")
		}

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats: disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		topic := events.TopicRecordSubmitted
		if all {
			topic = events.TopicAll
		}
		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()
		logger.Debug("watching", "topic", topic)

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				if err := printEvent(os.Stdout, msg); err != nil {
					logger.Warn("skipping undecodable event", "topic", msg.Topic, "err", err)
				}
			}
		}
	},
}

// printEvent writes one received event. Submitted records are printed as
// the bare record line unless --json is set.
func printEvent(w io.Writer, msg events.Message) error {
	if jsonOutput {
		_, err := fmt.Fprintf(w, "{\"topic\":%q,\"event\":%s}\n", msg.Topic, msg.Data)
		return err
	}
	ev, err := events.Decode(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, formatEvent(ev))
	return err
}

func formatEvent(ev any) string {
	switch e := ev.(type) {
	case *events.RecordSubmitted:
		return e.Record
	case *events.SchemaImported:
		return ui.RenderMuted(fmt.Sprintf("# %s imported %q (%d fields)", e.SessionID, e.Title, e.Fields))
	case *events.SchemaExported:
		return ui.RenderMuted(fmt.Sprintf("# %s exported %s", e.SessionID, e.FileName))
	case *events.FieldUpdated:
		return ui.RenderMuted(fmt.Sprintf("# %s set %s.%s = %s", e.SessionID, e.Section, e.Code, e.Value))
	case *events.FormReset:
		return ui.RenderMuted(fmt.Sprintf("# %s reset (%s)", e.SessionID, e.Policy))
	case *map[string]any:
		keys := make([]string, 0, len(*e))
		for k := range *e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return ui.RenderMuted("# event with " + strings.Join(keys, ", "))
	}
	return fmt.Sprint(ev)
}

func init() {
	watchCmd.Flags().Bool("all", false, "show every session event, not only records")
	watchCmd.Flags().String("nats-url", "", "NATS server URL (default $QRSCOUT_NATS_URL)")
}
