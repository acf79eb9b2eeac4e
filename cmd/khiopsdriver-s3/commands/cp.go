package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KhiopsML/khiopsdriver-s3/log"
)

var cpCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "cp <remote-uri> <local-path>",
	Short: "Copy a remote object to a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		d, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Disconnect(ctx); err != nil {
				log.Warnf("disconnect: %v", err)
			}
		}()

		return d.CopyToLocal(ctx, args[0], args[1])
	},
}
