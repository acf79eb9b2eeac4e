package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KhiopsML/khiopsdriver-s3/log"
)

var sizeCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "size <uri>",
	Short: "Print the logical (header-deduplicated) size of an object or multifile pattern",
	Args:  cobra.ExactArgs(1),
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

		size, err := d.GetFileSize(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(size)

		return nil
	},
}
