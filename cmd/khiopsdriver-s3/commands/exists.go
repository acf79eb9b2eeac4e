package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KhiopsML/khiopsdriver-s3/log"
)

var existsCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "exists <uri>",
	Short: "Report whether an object or multifile pattern exists",
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

		ok, err := d.Exist(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(ok)

		return nil
	},
}
