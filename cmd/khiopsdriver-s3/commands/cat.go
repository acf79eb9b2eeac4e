package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/KhiopsML/khiopsdriver-s3/driver"
	"github.com/KhiopsML/khiopsdriver-s3/log"
)

var catCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "cat <uri>",
	Short: "Stream the logical content of an object or multifile pattern to stdout",
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

		h, err := d.Fopen(ctx, args[0], 'r')
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Fclose(ctx, h); err != nil {
				log.Warnf("fclose: %v", err)
			}
		}()

		buf := make([]byte, driver.PreferredBufferSize)

		for {
			n, err := d.Fread(ctx, h, buf)
			if err != nil {
				return err
			}

			if n == 0 {
				return nil
			}

			if _, err := os.Stdout.Write(buf[:n]); err != nil {
				return err
			}
		}
	},
}
