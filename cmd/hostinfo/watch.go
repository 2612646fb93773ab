package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/axondata/go-hostinfo"
)

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	unit := args[0]

	events, stop, err := hostinfo.WatchUnit(ctx, current.builder, unit)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil {
			current.logger.Warn("failed to stop watching", zap.String("unit", unit), zap.Error(err))
		}
	}()

	current.logger.Info("watching unit file", zap.String("unit", unit))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Err != nil {
				current.logger.Warn("unit report failed", zap.String("unit", unit), zap.Error(event.Err))
				continue
			}
			if err := writeReport(newUnitReport(event.Info)); err != nil {
				return err
			}
		}
	}
}
