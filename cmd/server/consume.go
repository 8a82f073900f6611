package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/casting-agency/internal/queue"
)

var consumeAuditCmd = &cobra.Command{
	Use:   "consume-audit",
	Short: "Append resource events from the broker to the audit log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel, cfg, closeLogs, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		defer closeLogs()

		err = queue.StartAuditConsumer(ctx, cfg.AMQP)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
