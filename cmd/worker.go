package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that drain the broker queues used by the API.`,
}

var auditWorkerCmd = &cobra.Command{
	Use:   "audit",
	Short: "Start audit queue consumer",
	Long:  `Consume audit entries published by the API and append them to the daily audit log`,
	Run: func(cmd *cobra.Command, args []string) {
		startAuditWorker()
	},
}

var (
	auditQueue string
	auditDir   string
)

type auditMessage struct {
	audit.Entry
	Message string `json:"message"`
}

func startAuditWorker() {
	config := mustLoadConfig()
	logger := logger.LoggerWrapper()

	queue := getStringFlag(auditQueue, config.Audit.AMQP.Queue)
	dir := getStringFlag(auditDir, config.Audit.Dir)

	sink, err := audit.NewFileSink(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open audit log: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	conn, ch, err := audit.OpenQueue(config.Audit.AMQP.URL, queue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open audit queue: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	defer ch.Close()

	deliveries, err := ch.Consume(queue, "audit-worker", false, false, false, false, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to consume audit queue: %v\n", err)
		os.Exit(1)
	}

	logger.Info("audit worker started", "queue", queue, "dir", dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down audit worker", "signal", sig)
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("audit queue closed by broker")
				return
			}

			var msg auditMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logger.Error("dropping malformed audit message", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			if msg.Message == "" {
				msg.Message = msg.Entry.Message()
			}

			err := sink.WriteLine(msg.Message,
				"entity", msg.Entity,
				"entity_id", msg.EntityID,
				"action", string(msg.Action))
			if err != nil {
				logger.Error("failed to write audit line", "error", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	auditWorkerCmd.Flags().StringVar(&auditQueue, "queue", "", "Audit queue name (overrides config)")
	auditWorkerCmd.Flags().StringVar(&auditDir, "dir", "", "Audit log directory (overrides config)")

	workerCmd.AddCommand(auditWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
