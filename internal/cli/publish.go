package cli

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/grocery/internal/app"
	"github.com/vladislavdragonenkov/grocery/internal/messaging/kafka"
)

func newPublishCmd(opts *globalOptions) *cobra.Command {
	var (
		brokers []string
		topic   string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a snapshot event per order to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(brokers) == 0 {
				brokers = opts.cfg.KafkaBrokers
			}
			if topic == "" {
				topic = opts.cfg.KafkaTopic
			}
			if len(brokers) == 0 {
				return errors.New("kafka brokers are required (--brokers or kafka_brokers)")
			}

			repo, err := app.OpenRepository(cmd.Context(), opts.cfg, nil, nil)
			if err != nil {
				return err
			}
			defer repo.Close()

			orders, err := repo.All(cmd.Context())
			if err != nil {
				return fmt.Errorf("load orders: %w", err)
			}

			producer, err := kafka.NewProducer(brokers)
			if err != nil {
				return err
			}
			defer func() {
				if err := producer.Close(); err != nil {
					log.WithError(err).Warn("failed to close kafka producer")
				}
			}()

			n, err := kafka.NewOrderPublisher(producer, topic).PublishOrders(cmd.Context(), orders)
			fmt.Fprintf(cmd.OutOrStdout(), "published %d of %d orders to %s\n", n, len(orders), topic)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&brokers, "brokers", nil, "Kafka brokers (overrides kafka_brokers)")
	cmd.Flags().StringVar(&topic, "topic", "", "Kafka topic (overrides kafka_topic)")
	return cmd
}
