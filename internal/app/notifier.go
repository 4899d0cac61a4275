package app

import (
	intconfig "journeycompass/internal/config"
	"journeycompass/internal/gateway"

	"go.uber.org/zap"
)

// BuildNotifier returns the webhook notifier, plus a Kafka publisher when
// brokers are configured. A Kafka connection failure only disables Kafka.
func BuildNotifier(env intconfig.Env, log *zap.Logger) (gateway.Notifier, func()) {
	webhook := gateway.NewWebhookNotifier(env.BookingWebhookURL, env.CancelWebhookURL, env.WebhookTimeout)
	if len(env.KafkaBrokers) == 0 {
		return webhook, func() {}
	}

	kafka, err := gateway.NewKafkaNotifier(env.KafkaBrokers, env.KafkaTopic, log)
	if err != nil {
		log.Warn("kafka disabled", zap.Error(err))
		return webhook, func() {}
	}
	return gateway.MultiNotifier{webhook, kafka}, func() {
		if err := kafka.Close(); err != nil {
			log.Warn("kafka close failed", zap.Error(err))
		}
	}
}
