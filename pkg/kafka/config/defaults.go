package kafka_config

import "time"

const (
	DefaultKafkaBrokers  = "localhost:9092"
	DefaultKafkaClientID = "hotelbooking"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerWriteTimeout = 5 * time.Second
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultEnableMiddleware = true
)
