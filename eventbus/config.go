package eventbus

import (
	"os"
)

// LookupBrokers returns Kafka bootstrap servers from env KAFKA_BOOTSTRAP_SERVERS.
// The API runs without an event bus when it is unset.
func LookupBrokers() (string, bool) {
	v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	return v, v != ""
}

// GetBrokers returns Kafka bootstrap servers from env KAFKA_BOOTSTRAP_SERVERS
func GetBrokers() string {
	v, ok := LookupBrokers()
	if !ok {
		panic("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
	}
	return v
}

// GetGroupID returns consumer group id from env KAFKA_GROUP_ID
func GetGroupID() string {
	v := os.Getenv("KAFKA_GROUP_ID")
	if v == "" {
		panic("KAFKA_GROUP_ID environment variable is required")
	}
	return v
}
