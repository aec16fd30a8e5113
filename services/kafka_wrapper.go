package services

import (
	"course-payments/services/kafka"
)

func InitProducer() {
	kafka.InitProducer()
}

func Publish(topic, key string, value interface{}) error {
	return kafka.Publish(topic, key, value)
}

func IsConnected() bool {
	return kafka.IsConnected()
}

func Close() error {
	return kafka.Close()
}
