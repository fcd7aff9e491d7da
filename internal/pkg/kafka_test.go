package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaProducerValidation(t *testing.T) {
	_, err := NewKafkaProducer(KafkaConfig{Topic: "forum-events"})
	assert.Error(t, err)
	_, err = NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	assert.Error(t, err)

	p, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "forum-events"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestMakeKeyFromID(t *testing.T) {
	assert.Equal(t, "42", MakeKeyFromID(42))
	assert.Equal(t, "18446744073709551615", MakeKeyFromID(^uint64(0)))
}
