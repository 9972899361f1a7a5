package output

import (
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaOutputWritesToConfiguredTopic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()

	dest := newKafkaOutput(producer, "price_events")
	require.NoError(t, dest.WriteMessage(TopicMenuSummaries, []byte(`{"run_id":"run-1"}`)))
	require.NoError(t, dest.Close())
}

func TestKafkaOutputFallsBackToMessageTopic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()

	dest := newKafkaOutput(producer, "")
	require.NoError(t, dest.WriteMessage(TopicMenuSummaries, []byte(`{"run_id":"run-1"}`)))
	require.NoError(t, dest.Close())
}

func TestKafkaOutputPropagatesProducerErrors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(assert.AnError)

	dest := newKafkaOutput(producer, "price_events")
	err := dest.WriteMessage(TopicMenuSummaries, []byte(`{"run_id":"run-1"}`))
	require.Error(t, err)
	require.NoError(t, dest.Close())
}
