package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/orderinsights/pkg/config"
)

func TestSubscriptionNamesSkipsBlank(t *testing.T) {
	assert.Empty(t, subscriptionNames(config.PubSubConfig{RefreshSubscription: "  "}))
	assert.Equal(t, []string{"dataset-refresh"}, subscriptionNames(config.PubSubConfig{RefreshSubscription: " dataset-refresh "}))
}

func TestSubscriptionResourceName(t *testing.T) {
	c := &Client{projectID: "insights-prod"}

	assert.Equal(t, "projects/insights-prod/subscriptions/dataset-refresh", c.subscriptionResourceName("dataset-refresh"))
	assert.Equal(t, "projects/other/subscriptions/x", c.subscriptionResourceName("projects/other/subscriptions/x"))
	assert.Empty(t, c.subscriptionResourceName(""))

	var nilClient *Client
	assert.Empty(t, nilClient.subscriptionResourceName("dataset-refresh"))
	assert.Nil(t, nilClient.Subscription("dataset-refresh"))
}

func TestPingRequiresClient(t *testing.T) {
	var nilClient *Client
	assert.Error(t, nilClient.Ping(context.Background()))
	assert.NoError(t, nilClient.Close())
}
