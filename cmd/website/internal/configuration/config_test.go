package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupStatus(t *testing.T) {
	config := Config{}
	assert.Equal(t, SetupStatus{}, config.SetupStatus())

	config.PrintfulApiKey = "key"
	config.EmailApiKey = "key"
	assert.True(t, config.SetupStatus().FulfillmentReady)
	assert.False(t, config.SetupStatus().EmailReady)

	config.EmailFromAddress = "art@example.com"
	config.PublishToCatalog = true
	assert.Equal(t, SetupStatus{FulfillmentReady: true, EmailReady: true, RemoteCatalogReady: true}, config.SetupStatus())
}
