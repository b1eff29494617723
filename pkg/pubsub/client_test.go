package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
)

func TestTopicPath(t *testing.T) {
	cases := map[string]struct {
		project string
		name    string
		want    string
	}{
		"short name":     {"proj", "orders", "projects/proj/topics/orders"},
		"padded name":    {"proj", " orders ", "projects/proj/topics/orders"},
		"full path kept": {"proj", "projects/other/topics/orders", "projects/other/topics/orders"},
		"no project":     {"", "orders", ""},
		"no name":        {"proj", "", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, topicPath(tc.project, tc.name))
		})
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	require.Nil(t, c.Publisher("orders"))
	require.Nil(t, c.OrdersPublisher())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Ping(context.Background()), errClosed)
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{ProjectID: "  "}, config.PubSubConfig{OrdersTopic: "orders"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)
}
